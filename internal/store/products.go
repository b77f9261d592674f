package store

import (
	"context"
	"database/sql"
	"errors"

	"cart-service/internal/apperr"
	"cart-service/internal/models"
)

// CreateProduct persists a new product. The caller assigns the ID.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO produtos (id, nome, preco, estoque)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		product.ID, product.Name, product.Price, product.Stock).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, "product name already exists: %s", product.Name)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to create product")
	}
	return nil
}

// GetProducts retrieves all products in insertion order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM produtos ORDER BY created_at, id")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to list products")
	}
	return products, nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM produtos WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "product not found: %s", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to get product")
	}
	return &product, nil
}

// UpdateProduct persists all mutable fields of a product. The service
// layer merges partial updates into the loaded row before calling.
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE produtos
		SET nome = $1, preco = $2, estoque = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		product.Name, product.Price, product.Stock, product.ID).
		Scan(&product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.KindNotFound, "product not found: %s", product.ID)
	}
	if isUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, "product name already exists: %s", product.Name)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to update product")
	}
	return nil
}

// DeleteProduct removes a product. Deleting a product still referenced
// by cart lines is rejected by the ON DELETE RESTRICT foreign key and
// surfaces as a conflict.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM produtos WHERE id = $1", id)
	if isForeignKeyViolation(err) {
		return apperr.New(apperr.KindConflict, "product is still reserved in a cart: %s", id)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to delete product")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to delete product")
	}
	if rows == 0 {
		return apperr.New(apperr.KindNotFound, "product not found: %s", id)
	}
	return nil
}
