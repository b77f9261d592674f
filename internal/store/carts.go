package store

import (
	"context"
	"database/sql"
	"errors"

	"cart-service/internal/apperr"
	"cart-service/internal/models"
)

// CreateCart persists a new empty cart. A concurrent create for the
// same owner loses on the unique usuario_id constraint and surfaces
// as a conflict; the caller re-fetches.
func (s *Store) CreateCart(ctx context.Context, cart *models.Cart) error {
	query := `
		INSERT INTO carrinhos (id, usuario_id)
		VALUES ($1, $2)
		RETURNING created_at`

	err := s.db.QueryRowxContext(ctx, query, cart.ID, cart.OwnerID).Scan(&cart.CreatedAt)
	if isUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, "cart already exists for owner: %s", cart.OwnerID)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to create cart")
	}
	cart.Items = []models.CartItem{}
	return nil
}

// GetCartByOwner retrieves an owner's cart with its line items and
// each line's product data eagerly loaded.
func (s *Store) GetCartByOwner(ctx context.Context, ownerID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.GetContext(ctx, &cart,
		"SELECT id, usuario_id, created_at FROM carrinhos WHERE usuario_id = $1", ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "cart not found for owner: %s", ownerID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to get cart")
	}

	if err := s.loadCartItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartByID retrieves a cart by its ID with items loaded.
func (s *Store) GetCartByID(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.GetContext(ctx, &cart,
		"SELECT id, usuario_id, created_at FROM carrinhos WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "cart not found: %s", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to get cart")
	}

	if err := s.loadCartItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Store) loadCartItems(ctx context.Context, cart *models.Cart) error {
	items := []models.CartItem{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT i.id, i.carrinho_id, i.produto_id, i.quantidade, p.nome, p.preco
		FROM itens_carrinho i
		JOIN produtos p ON p.id = i.produto_id
		WHERE i.carrinho_id = $1
		ORDER BY i.id`, cart.ID)
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to load cart items")
	}
	cart.Items = items
	return nil
}

// GetStockMovements retrieves the reservation audit trail, newest first.
func (s *Store) GetStockMovements(ctx context.Context) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	err := s.db.SelectContext(ctx, &movements,
		"SELECT * FROM movimentos_estoque ORDER BY created_at DESC, id")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to list stock movements")
	}
	return movements, nil
}
