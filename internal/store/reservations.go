package store

import (
	"context"
	"database/sql"
	"errors"

	"cart-service/internal/apperr"
	"cart-service/internal/models"

	"github.com/google/uuid"
)

// ReserveStock moves quantity units of a product from available stock
// into the cart's line item as a single transaction: the product row
// is locked (FOR UPDATE), the stock check and decrement happen under
// that lock, and the line upsert plus the audit movement commit with
// it or not at all. Returns the remaining available stock.
func (s *Store) ReserveStock(ctx context.Context, cartID, productID string, quantity int) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var product struct {
		Name  string `db:"nome"`
		Stock int    `db:"estoque"`
	}
	err = tx.GetContext(ctx, &product,
		"SELECT nome, estoque FROM produtos WHERE id = $1 FOR UPDATE", productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.New(apperr.KindNotFound, "product not found: %s", productID)
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to lock product")
	}

	if product.Stock < quantity {
		return 0, apperr.New(apperr.KindInsufficientStock,
			"insufficient stock for %s: %d available, %d requested",
			product.Name, product.Stock, quantity)
	}

	remaining := product.Stock - quantity
	_, err = tx.ExecContext(ctx,
		"UPDATE produtos SET estoque = estoque - $1, updated_at = NOW() WHERE id = $2",
		quantity, productID)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to decrement stock")
	}

	// A product appears at most once per cart; repeat adds increment
	// the existing line instead of duplicating it.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO itens_carrinho (id, carrinho_id, produto_id, quantidade)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (produto_id, carrinho_id)
		DO UPDATE SET quantidade = itens_carrinho.quantidade + EXCLUDED.quantidade`,
		uuid.New().String(), cartID, productID, quantity)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to upsert cart item")
	}

	if err := insertMovement(ctx, tx, productID, cartID, quantity, models.MovementReserved); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to commit reservation")
	}
	return remaining, nil
}

// ReleaseStock removes a product's line from the cart and restores its
// full quantity to available stock, atomically. Returns the released
// quantity and the product's stock after the restore.
func (s *Store) ReleaseStock(ctx context.Context, cartID, productID string) (int, int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	// Lock the product first, same order as ReserveStock, so the two
	// operations cannot deadlock against each other. A missing product
	// cannot have a line (the foreign key restricts deletion), so both
	// cases report the same absence.
	var lockedID string
	err = tx.GetContext(ctx, &lockedID,
		"SELECT id FROM produtos WHERE id = $1 FOR UPDATE", productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, apperr.New(apperr.KindNotFound, "product not in cart: %s", productID)
	}
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to lock product")
	}

	var quantity int
	err = tx.GetContext(ctx, &quantity,
		"SELECT quantidade FROM itens_carrinho WHERE carrinho_id = $1 AND produto_id = $2",
		cartID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, apperr.New(apperr.KindNotFound, "product not in cart: %s", productID)
	}
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to load cart item")
	}

	var remaining int
	err = tx.GetContext(ctx, &remaining,
		"UPDATE produtos SET estoque = estoque + $1, updated_at = NOW() WHERE id = $2 RETURNING estoque",
		quantity, productID)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to restore stock")
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM itens_carrinho WHERE carrinho_id = $1 AND produto_id = $2",
		cartID, productID)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to delete cart item")
	}

	if err := insertMovement(ctx, tx, productID, cartID, quantity, models.MovementReleased); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to commit release")
	}
	return quantity, remaining, nil
}

func insertMovement(ctx context.Context, tx sqlExecer, productID, cartID string, quantity int, movementType string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO movimentos_estoque (id, produto_id, carrinho_id, quantidade, tipo)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), productID, cartID, quantity, movementType)
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to record stock movement")
	}
	return nil
}

type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
