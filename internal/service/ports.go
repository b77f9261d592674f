package service

import (
	"context"

	"cart-service/internal/models"
)

// Store is the persistence port the services depend on. It is
// implemented by *store.Store and by mocks in tests.
type Store interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCartByOwner(ctx context.Context, ownerID string) (*models.Cart, error)

	// ReserveStock atomically decrements available stock and upserts
	// the cart line; returns the remaining available stock.
	ReserveStock(ctx context.Context, cartID, productID string, quantity int) (int, error)
	// ReleaseStock atomically deletes the cart line and restores its
	// full quantity; returns the released quantity and resulting stock.
	ReleaseStock(ctx context.Context, cartID, productID string) (int, int, error)

	GetStockMovements(ctx context.Context) ([]models.StockMovement, error)
}

// StockCache is the advisory per-product stock cache. Failures are
// logged, never surfaced: the store stays the source of truth.
type StockCache interface {
	GetStock(ctx context.Context, productID string) (int, bool, error)
	SetStock(ctx context.Context, productID string, stock int) error
	InvalidateStock(ctx context.Context, productID string) error
}

// EventPublisher publishes domain events after commit, best-effort.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, event *models.ProductCreatedEvent) error
	PublishProductDeleted(ctx context.Context, event *models.ProductDeletedEvent) error
	PublishStockReserved(ctx context.Context, event *models.StockReservedEvent) error
	PublishStockReleased(ctx context.Context, event *models.StockReleasedEvent) error
}
