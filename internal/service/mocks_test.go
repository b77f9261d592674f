package service

import (
	"context"

	"cart-service/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore implements the Store port for unit tests
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockStore) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockStore) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) CreateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockStore) GetCartByOwner(ctx context.Context, ownerID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockStore) ReserveStock(ctx context.Context, cartID, productID string, quantity int) (int, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) ReleaseStock(ctx context.Context, cartID, productID string) (int, int, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockStore) GetStockMovements(ctx context.Context) ([]models.StockMovement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockMovement), args.Error(1)
}

// MockCache implements the StockCache port for unit tests
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetStock(ctx context.Context, productID string) (int, bool, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetStock(ctx context.Context, productID string, stock int) error {
	args := m.Called(ctx, productID, stock)
	return args.Error(0)
}

func (m *MockCache) InvalidateStock(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockPublisher implements the EventPublisher port for unit tests
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductCreated(ctx context.Context, event *models.ProductCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) PublishProductDeleted(ctx context.Context, event *models.ProductDeletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) PublishStockReserved(ctx context.Context, event *models.StockReservedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) PublishStockReleased(ctx context.Context, event *models.StockReleasedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
