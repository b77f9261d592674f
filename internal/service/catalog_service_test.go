package service

import (
	"context"
	"testing"

	"cart-service/internal/apperr"
	"cart-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture() (*CatalogService, *MockStore, *MockCache, *MockPublisher) {
	st := &MockStore{}
	cache := &MockCache{}
	pub := &MockPublisher{}
	return NewCatalogService(st, cache, pub), st, cache, pub
}

func TestCreateProduct(t *testing.T) {
	svc, st, cache, pub := newCatalogFixture()
	ctx := context.Background()

	st.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil)
	cache.On("SetStock", ctx, mock.Anything, 5).Return(nil)
	pub.On("PublishProductCreated", ctx, mock.Anything).Return(nil)

	product, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: 5,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 5, product.Stock)
	st.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateProductInvalidPrice(t *testing.T) {
	svc, st, _, _ := newCatalogFixture()

	_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Name:  "Widget",
		Price: decimal.NewFromFloat(0.001),
		Stock: 5,
	})

	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	st.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestCreateProductNegativeStock(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()

	_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: -1,
	})

	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestCreateProductNameConflict(t *testing.T) {
	svc, st, _, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("CreateProduct", ctx, mock.Anything).
		Return(apperr.New(apperr.KindConflict, "product name already exists: Widget"))

	_, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: 5,
	})

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "Widget")
}

func TestUpdateProductEmptyFieldSet(t *testing.T) {
	svc, st, _, _ := newCatalogFixture()

	_, err := svc.UpdateProduct(context.Background(), "p1", &UpdateProductRequest{})

	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	st.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, st, cache, _ := newCatalogFixture()
	ctx := context.Background()

	existing := &models.Product{
		ID:    "p1",
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: 5,
	}
	st.On("GetProductByID", ctx, "p1").Return(existing, nil)
	st.On("UpdateProduct", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Widget" && p.Stock == 9 &&
			p.Price.Equal(decimal.NewFromFloat(10.00))
	})).Return(nil)
	cache.On("SetStock", ctx, "p1", 9).Return(nil)

	stock := 9
	updated, err := svc.UpdateProduct(ctx, "p1", &UpdateProductRequest{Stock: &stock})

	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stock)
	st.AssertExpectations(t)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, st, _, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("GetProductByID", ctx, "missing").
		Return(nil, apperr.New(apperr.KindNotFound, "product not found: missing"))

	name := "Widget"
	_, err := svc.UpdateProduct(ctx, "missing", &UpdateProductRequest{Name: &name})

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestUpdateProductInvalidPrice(t *testing.T) {
	svc, st, _, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("GetProductByID", ctx, "p1").Return(&models.Product{
		ID:    "p1",
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: 5,
	}, nil)

	price := decimal.NewFromFloat(0.005)
	_, err := svc.UpdateProduct(ctx, "p1", &UpdateProductRequest{Price: &price})

	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	st.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	svc, st, cache, pub := newCatalogFixture()
	ctx := context.Background()

	st.On("DeleteProduct", ctx, "p1").Return(nil)
	cache.On("InvalidateStock", ctx, "p1").Return(nil)
	pub.On("PublishProductDeleted", ctx, mock.Anything).Return(nil)

	require.NoError(t, svc.DeleteProduct(ctx, "p1"))
	st.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, st, _, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("DeleteProduct", ctx, "missing").
		Return(apperr.New(apperr.KindNotFound, "product not found: missing"))

	err := svc.DeleteProduct(ctx, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGetProductCacheHit(t *testing.T) {
	svc, st, cache, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("GetProductByID", ctx, "p1").Return(&models.Product{
		ID:    "p1",
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: 5,
	}, nil)
	cache.On("GetStock", ctx, "p1").Return(3, true, nil)

	product, err := svc.GetProduct(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
	cache.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProductCacheMissWarmsCache(t *testing.T) {
	svc, st, cache, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("GetProductByID", ctx, "p1").Return(&models.Product{
		ID:    "p1",
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: 5,
	}, nil)
	cache.On("GetStock", ctx, "p1").Return(0, false, nil)
	cache.On("SetStock", ctx, "p1", 5).Return(nil)

	product, err := svc.GetProduct(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
	cache.AssertExpectations(t)
}

func TestGetProductCacheErrorFallsBackToStore(t *testing.T) {
	svc, st, cache, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("GetProductByID", ctx, "p1").Return(&models.Product{
		ID:    "p1",
		Name:  "Widget",
		Price: decimal.NewFromFloat(10.00),
		Stock: 5,
	}, nil)
	cache.On("GetStock", ctx, "p1").Return(0, false, assert.AnError)

	product, err := svc.GetProduct(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
	cache.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProductNotFoundSkipsCache(t *testing.T) {
	svc, st, cache, _ := newCatalogFixture()
	ctx := context.Background()

	st.On("GetProductByID", ctx, "missing").
		Return(nil, apperr.New(apperr.KindNotFound, "product not found: missing"))

	_, err := svc.GetProduct(ctx, "missing")

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	cache.AssertNotCalled(t, "GetStock", mock.Anything, mock.Anything)
}
