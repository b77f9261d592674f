package service

import (
	"context"
	"time"

	"cart-service/internal/apperr"
	"cart-service/internal/models"
	"cart-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService handles product catalog business logic
type CatalogService struct {
	store          Store
	cache          StockCache
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store Store, cache StockCache, eventPublisher EventPublisher) *CatalogService {
	return &CatalogService{
		store:          store,
		cache:          cache,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name  string          `json:"nome" binding:"required"`
	Price decimal.Decimal `json:"preco"`
	Stock int             `json:"estoque"`
}

// UpdateProductRequest represents a partial product update. Only
// supplied fields are applied.
type UpdateProductRequest struct {
	Name  *string          `json:"nome,omitempty"`
	Price *decimal.Decimal `json:"preco,omitempty"`
	Stock *int             `json:"estoque,omitempty"`
}

func validatePrice(price decimal.Decimal) error {
	if price.LessThan(models.MinPrice) {
		return apperr.New(apperr.KindInvalidInput, "price must be at least %s", models.MinPrice)
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return apperr.New(apperr.KindInvalidInput, "stock must not be negative")
	}
	return nil
}

// CreateProduct validates and persists a new product
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if req.Name == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "product name must not be empty")
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := validateStock(req.Stock); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))

	if err := s.cache.SetStock(ctx, product.ID, product.Stock); err != nil {
		s.logger.Warn("Failed to warm stock cache", zap.Error(err))
	}

	event := &models.ProductCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductCreated,
			Timestamp: time.Now(),
		},
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
	}
	if err := s.eventPublisher.PublishProductCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductCreated event", zap.Error(err))
	}

	return product, nil
}

// ListProducts returns all products in insertion order
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetProducts(ctx)
}

// GetProduct returns a product by ID. Available stock is served from
// the cache when present; a miss warms the cache and a cache error
// degrades to the stored value.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stock, found, err := s.cache.GetStock(ctx, product.ID)
	switch {
	case err != nil:
		util.CacheHitsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("Stock cache read failed", zap.Error(err))
	case found:
		util.CacheHitsTotal.WithLabelValues("hit").Inc()
		product.Stock = stock
	default:
		util.CacheHitsTotal.WithLabelValues("miss").Inc()
		if err := s.cache.SetStock(ctx, product.ID, product.Stock); err != nil {
			s.logger.Warn("Failed to warm stock cache", zap.Error(err))
		}
	}

	return product, nil
}

// UpdateProduct applies the supplied fields to an existing product.
// An empty field set is rejected.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if req.Name == nil && req.Price == nil && req.Stock == nil {
		return nil, apperr.New(apperr.KindInvalidInput, "no fields supplied for update")
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperr.New(apperr.KindInvalidInput, "product name must not be empty")
		}
		product.Name = *req.Name
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if err := validateStock(*req.Stock); err != nil {
			return nil, err
		}
		product.Stock = *req.Stock
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	if err := s.cache.SetStock(ctx, product.ID, product.Stock); err != nil {
		s.logger.Warn("Failed to refresh stock cache", zap.Error(err))
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID))
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	util.ProductsDeletedTotal.Inc()
	s.logger.Info("Product deleted", zap.String("product_id", id))

	if err := s.cache.InvalidateStock(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate stock cache", zap.Error(err))
	}

	event := &models.ProductDeletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductDeleted,
			Timestamp: time.Now(),
		},
		ProductID: id,
	}
	if err := s.eventPublisher.PublishProductDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductDeleted event", zap.Error(err))
	}

	return nil
}
