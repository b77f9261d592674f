package service

import (
	"context"
	"time"

	"cart-service/internal/apperr"
	"cart-service/internal/models"
	"cart-service/internal/store"
	"cart-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coordinator moves stock between the available pool and cart
// reservations. Every mutation is one store transaction; transient
// write conflicts are retried a bounded number of times before
// surfacing as a conflict.
type Coordinator struct {
	store          Store
	cache          StockCache
	eventPublisher EventPublisher
	carts          *CartService
	maxRetries     int
	logger         *zap.Logger
}

// NewCoordinator creates a new stock reservation coordinator
func NewCoordinator(
	store Store,
	cache StockCache,
	eventPublisher EventPublisher,
	carts *CartService,
	maxRetries int,
) *Coordinator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Coordinator{
		store:          store,
		cache:          cache,
		eventPublisher: eventPublisher,
		carts:          carts,
		maxRetries:     maxRetries,
		logger:         util.GetLogger(),
	}
}

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID string `json:"produtoId" binding:"required"`
	Quantity  int    `json:"quantidade" binding:"required,min=1"`
}

// AddItem reserves quantity units of a product into the owner's cart
// and returns the updated cart view.
func (c *Coordinator) AddItem(ctx context.Context, ownerID, productID string, quantity int) (*models.CartView, error) {
	ctx, span := util.StartSpan(ctx, "Coordinator.AddItem")
	defer span.End()

	if quantity < 1 {
		return nil, apperr.New(apperr.KindInvalidInput, "quantity must be at least 1")
	}

	cart, err := c.carts.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var remaining int
	err = c.withRetry(func() error {
		var txErr error
		remaining, txErr = c.store.ReserveStock(ctx, cart.ID, productID, quantity)
		return txErr
	})
	util.ReservationLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		util.StockReservationsFailed.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	util.StockReservationsTotal.Inc()
	c.logger.Info("Stock reserved",
		zap.String("cart_id", cart.ID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", remaining))

	c.afterStockChange(ctx, cart.ID, productID, quantity, remaining, models.EventTypeStockReserved)

	updated, err := c.store.GetCartByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return models.NewCartView(updated), nil
}

// RemoveItem deletes a product's line from the owner's cart, restores
// its full quantity to stock, and returns the updated cart view.
// Partial removal is not supported; the whole line goes.
func (c *Coordinator) RemoveItem(ctx context.Context, ownerID, productID string) (*models.CartView, error) {
	ctx, span := util.StartSpan(ctx, "Coordinator.RemoveItem")
	defer span.End()

	cart, err := c.store.GetCartByOwner(ctx, ownerID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "product not in cart: %s", productID)
	}
	if err != nil {
		return nil, err
	}

	var released, remaining int
	err = c.withRetry(func() error {
		var txErr error
		released, remaining, txErr = c.store.ReleaseStock(ctx, cart.ID, productID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	util.StockReleasesTotal.Inc()
	c.logger.Info("Stock released",
		zap.String("cart_id", cart.ID),
		zap.String("product_id", productID),
		zap.Int("quantity", released),
		zap.Int("remaining", remaining))

	c.afterStockChange(ctx, cart.ID, productID, released, remaining, models.EventTypeStockReleased)

	updated, err := c.store.GetCartByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return models.NewCartView(updated), nil
}

// GetStockMovements returns the reservation audit trail
func (c *Coordinator) GetStockMovements(ctx context.Context) ([]models.StockMovement, error) {
	return c.store.GetStockMovements(ctx)
}

// withRetry runs op, retrying on transient write conflicts up to the
// configured bound. Exhaustion surfaces as a conflict.
func (c *Coordinator) withRetry(op func() error) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			util.ReservationRetriesTotal.Inc()
		}
		err = op()
		if err == nil || !store.IsRetryable(err) {
			return err
		}
		c.logger.Warn("Write conflict, retrying transaction",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return apperr.Wrap(apperr.KindConflict, err, "write conflict persisted after %d retries", c.maxRetries)
}

// afterStockChange refreshes the stock cache and publishes the domain
// event. Both are best-effort: the transaction already committed.
func (c *Coordinator) afterStockChange(ctx context.Context, cartID, productID string, quantity, remaining int, eventType string) {
	if err := c.cache.SetStock(ctx, productID, remaining); err != nil {
		c.logger.Warn("Failed to refresh stock cache",
			zap.String("product_id", productID),
			zap.Error(err))
	}

	base := models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}

	var err error
	switch eventType {
	case models.EventTypeStockReserved:
		err = c.eventPublisher.PublishStockReserved(ctx, &models.StockReservedEvent{
			BaseEvent: base,
			ProductID: productID,
			CartID:    cartID,
			Quantity:  quantity,
			Remaining: remaining,
		})
	case models.EventTypeStockReleased:
		err = c.eventPublisher.PublishStockReleased(ctx, &models.StockReleasedEvent{
			BaseEvent: base,
			ProductID: productID,
			CartID:    cartID,
			Quantity:  quantity,
			Remaining: remaining,
		})
	}
	if err != nil {
		c.logger.Error("Failed to publish stock event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func failureReason(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindInsufficientStock:
		return "insufficient_stock"
	case apperr.KindNotFound:
		return "product_not_found"
	case apperr.KindConflict:
		return "write_conflict"
	default:
		return "store_error"
	}
}
