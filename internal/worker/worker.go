package worker

import (
	"context"
	"log"

	"cart-service/internal/broker"
	"cart-service/internal/models"
	"cart-service/internal/service"
	"cart-service/internal/util"

	"go.uber.org/zap"
)

// StockCacheWorker consumes stock events and refreshes the stock
// cache, so sibling instances serve fresh availability without hitting
// the database.
type StockCacheWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cache        service.StockCache
	logger       *zap.Logger
}

// NewStockCacheWorker creates a new stock cache worker
func NewStockCacheWorker(consumer *broker.Consumer, cache service.StockCache) *StockCacheWorker {
	w := &StockCacheWorker{
		consumer: consumer,
		cache:    cache,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnStockReserved(w.handleStockReserved)
	eventHandler.OnStockReleased(w.handleStockReleased)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockCacheWorker) Start(ctx context.Context) error {
	log.Println("Starting stock cache worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockCacheWorker) Stop() error {
	log.Println("Stopping stock cache worker...")
	return w.consumer.Close()
}

func (w *StockCacheWorker) handleStockReserved(ctx context.Context, event *models.StockReservedEvent) error {
	return w.refresh(ctx, event.ProductID, event.Remaining)
}

func (w *StockCacheWorker) handleStockReleased(ctx context.Context, event *models.StockReleasedEvent) error {
	return w.refresh(ctx, event.ProductID, event.Remaining)
}

func (w *StockCacheWorker) refresh(ctx context.Context, productID string, remaining int) error {
	if err := w.cache.SetStock(ctx, productID, remaining); err != nil {
		w.logger.Error("Failed to refresh stock cache from event",
			zap.String("product_id", productID),
			zap.Error(err))
		return err
	}

	w.logger.Debug("Stock cache refreshed from event",
		zap.String("product_id", productID),
		zap.Int("remaining", remaining))
	return nil
}
