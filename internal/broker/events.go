package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cart-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishProductCreated publishes ProductCreated event
func (ep *EventPublisher) PublishProductCreated(ctx context.Context, event *models.ProductCreatedEvent) error {
	key := fmt.Sprintf("produto-%s", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProductDeleted publishes ProductDeleted event
func (ep *EventPublisher) PublishProductDeleted(ctx context.Context, event *models.ProductDeletedEvent) error {
	key := fmt.Sprintf("produto-%s", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockReserved publishes StockReserved event
func (ep *EventPublisher) PublishStockReserved(ctx context.Context, event *models.StockReservedEvent) error {
	key := fmt.Sprintf("produto-%s", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockReleased publishes StockReleased event
func (ep *EventPublisher) PublishStockReleased(ctx context.Context, event *models.StockReleasedEvent) error {
	key := fmt.Sprintf("produto-%s", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming stock events to registered callbacks
type EventHandler struct {
	onStockReserved func(context.Context, *models.StockReservedEvent) error
	onStockReleased func(context.Context, *models.StockReleasedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnStockReserved registers a handler for StockReserved events
func (eh *EventHandler) OnStockReserved(handler func(context.Context, *models.StockReservedEvent) error) {
	eh.onStockReserved = handler
}

// OnStockReleased registers a handler for StockReleased events
func (eh *EventHandler) OnStockReleased(handler func(context.Context, *models.StockReleasedEvent) error) {
	eh.onStockReleased = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeStockReserved:
		if eh.onStockReserved != nil {
			var event models.StockReservedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockReserved event: %w", err)
			}
			return eh.onStockReserved(ctx, &event)
		}

	case models.EventTypeStockReleased:
		if eh.onStockReleased != nil {
			var event models.StockReleasedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockReleased event: %w", err)
			}
			return eh.onStockReleased(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
