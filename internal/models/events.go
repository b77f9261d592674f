package models

import "time"

// Event types
const (
	EventTypeProductCreated = "PRODUCT_CREATED"
	EventTypeProductDeleted = "PRODUCT_DELETED"
	EventTypeStockReserved  = "STOCK_RESERVED"
	EventTypeStockReleased  = "STOCK_RELEASED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductCreatedEvent published when a product enters the catalog
type ProductCreatedEvent struct {
	BaseEvent
	ProductID string `json:"produto_id"`
	Name      string `json:"nome"`
	Stock     int    `json:"estoque"`
}

// ProductDeletedEvent published when a product is removed
type ProductDeletedEvent struct {
	BaseEvent
	ProductID string `json:"produto_id"`
}

// StockReservedEvent published after a committed cart reservation
type StockReservedEvent struct {
	BaseEvent
	ProductID string `json:"produto_id"`
	CartID    string `json:"carrinho_id"`
	Quantity  int    `json:"quantidade"`
	Remaining int    `json:"estoque_restante"`
}

// StockReleasedEvent published after a committed cart removal
type StockReleasedEvent struct {
	BaseEvent
	ProductID string `json:"produto_id"`
	CartID    string `json:"carrinho_id"`
	Quantity  int    `json:"quantidade"`
	Remaining int    `json:"estoque_restante"`
}
