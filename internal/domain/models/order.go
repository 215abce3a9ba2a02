package models

import (
	"fmt"
	"time"
)

// OrderStatus enumerates broker order states, serialized lowercase.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPlaced    OrderStatus = "placed"
	OrderPartial   OrderStatus = "partial"
	OrderFilled    OrderStatus = "filled"
	OrderCancelled OrderStatus = "cancelled"
	OrderRejected  OrderStatus = "rejected"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPlaced, OrderPartial, OrderFilled, OrderCancelled, OrderRejected:
		return true
	default:
		return false
	}
}

// Order represents an order sent to the broker.
type Order struct {
	OrderID         string      `json:"order_id"`
	Symbol          string      `json:"symbol"`
	EntryPrice      float64     `json:"entry_price"`
	Quantity        int         `json:"quantity"`
	TargetPrice     float64     `json:"target_price"`
	StopLossPrice   float64     `json:"stop_loss_price"`
	Status          OrderStatus `json:"status"`
	PlacedTimestamp time.Time   `json:"placed_timestamp"`
	FilledTimestamp *time.Time  `json:"filled_timestamp,omitempty"`
	FilledPrice     *float64    `json:"filled_price,omitempty"`
	FilledQuantity  *int        `json:"filled_quantity,omitempty"`
}

// CacheKey returns the cache key tracking this order.
func (o *Order) CacheKey() string {
	return fmt.Sprintf("order:%s", o.OrderID)
}
