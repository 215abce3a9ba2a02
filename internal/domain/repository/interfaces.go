package repository

import (
	"context"

	"StockScan/internal/domain/models"
)

// MarketData fetches historical candles for one symbol. Implementations
// return the most recent n bars in chronological order.
type MarketData interface {
	Fetch(ctx context.Context, symbol string, interval Interval, n int) (*models.PriceSeries, error)
	Health(ctx context.Context) error
	Close() error
}

// Broker places and tracks orders with an execution venue.
type Broker interface {
	PlaceSuperOrder(ctx context.Context, order *models.Order) (string, error)
	GetOrderStatus(ctx context.Context, orderID string) (*models.Order, error)
}

// SignalPublisher emits confirmed signals to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, signal *models.Signal) error
	Close() error
}

type Metrics interface {
	RecordScan(symbols int, seconds float64)
	RecordSignal(symbol string)
	RecordSymbolError(kind string)
	RecordCacheHit(op string)
	RecordCacheMiss(op string)
	RecordOrder(status string)
}
