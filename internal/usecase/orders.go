package usecase

import (
	"context"
	"fmt"
	"time"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/pkg/cache"
	applogger "StockScan/pkg/logger"
)

// OrderUseCase places super orders through the broker and tracks their
// state in the cache so status lookups survive restarts.
type OrderUseCase struct {
	broker   drepo.Broker
	cache    cache.Service
	metrics  drepo.Metrics
	logger   *applogger.Logger
	orderTTL time.Duration
}

func NewOrderUseCase(broker drepo.Broker, cacheSvc cache.Service, metrics drepo.Metrics, logger *applogger.Logger) *OrderUseCase {
	return &OrderUseCase{
		broker:   broker,
		cache:    cacheSvc,
		metrics:  metrics,
		logger:   logger,
		orderTTL: 7 * 24 * time.Hour,
	}
}

type PlaceOrderParams struct {
	Symbol        string
	EntryPrice    float64
	Quantity      int
	TargetPrice   float64
	StopLossPrice float64
}

func (uc *OrderUseCase) PlaceOrder(ctx context.Context, p PlaceOrderParams) (*models.Order, error) {
	symbol := models.NormalizeSymbol(p.Symbol)
	if err := models.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := models.ValidatePrice(p.EntryPrice); err != nil {
		return nil, err
	}
	if err := models.ValidateQuantity(p.Quantity); err != nil {
		return nil, err
	}
	if err := models.ValidateEntry(p.EntryPrice, p.StopLossPrice, p.TargetPrice); err != nil {
		return nil, err
	}

	order := &models.Order{
		Symbol:        symbol,
		EntryPrice:    p.EntryPrice,
		Quantity:      p.Quantity,
		TargetPrice:   p.TargetPrice,
		StopLossPrice: p.StopLossPrice,
		Status:        models.OrderPending,
	}
	id, err := uc.broker.PlaceSuperOrder(ctx, order)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordOrder("failed")
		}
		return nil, fmt.Errorf("place order: %w", err)
	}
	order.OrderID = id

	if err := uc.cache.Set(ctx, order.CacheKey(), order, uc.orderTTL); err != nil {
		uc.logger.Warn("order cache write failed",
			applogger.String("order_id", id),
			applogger.Error(err),
		)
	}
	if uc.metrics != nil {
		uc.metrics.RecordOrder(string(order.Status))
	}
	uc.logger.Info("order placed",
		applogger.String("order_id", id),
		applogger.String("symbol", symbol),
		applogger.Int("quantity", p.Quantity),
	)
	return order, nil
}

// GetOrderStatus asks the broker for the live state and refreshes the
// cached order. The cached copy is the fallback when the broker is down.
func (uc *OrderUseCase) GetOrderStatus(ctx context.Context, orderID string) (*models.Order, error) {
	if err := models.ValidateOrderID(orderID); err != nil {
		return nil, err
	}

	var cached models.Order
	cacheKey := cache.GenerateKey("order", orderID)
	haveCached := uc.cache.Get(ctx, cacheKey, &cached) == nil

	live, err := uc.broker.GetOrderStatus(ctx, orderID)
	if err != nil {
		if haveCached {
			uc.logger.Warn("broker status failed, serving cached order",
				applogger.String("order_id", orderID),
				applogger.Error(err),
			)
			return &cached, nil
		}
		return nil, fmt.Errorf("order status: %w", err)
	}

	// Merge: the broker only returns execution state, the cache remembers
	// what we asked for.
	if haveCached {
		cached.Status = live.Status
		cached.FilledPrice = live.FilledPrice
		cached.FilledQuantity = live.FilledQuantity
		cached.FilledTimestamp = live.FilledTimestamp
		// Paper fills carry no execution report; assume the limit was hit.
		if cached.Status == models.OrderFilled && cached.FilledPrice == nil {
			price := cached.EntryPrice
			qty := cached.Quantity
			cached.FilledPrice = &price
			cached.FilledQuantity = &qty
		}
		live = &cached
	}
	if err := uc.cache.Set(ctx, cacheKey, live, uc.orderTTL); err != nil {
		uc.logger.Warn("order cache refresh failed",
			applogger.String("order_id", orderID),
			applogger.Error(err),
		)
	}
	uc.trackPosition(ctx, live)
	return live, nil
}

// trackPosition opens a cached position the first time an order reports
// filled. Later status polls for the same order leave it untouched.
func (uc *OrderUseCase) trackPosition(ctx context.Context, order *models.Order) {
	pos := models.NewPositionFromOrder(order)
	if pos == nil {
		return
	}
	key := cache.GenerateKey("position", order.Symbol)
	exists, err := uc.cache.Exists(ctx, key)
	if err == nil && exists {
		return
	}
	if err := uc.cache.Set(ctx, key, pos, uc.orderTTL); err != nil {
		uc.logger.Warn("position cache write failed",
			applogger.String("symbol", order.Symbol),
			applogger.Error(err),
		)
		return
	}
	uc.logger.Info("position opened",
		applogger.String("symbol", order.Symbol),
		applogger.Any("entry", pos.EntryPrice),
		applogger.Int("quantity", pos.Quantity),
	)
}
