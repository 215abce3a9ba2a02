package dhan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	pkghttp "StockScan/pkg/http"
	applogger "StockScan/pkg/logger"
)

// tickSize is the NSE price tick. Entry, target and stop prices must land
// on a tick boundary or the exchange rejects the order.
var tickSize = decimal.NewFromFloat(0.05)

// Client implements a Broker against the Dhan super-order API. With no
// credentials it runs in paper mode: orders are acknowledged locally and
// marked filled at the entry price.
type Client struct {
	http        *pkghttp.Client
	baseURL     string
	accessToken string
	clientID    string
	paper       bool
	l           *applogger.Logger
}

type Option func(*Client)

func WithCredentials(accessToken, clientID string) Option {
	return func(c *Client) {
		c.accessToken = accessToken
		c.clientID = clientID
		c.paper = accessToken == "" || clientID == ""
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.l = l }
}

func New(httpClient *pkghttp.Client, baseURL string, opts ...Option) drepo.Broker {
	c := &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		paper:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type superOrderRequest struct {
	DhanClientID    string  `json:"dhanClientId"`
	TransactionType string  `json:"transactionType"`
	ExchangeSegment string  `json:"exchangeSegment"`
	ProductType     string  `json:"productType"`
	OrderType       string  `json:"orderType"`
	SecurityID      string  `json:"securityId"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	TargetPrice     float64 `json:"targetPrice"`
	StopLossPrice   float64 `json:"stopLossPrice"`
}

type superOrderResponse struct {
	OrderID     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

type orderStatusResponse struct {
	OrderID            string  `json:"orderId"`
	OrderStatus        string  `json:"orderStatus"`
	AverageTradedPrice float64 `json:"averageTradedPrice"`
	FilledQty          int     `json:"filledQty"`
}

func (c *Client) PlaceSuperOrder(ctx context.Context, order *models.Order) (string, error) {
	order.EntryPrice = RoundToTick(order.EntryPrice)
	order.TargetPrice = RoundToTick(order.TargetPrice)
	order.StopLossPrice = RoundToTick(order.StopLossPrice)

	if c.paper {
		return c.placePaper(order), nil
	}

	req := superOrderRequest{
		DhanClientID:    c.clientID,
		TransactionType: "BUY",
		ExchangeSegment: "NSE_EQ",
		ProductType:     "CNC",
		OrderType:       "LIMIT",
		SecurityID:      order.Symbol,
		Quantity:        order.Quantity,
		Price:           order.EntryPrice,
		TargetPrice:     order.TargetPrice,
		StopLossPrice:   order.StopLossPrice,
	}
	var resp superOrderResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodPost,
		URL:     c.baseURL + "/v2/super/orders",
		Headers: c.headers(),
		Body:    req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("place super order %s: %w", order.Symbol, err)
	}

	order.OrderID = resp.OrderID
	order.Status = mapStatus(resp.OrderStatus)
	order.PlacedTimestamp = time.Now().UTC()
	if c.l != nil {
		c.l.Info("super order placed",
			applogger.String("order_id", resp.OrderID),
			applogger.String("symbol", order.Symbol),
			applogger.Int("quantity", order.Quantity),
		)
	}
	return resp.OrderID, nil
}

func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (*models.Order, error) {
	if c.paper {
		return c.paperStatus(orderID), nil
	}

	var resp orderStatusResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodGet,
		URL:     c.baseURL + "/v2/orders/" + orderID,
		Headers: c.headers(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("order status %s: %w", orderID, err)
	}

	order := &models.Order{
		OrderID: resp.OrderID,
		Status:  mapStatus(resp.OrderStatus),
	}
	if resp.FilledQty > 0 {
		qty := resp.FilledQty
		price := resp.AverageTradedPrice
		order.FilledQuantity = &qty
		order.FilledPrice = &price
	}
	return order, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"access-token": c.accessToken,
		"client-id":    c.clientID,
		"Content-Type": "application/json",
	}
}

func (c *Client) placePaper(order *models.Order) string {
	id := "paper-" + uuid.NewString()
	order.OrderID = id
	order.Status = models.OrderPlaced
	order.PlacedTimestamp = time.Now().UTC()
	if c.l != nil {
		c.l.Info("paper order placed",
			applogger.String("order_id", id),
			applogger.String("symbol", order.Symbol),
			applogger.Int("quantity", order.Quantity),
		)
	}
	return id
}

func (c *Client) paperStatus(orderID string) *models.Order {
	// Paper fills are immediate. The execution price is resolved by the
	// caller from its cached request, since the paper book keeps no state.
	now := time.Now().UTC()
	return &models.Order{
		OrderID:         orderID,
		Status:          models.OrderFilled,
		PlacedTimestamp: now,
		FilledTimestamp: &now,
	}
}

// RoundToTick snaps a price to the nearest exchange tick, half up.
func RoundToTick(price float64) float64 {
	d := decimal.NewFromFloat(price)
	ticks := d.Div(tickSize).Round(0)
	out, _ := ticks.Mul(tickSize).Float64()
	return out
}

func mapStatus(s string) models.OrderStatus {
	switch strings.ToUpper(s) {
	case "TRANSIT", "PENDING":
		return models.OrderPending
	case "TRADED":
		return models.OrderFilled
	case "PART_TRADED":
		return models.OrderPartial
	case "CANCELLED":
		return models.OrderCancelled
	case "REJECTED":
		return models.OrderRejected
	default:
		return models.OrderPlaced
	}
}
