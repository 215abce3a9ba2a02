package models

import "time"

// Position tracks an open or closed trade.
type Position struct {
	Symbol        string     `json:"symbol"`
	EntryPrice    float64    `json:"entry_price"`
	EntryTime     time.Time  `json:"entry_time"`
	Quantity      int        `json:"quantity"`
	TargetPrice   *float64   `json:"target_price,omitempty"`
	StopLossPrice *float64   `json:"stop_loss_price,omitempty"`
	CurrentPrice  *float64   `json:"current_price,omitempty"`
	Status        string     `json:"status"` // active or closed
	PnL           *float64   `json:"pnl,omitempty"`
	PnLPercentage *float64   `json:"pnl_percentage,omitempty"`
	ClosedTime    *time.Time `json:"closed_time,omitempty"`
}

// NewPositionFromOrder opens a position from a filled order. Returns nil
// unless the order actually filled.
func NewPositionFromOrder(o *Order) *Position {
	if o == nil || o.Status != OrderFilled || o.FilledPrice == nil {
		return nil
	}
	qty := o.Quantity
	if o.FilledQuantity != nil {
		qty = *o.FilledQuantity
	}
	entryTime := time.Now().UTC()
	if o.FilledTimestamp != nil {
		entryTime = *o.FilledTimestamp
	}
	p := &Position{
		Symbol:     o.Symbol,
		EntryPrice: *o.FilledPrice,
		EntryTime:  entryTime,
		Quantity:   qty,
		Status:     "active",
	}
	if o.TargetPrice > 0 {
		tp := o.TargetPrice
		p.TargetPrice = &tp
	}
	if o.StopLossPrice > 0 {
		sl := o.StopLossPrice
		p.StopLossPrice = &sl
	}
	p.UpdatePrice(p.EntryPrice)
	return p
}

// UpdatePrice refreshes the mark price and PnL bookkeeping.
func (p *Position) UpdatePrice(price float64) {
	p.CurrentPrice = &price
	pnl := (price - p.EntryPrice) * float64(p.Quantity)
	p.PnL = &pnl
	if p.EntryPrice != 0 {
		pct := (price - p.EntryPrice) / p.EntryPrice * 100
		p.PnLPercentage = &pct
	}
}

// Close marks the position closed at the exit price.
func (p *Position) Close(exitPrice float64, at time.Time) {
	p.Status = "closed"
	p.ClosedTime = &at
	p.UpdatePrice(exitPrice)
}
