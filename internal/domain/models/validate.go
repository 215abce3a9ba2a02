package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ValidationError reports a field-scoped input failure. It is always
// surfaced to the caller and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// DataFetchError reports one symbol's data being unavailable. A batch scan
// records it per-symbol and continues.
type DataFetchError struct {
	Source string
	Symbol string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Symbol, e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// symbolPattern accepts EXCHANGE:SYMBOL (e.g. NSE:INFY) or a bare index
// name (e.g. NIFTY50).
var symbolPattern = regexp.MustCompile(`^([A-Z]{3,}:[A-Z0-9]{1,20}|[A-Z0-9]+)$`)

const (
	minPrice = 0.01
	maxPrice = 1_000_000
)

// ValidateSymbol checks the symbol format.
func ValidateSymbol(symbol string) error {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return &ValidationError{Field: "symbol", Message: "symbol is required"}
	}
	if !symbolPattern.MatchString(s) {
		return &ValidationError{Field: "symbol",
			Message: fmt.Sprintf("invalid symbol format %q, expected EXCHANGE:SYMBOL", symbol)}
	}
	return nil
}

// NormalizeSymbol uppercases and trims a raw symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidatePrice checks a price against the accepted range.
func ValidatePrice(price float64) error {
	if price < minPrice {
		return &ValidationError{Field: "price",
			Message: fmt.Sprintf("price %v is below minimum %v", price, minPrice)}
	}
	if price > maxPrice {
		return &ValidationError{Field: "price",
			Message: fmt.Sprintf("price %v exceeds maximum %v", price, maxPrice)}
	}
	return nil
}

// ValidateQuantity checks an order quantity.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return &ValidationError{Field: "quantity",
			Message: fmt.Sprintf("quantity %d is below minimum 1", quantity)}
	}
	if quantity > 1_000_000 {
		return &ValidationError{Field: "quantity",
			Message: fmt.Sprintf("quantity %d exceeds maximum 1000000", quantity)}
	}
	return nil
}

// ValidateDate parses a YYYY-MM-DD date string.
func ValidateDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date",
			Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)}
	}
	return t, nil
}

// ValidateScore checks a confirmation score against [0,12].
func ValidateScore(score int) error {
	if score < 0 || score > 12 {
		return &ValidationError{Field: "score",
			Message: fmt.Sprintf("score %d out of range [0,12]", score)}
	}
	return nil
}

// ValidateOrderID checks a broker order id.
func ValidateOrderID(orderID string) error {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return &ValidationError{Field: "order_id", Message: "order id cannot be empty"}
	}
	if len(id) > 50 {
		return &ValidationError{Field: "order_id",
			Message: fmt.Sprintf("order id too long: %d > 50 chars", len(id))}
	}
	return nil
}

// ValidateEntry enforces stop < entry < target for a long entry, all positive.
func ValidateEntry(entry, stopLoss, takeProfit float64) error {
	if err := ValidatePrice(entry); err != nil {
		return err
	}
	if err := ValidatePrice(stopLoss); err != nil {
		return err
	}
	if err := ValidatePrice(takeProfit); err != nil {
		return err
	}
	if stopLoss >= entry {
		return &ValidationError{Field: "stop_loss",
			Message: fmt.Sprintf("stop loss (%v) must be below entry (%v)", stopLoss, entry)}
	}
	if takeProfit <= entry {
		return &ValidationError{Field: "take_profit",
			Message: fmt.Sprintf("take profit (%v) must be above entry (%v)", takeProfit, entry)}
	}
	return nil
}
