package dhan

import (
	"context"
	"math"
	"strings"
	"testing"

	"StockScan/internal/domain/models"
	pkghttp "StockScan/pkg/http"
)

func TestRoundToTick(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{100.00, 100.00},
		{100.02, 100.00},
		{100.03, 100.05},
		{100.025, 100.05},
		{1520.57, 1520.55},
		{1520.58, 1520.60},
	}
	for _, c := range cases {
		got := RoundToTick(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("RoundToTick(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPaperOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	broker := New(pkghttp.NewClient(), "https://api.dhan.co")

	order := &models.Order{
		Symbol:        "NSE:INFY",
		EntryPrice:    1520.57,
		Quantity:      10,
		TargetPrice:   1612.03,
		StopLossPrice: 1474.92,
	}
	id, err := broker.PlaceSuperOrder(ctx, order)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !strings.HasPrefix(id, "paper-") {
		t.Fatalf("paper order id = %q", id)
	}
	if order.Status != models.OrderPlaced {
		t.Fatalf("status = %s, want placed", order.Status)
	}
	if order.EntryPrice != 1520.55 {
		t.Fatalf("entry not tick-rounded: %v", order.EntryPrice)
	}

	got, err := broker.GetOrderStatus(ctx, id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if got.Status != models.OrderFilled {
		t.Fatalf("paper status = %s, want filled", got.Status)
	}
}
