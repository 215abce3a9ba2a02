package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Score  int     `json:"score"`
	Price  float64 `json:"price"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := payload{Symbol: "NSE:INFY", Score: 9, Price: 1520.5}
	if err := mc.Set(ctx, "scan:NSE:INFY", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := mc.Get(ctx, "scan:NSE:INFY", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestMemoryMissAndExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	var out payload
	if err := mc.Get(ctx, "absent", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("get absent = %v, want ErrCacheMiss", err)
	}

	if err := mc.Set(ctx, "short", payload{Symbol: "X"}, 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := mc.Get(ctx, "short", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("get expired = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	_ = mc.Set(ctx, "k1", "v1", time.Minute)
	ok, err := mc.Exists(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}
	if err := mc.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, _ = mc.Exists(ctx, "k1")
	if ok {
		t.Fatalf("key exists after delete")
	}
}

func TestMemoryDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	_ = mc.Set(ctx, "dup:NSE:INFY:2026-08-28", "a", time.Minute)
	_ = mc.Set(ctx, "dup:NSE:TCS:2026-08-28", "b", time.Minute)
	_ = mc.Set(ctx, "signal:NSE:INFY:2026-08-28:1", "c", time.Minute)

	n, err := mc.DeleteByPattern(ctx, "dup:*")
	if err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d keys, want 2", n)
	}
	if ok, _ := mc.Exists(ctx, "signal:NSE:INFY:2026-08-28:1"); !ok {
		t.Fatalf("non-matching key was deleted")
	}
}

func TestMemorySerializationFailureReported(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	if err := mc.Set(ctx, "bad", make(chan int), time.Minute); err == nil {
		t.Fatalf("expected serialization error, got nil")
	}
}

func TestMemoryCloseStopsJanitor(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(time.Millisecond))
	time.Sleep(5 * time.Millisecond) // let the janitor run at least once

	if err := mc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-mc.done:
	default:
		t.Fatalf("done channel not closed")
	}
	// Close is idempotent.
	if err := mc.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestMemoryHealthReportsFallback(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	h := mc.Health(context.Background())
	if h.Status != StatusDegraded || !h.FallbackActive || h.Backend != "memory" {
		t.Fatalf("health = %+v", h)
	}
}

func TestFallbackWithoutRemote(t *testing.T) {
	ctx := context.Background()
	fc := NewFallbackCache(nil, NewMemoryCache())
	defer fc.Close()

	if err := fc.Set(ctx, "k", payload{Symbol: "Y"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out payload
	if err := fc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Symbol != "Y" {
		t.Fatalf("round trip = %+v", out)
	}

	h := fc.Health(ctx)
	if h.Status != StatusDegraded || !h.FallbackActive {
		t.Fatalf("health without remote = %+v", h)
	}
}

func TestHashKeyStable(t *testing.T) {
	a := HashKey("NSE:INFY_2026-08-28_1520.5")
	b := HashKey("NSE:INFY_2026-08-28_1520.5")
	if a != b || len(a) != 32 {
		t.Fatalf("hash not stable 32-char hex: %q vs %q", a, b)
	}
}
