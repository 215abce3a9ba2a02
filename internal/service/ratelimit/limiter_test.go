package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("api", 3, 0.001) {
			t.Fatalf("token %d denied", i)
		}
	}
	if l.Allow("api", 3, 0.001) {
		t.Fatalf("expected empty bucket")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0.001) {
		t.Fatalf("first token for a denied")
	}
	if l.Allow("a", 1, 0.001) {
		t.Fatalf("a should be drained")
	}
	if !l.Allow("b", 1, 0.001) {
		t.Fatalf("b should have its own bucket")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("api", 1, 100) {
		t.Fatalf("first token denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("api", 1, 100) {
		t.Fatalf("bucket did not refill")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New()
	if !l.Allow("api", 1, 0.001) {
		t.Fatalf("first token denied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "api", 1, 0.001); err == nil {
		t.Fatalf("expected context error on a drained bucket")
	}
}

func TestWaitReturnsWhenTokenFrees(t *testing.T) {
	l := New()
	if !l.Allow("api", 1, 20) {
		t.Fatalf("first token denied")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Wait(ctx, "api", 1, 20); err != nil {
		t.Fatalf("wait: %v", err)
	}
}
