package app

import (
	"context"
	"testing"
	"time"
)

func TestPacer_ZeroIntervalDoesNotBlock(t *testing.T) {
	p := NewPacer(0)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("zero-interval pacer blocked for %v", elapsed)
	}
}

func TestPacer_WaitsApproximatelyOneInterval(t *testing.T) {
	p := NewPacer(30 * time.Millisecond)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("pacer returned after %v, expected at least the interval", elapsed)
	}
}

func TestPacer_CancelledContext(t *testing.T) {
	p := NewPacer(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Wait(ctx)
	if err == nil {
		t.Fatalf("expected context error")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("cancelled wait took %v", elapsed)
	}
}
