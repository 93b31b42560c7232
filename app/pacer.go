package app

import (
	"context"
	"time"
)

// Pacer spaces out consecutive upstream calls by a fixed interval. The
// interval is a named policy knob, not an inline sleep: the aggregation
// loop waits one tick between channels to stay under the upstream's
// burst tolerance.
type Pacer struct {
	interval time.Duration
}

// NewPacer creates a pacer with the given interval. A zero or negative
// interval disables pacing.
func NewPacer(interval time.Duration) Pacer {
	return Pacer{interval: interval}
}

// Interval returns the configured pacing interval.
func (p Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks for one pacing interval or until ctx is cancelled.
func (p Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(p.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
