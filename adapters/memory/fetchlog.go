package memory

import (
	"context"
	"sync"

	"github.com/PRATIKUGALE02/youtube-proxy/ports"
)

// FetchLog is a bounded in-memory fetch-event log. It backs the history
// endpoint when the SQLite store is disabled.
type FetchLog struct {
	mu     sync.RWMutex
	events []ports.FetchEvent
	max    int
}

// NewFetchLog creates a fetch log keeping at most max events (default 1000).
func NewFetchLog(max int) *FetchLog {
	if max <= 0 {
		max = 1000
	}
	return &FetchLog{max: max}
}

// Record appends an event, evicting the oldest when full.
func (f *FetchLog) Record(ctx context.Context, e ports.FetchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, e)
	if len(f.events) > f.max {
		f.events = f.events[len(f.events)-f.max:]
	}
	return nil
}

// Recent returns up to limit events, most recent first.
func (f *FetchLog) Recent(ctx context.Context, limit int) ([]ports.FetchEvent, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := len(f.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]ports.FetchEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, f.events[i])
	}
	return out, nil
}

var _ ports.FetchLogStore = (*FetchLog)(nil)
