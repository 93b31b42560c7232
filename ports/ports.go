// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/channel"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/stats"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// LedgerStore persists the single daily-usage ledger document.
// Read returns an error wrapping fs.ErrNotExist when no record has been
// written yet, so callers can distinguish a first run from a broken store.
type LedgerStore interface {
	// Read retrieves the persisted ledger.
	Read(ctx context.Context) (quota.Ledger, error)

	// Write replaces the persisted ledger wholesale.
	Write(ctx context.Context, l quota.Ledger) error
}

// FetchEvent records one upstream fetch attempt (value type).
type FetchEvent struct {
	ID        string
	Channel   string
	ChannelID string
	Status    string // "ok" or "error"
	LatencyMs int64
	Timestamp time.Time
}

// Fetch event status values.
const (
	FetchOK    = "ok"
	FetchError = "error"
)

// FetchLogStore persists upstream fetch events.
type FetchLogStore interface {
	// Record stores a single fetch event.
	Record(ctx context.Context, e FetchEvent) error

	// Recent returns the newest events, most recent first.
	Recent(ctx context.Context, limit int) ([]FetchEvent, error)
}

// -----------------------------------------------------------------------------
// Upstream Ports
// -----------------------------------------------------------------------------

// StatsSource fetches statistics for one tracked channel from the metered
// upstream API. One call costs one metered unit.
type StatsSource interface {
	ChannelStats(ctx context.Context, ch channel.Channel) (stats.ChannelStats, error)
}
