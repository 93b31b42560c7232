package sqlite

import (
	"context"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/ports"
)

// FetchLogStore implements ports.FetchLogStore using SQLite.
type FetchLogStore struct {
	db *DB
}

// NewFetchLogStore creates a new SQLite fetch log store.
func NewFetchLogStore(db *DB) *FetchLogStore {
	return &FetchLogStore{db: db}
}

// Record stores a single fetch event.
func (s *FetchLogStore) Record(ctx context.Context, e ports.FetchEvent) error {
	// Store timestamps in UTC for consistent ordering
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fetch_events (id, channel, channel_id, status, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Channel, e.ChannelID, e.Status, e.LatencyMs, e.Timestamp.UTC())
	return err
}

// Recent returns the newest events, most recent first.
func (s *FetchLogStore) Recent(ctx context.Context, limit int) ([]ports.FetchEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, channel, channel_id, status, latency_ms, timestamp
		FROM fetch_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ports.FetchEvent
	for rows.Next() {
		var e ports.FetchEvent
		var ts time.Time
		if err := rows.Scan(&e.ID, &e.Channel, &e.ChannelID, &e.Status, &e.LatencyMs, &ts); err != nil {
			return nil, err
		}
		e.Timestamp = ts.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ ports.FetchLogStore = (*FetchLogStore)(nil)
