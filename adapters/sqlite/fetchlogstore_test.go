package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/ports"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	// A second run must be a no-op.
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestFetchLogStore_RecordAndRecent(t *testing.T) {
	db := testDB(t)
	s := NewFetchLogStore(db)
	ctx := context.Background()
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	events := []ports.FetchEvent{
		{ID: "a", Channel: "First", ChannelID: "UC1", Status: ports.FetchOK, LatencyMs: 120, Timestamp: base},
		{ID: "b", Channel: "Second", ChannelID: "UC2", Status: ports.FetchError, LatencyMs: 300, Timestamp: base.Add(time.Second)},
		{ID: "c", Channel: "First", ChannelID: "UC1", Status: ports.FetchOK, LatencyMs: 95, Timestamp: base.Add(2 * time.Second)},
	}
	for _, e := range events {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("record %s: %v", e.ID, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("expected newest first (c, b), got (%s, %s)", got[0].ID, got[1].ID)
	}
	if got[0].Channel != "First" || got[0].LatencyMs != 95 {
		t.Errorf("event fields did not roundtrip: %+v", got[0])
	}
	if got[1].Status != ports.FetchError {
		t.Errorf("expected status %s, got %s", ports.FetchError, got[1].Status)
	}
}

func TestFetchLogStore_Recent_DefaultLimit(t *testing.T) {
	db := testDB(t)
	s := NewFetchLogStore(db)
	ctx := context.Background()

	if err := s.Record(ctx, ports.FetchEvent{ID: "x", Channel: "A", ChannelID: "UC1", Status: ports.FetchOK, Timestamp: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 event with default limit, got %d", len(got))
	}
}

func TestFetchLogStore_Recent_Empty(t *testing.T) {
	db := testDB(t)
	s := NewFetchLogStore(db)

	got, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}
