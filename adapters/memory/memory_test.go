package memory

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
	"github.com/PRATIKUGALE02/youtube-proxy/ports"
)

func TestLedgerStore_EmptyReadsAsNotFound(t *testing.T) {
	s := NewLedgerStore()

	_, err := s.Read(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist from empty store, got %v", err)
	}
}

func TestLedgerStore_Roundtrip(t *testing.T) {
	s := NewLedgerStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	l := quota.NewLedger(2, now).WithIncrement(0, 3, now)
	if err := s.Write(ctx, l); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Usage[0] != 3 {
		t.Errorf("expected Usage[0]=3, got %d", got.Usage[0])
	}
}

func TestLedgerStore_ErrorInjection(t *testing.T) {
	s := NewLedgerStore()
	ctx := context.Background()
	boom := errors.New("disk on fire")

	s.FailWrites(boom)
	if err := s.Write(ctx, quota.Ledger{}); !errors.Is(err, boom) {
		t.Errorf("expected injected write error, got %v", err)
	}

	s.FailWrites(nil)
	s.FailReads(boom)
	if _, err := s.Read(ctx); !errors.Is(err, boom) {
		t.Errorf("expected injected read error, got %v", err)
	}
}

func TestFetchLog_RecentOrderAndLimit(t *testing.T) {
	f := NewFetchLog(10)
	ctx := context.Background()
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		e := ports.FetchEvent{
			ID:        string(rune('a' + i)),
			Channel:   "ch",
			Status:    ports.FetchOK,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := f.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := f.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].ID != "e" || got[1].ID != "d" || got[2].ID != "c" {
		t.Errorf("expected most recent first, got %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestFetchLog_EvictsOldest(t *testing.T) {
	f := NewFetchLog(2)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		if err := f.Record(ctx, ports.FetchEvent{ID: id}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := f.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events after eviction, got %d", len(got))
	}
	if got[0].ID != "3" || got[1].ID != "2" {
		t.Errorf("expected oldest evicted, got %s %s", got[0].ID, got[1].ID)
	}
}
