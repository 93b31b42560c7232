package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
)

func tempStore(t *testing.T) *LedgerStore {
	t.Helper()
	return NewLedgerStore(filepath.Join(t.TempDir(), "quota.json"))
}

func TestRead_MissingFile(t *testing.T) {
	s := tempStore(t)

	_, err := s.Read(context.Background())
	if err == nil {
		t.Fatalf("expected error for missing ledger file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestWriteThenRead_Roundtrip(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	l := quota.NewLedger(3, now).WithIncrement(1, 42, now)

	if err := s.Write(ctx, l); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Date != "2025-06-15" {
		t.Errorf("expected Date=2025-06-15, got %s", got.Date)
	}
	if len(got.Usage) != 3 || got.Usage[1] != 42 {
		t.Errorf("expected usage [0 42 0], got %v", got.Usage)
	}
	if !got.LastUpdated.Equal(now) {
		t.Errorf("expected LastUpdated=%v, got %v", now, got.LastUpdated)
	}
}

func TestRead_CorruptFile(t *testing.T) {
	s := tempStore(t)

	if err := os.WriteFile(s.Path(), []byte("{not valid json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	_, err := s.Read(context.Background())
	if err == nil {
		t.Fatalf("expected parse error for corrupt ledger")
	}
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("corrupt file must not look like a missing file: %v", err)
	}
}

func TestWrite_ReplacesExisting(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	if err := s.Write(ctx, quota.NewLedger(2, now)); err != nil {
		t.Fatalf("first write: %v", err)
	}
	next := quota.NewLedger(2, now).WithIncrement(0, 7, now)
	if err := s.Write(ctx, next); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Usage[0] != 7 {
		t.Errorf("expected replacement write to win, got %v", got.Usage)
	}

	// No temp files may linger next to the ledger.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the ledger file, found %d entries", len(entries))
	}
}

func TestWrite_DocumentShape(t *testing.T) {
	// The on-disk layout is part of the contract: {date, usage, last_updated}.
	s := tempStore(t)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	if err := s.Write(context.Background(), quota.NewLedger(2, now)); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, key := range []string{"date", "usage", "last_updated"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("expected key %q in ledger document", key)
		}
	}
}
