// Package memory provides in-memory implementations of storage ports,
// used by tests and as fallbacks when durable storage is disabled.
package memory

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
	"github.com/PRATIKUGALE02/youtube-proxy/ports"
)

// LedgerStore keeps the ledger in process memory. An empty store reads as
// "not found" to match the file store's first-run behavior.
type LedgerStore struct {
	mu     sync.RWMutex
	ledger quota.Ledger
	exists bool

	// Error injection for tests.
	readErr  error
	writeErr error
}

// NewLedgerStore creates an empty in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// Read returns the stored ledger, or an error wrapping fs.ErrNotExist when
// nothing has been written yet.
func (s *LedgerStore) Read(ctx context.Context) (quota.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.readErr != nil {
		return quota.Ledger{}, s.readErr
	}
	if !s.exists {
		return quota.Ledger{}, fmt.Errorf("read ledger: %w", fs.ErrNotExist)
	}
	return s.ledger, nil
}

// Write replaces the stored ledger.
func (s *LedgerStore) Write(ctx context.Context, l quota.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.ledger = l
	s.exists = true
	return nil
}

// FailReads makes subsequent reads return err (nil restores normal behavior).
func (s *LedgerStore) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes subsequent writes return err (nil restores normal behavior).
func (s *LedgerStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

var _ ports.LedgerStore = (*LedgerStore)(nil)
