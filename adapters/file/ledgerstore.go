// Package file provides the JSON-document implementation of the ledger
// store. The whole ledger is one small file; writes replace it atomically.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
	"github.com/PRATIKUGALE02/youtube-proxy/ports"
)

// LedgerStore persists the ledger as a single pretty-printed JSON document.
// It does not synchronize across processes; the deployment model is a
// single writer per ledger file.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a store backed by the given file path.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: path}
}

// Path returns the backing file path.
func (s *LedgerStore) Path() string {
	return s.path
}

// Read loads the persisted ledger. A missing file surfaces as an error
// wrapping fs.ErrNotExist; corrupt JSON surfaces as a parse error. Callers
// decide how to degrade.
func (s *LedgerStore) Read(ctx context.Context) (quota.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return quota.Ledger{}, fmt.Errorf("read ledger: %w", err)
	}

	var l quota.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return quota.Ledger{}, fmt.Errorf("parse ledger: %w", err)
	}
	return l, nil
}

// Write replaces the persisted ledger. The document lands in a temp file in
// the same directory and is renamed into place, so a crash mid-write never
// leaves a truncated ledger behind.
func (s *LedgerStore) Write(ctx context.Context, l quota.Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

var _ ports.LedgerStore = (*LedgerStore)(nil)
