// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	"github.com/PRATIKUGALE02/youtube-proxy/adapters/metrics"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
	"github.com/PRATIKUGALE02/youtube-proxy/ports"
	"github.com/rs/zerolog"
)

// LoadResult is the outcome of loading the ledger. Recovered reports that
// the store failed and a fresh in-memory ledger was substituted; Cause
// carries the masked error so callers and tests can observe the fallback
// without it changing the request outcome.
type LoadResult struct {
	Ledger    quota.Ledger
	Recovered bool
	Cause     error
}

// LedgerService owns the daily usage ledger: load with day-rollover,
// increment, and persistence with graceful degradation. A mutex serializes
// in-process read-modify-write cycles; nothing synchronizes across
// processes, the deployment model is a single writer per ledger file.
type LedgerService struct {
	store   ports.LedgerStore
	clock   ports.Clock
	logger  zerolog.Logger
	metrics *metrics.Collector

	mu sync.Mutex
}

// NewLedgerService creates a ledger service. metrics may be nil.
func NewLedgerService(store ports.LedgerStore, clk ports.Clock, logger zerolog.Logger, m *metrics.Collector) *LedgerService {
	return &LedgerService{
		store:   store,
		clock:   clk,
		logger:  logger,
		metrics: m,
	}
}

// Load returns the current ledger for n tracked channels, applying the
// calendar-day reset and resizing after channel-list changes. Every failure
// path degrades to a usable in-memory ledger; persistence errors are logged
// and masked, never raised to the request.
func (s *LedgerService) Load(ctx context.Context, n int) LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, n)
}

// Increment adds cost to channel i's counter and persists the result. The
// load step applies the same reset-if-stale rule as Load, so an increment
// that crosses UTC midnight lands on a fresh ledger.
func (s *LedgerService) Increment(ctx context.Context, i int, cost int64, n int) LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.loadLocked(ctx, n)
	res.Ledger = res.Ledger.WithIncrement(i, cost, s.clock.Now())
	s.persist(ctx, res.Ledger)
	return res
}

func (s *LedgerService) loadLocked(ctx context.Context, n int) LoadResult {
	now := s.clock.Now()

	l, err := s.store.Read(ctx)
	switch {
	case err == nil:
		if l.StaleAt(now) {
			fresh := quota.NewLedger(n, now)
			s.persist(ctx, fresh)
			if s.metrics != nil {
				s.metrics.LedgerResets.Inc()
			}
			s.logger.Info().
				Str("stale_date", l.Date).
				Str("new_date", fresh.Date).
				Msg("ledger rolled over to new calendar day")
			return LoadResult{Ledger: fresh}
		}
		if len(l.Usage) != n {
			l = l.Resized(n)
			s.persist(ctx, l)
		}
		return LoadResult{Ledger: l}

	case errors.Is(err, fs.ErrNotExist):
		// First run: synthesize and persist a fresh record.
		fresh := quota.NewLedger(n, now)
		s.persist(ctx, fresh)
		s.logger.Info().Str("date", fresh.Date).Msg("created fresh ledger")
		return LoadResult{Ledger: fresh}

	default:
		// Unreadable or corrupt store: degrade to an in-memory zeroed
		// ledger and keep serving.
		fresh := quota.NewLedger(n, now)
		s.persist(ctx, fresh)
		if s.metrics != nil {
			s.metrics.LedgerRecoveries.Inc()
		}
		s.logger.Warn().Err(err).Msg("ledger unreadable, recovered with fresh record")
		return LoadResult{Ledger: fresh, Recovered: true, Cause: err}
	}
}

// persist writes the ledger, logging and masking failures.
func (s *LedgerService) persist(ctx context.Context, l quota.Ledger) {
	if err := s.store.Write(ctx, l); err != nil {
		if s.metrics != nil {
			s.metrics.LedgerWriteFails.Inc()
		}
		s.logger.Error().Err(err).Msg("ledger write failed, keeping in-memory state")
	}
}
