package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/adapters/metrics"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/channel"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/stats"
	"github.com/PRATIKUGALE02/youtube-proxy/ports"
	"github.com/rs/zerolog"
)

// StatsDeps contains dependencies for StatsService.
type StatsDeps struct {
	Source   ports.StatsSource
	Ledger   *LedgerService
	FetchLog ports.FetchLogStore // optional
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   zerolog.Logger
	Metrics  *metrics.Collector // optional
}

// StatsConfig contains the hot-reloadable aggregation policy.
type StatsConfig struct {
	DailyLimit int64
	Thresholds quota.Thresholds
	FetchDelay time.Duration
}

// StatsService orchestrates the two read paths: the metered aggregation
// over all tracked channels and the quota report derived from the ledger.
type StatsService struct {
	source   ports.StatsSource
	ledger   *LedgerService
	fetchLog ports.FetchLogStore
	clock    ports.Clock
	idGen    ports.IDGenerator
	logger   zerolog.Logger
	metrics  *metrics.Collector

	// channels returns the current tracked list; the config holder swaps
	// it on credential reloads.
	channels func() []channel.Channel

	cfg atomic.Pointer[StatsConfig]
}

// NewStatsService creates a stats service.
func NewStatsService(deps StatsDeps, channels func() []channel.Channel, cfg StatsConfig) *StatsService {
	s := &StatsService{
		source:   deps.Source,
		ledger:   deps.Ledger,
		fetchLog: deps.FetchLog,
		clock:    deps.Clock,
		idGen:    deps.IDGen,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		channels: channels,
	}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig swaps the aggregation policy. Thread-safe, called from the
// config holder's change callback.
func (s *StatsService) UpdateConfig(cfg StatsConfig) {
	if cfg.DailyLimit <= 0 {
		cfg.DailyLimit = 10000
	}
	if cfg.Thresholds == (quota.Thresholds{}) {
		cfg.Thresholds = quota.DefaultThresholds()
	}
	s.cfg.Store(&cfg)
}

func (s *StatsService) config() StatsConfig {
	return *s.cfg.Load()
}

// Channels fetches statistics for every valid tracked channel, in order,
// metering one ledger unit per successful fetch and pacing between
// channels. Any fetch failure aborts the whole aggregation; there are no
// partial results on the wire.
func (s *StatsService) Channels(ctx context.Context) ([]stats.ChannelStats, error) {
	cfg := s.config()
	pacer := NewPacer(cfg.FetchDelay)
	chs := s.channels()

	results := make([]stats.ChannelStats, 0, len(chs))
	fetched := false
	for i, ch := range chs {
		if !ch.Valid() {
			s.logger.Debug().Str("channel", ch.DisplayName()).Msg("skipping channel without id or api key")
			continue
		}

		if fetched {
			if err := pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("aggregation cancelled: %w", err)
			}
		}
		fetched = true

		start := time.Now()
		st, err := s.source.ChannelStats(ctx, ch)
		latency := time.Since(start)
		s.recordFetch(ctx, ch, err, latency)

		if err != nil {
			s.logger.Error().Err(err).Str("channel", ch.DisplayName()).Msg("upstream fetch failed")
			return nil, fmt.Errorf("fetch channel %s: %w", ch.DisplayName(), err)
		}

		results = append(results, st)

		res := s.ledger.Increment(ctx, i, 1, len(chs))
		if s.metrics != nil {
			s.metrics.QuotaUsed.WithLabelValues(ch.DisplayName()).Set(float64(res.Ledger.Used(i)))
		}
	}

	return results, nil
}

// QuotaStatusEntry is one channel's row in the quota report.
type QuotaStatusEntry struct {
	Name      string       `json:"name"`
	Used      int64        `json:"used"`
	Remaining int64        `json:"remaining"`
	Status    quota.Status `json:"status"`
}

// Report is the quota report response.
type Report struct {
	Date         string             `json:"date"`
	DailyLimit   int64              `json:"daily_limit"`
	LastUpdated  string             `json:"last_updated_time"`
	ResetInHours int                `json:"reset_in_hours"`
	Channels     []QuotaStatusEntry `json:"channels"`

	// Recovered reports a ledger-store fallback during this load. It stays
	// off the wire; the HTTP contract is fixed.
	Recovered bool `json:"-"`
}

// QuotaReport derives per-channel consumption and status from the ledger.
// Every configured channel appears, including ones missing credentials.
func (s *StatsService) QuotaReport(ctx context.Context) Report {
	cfg := s.config()
	chs := s.channels()

	res := s.ledger.Load(ctx, len(chs))

	entries := make([]QuotaStatusEntry, 0, len(chs))
	for i, ch := range chs {
		used := res.Ledger.Used(i)
		remaining := res.Ledger.Remaining(i, cfg.DailyLimit)
		entries = append(entries, QuotaStatusEntry{
			Name:      ch.DisplayName(),
			Used:      used,
			Remaining: remaining,
			Status:    quota.Classify(remaining, cfg.Thresholds),
		})
	}

	return Report{
		Date:         res.Ledger.Date,
		DailyLimit:   cfg.DailyLimit,
		LastUpdated:  res.Ledger.LastUpdated.UTC().Format(time.RFC3339),
		ResetInHours: quota.HoursUntilReset(s.clock.Now()),
		Channels:     entries,
		Recovered:    res.Recovered,
	}
}

// History returns the most recent upstream fetch events.
func (s *StatsService) History(ctx context.Context, limit int) ([]ports.FetchEvent, error) {
	if s.fetchLog == nil {
		return nil, nil
	}
	return s.fetchLog.Recent(ctx, limit)
}

// recordFetch logs one fetch attempt to the fetch log and metrics. Best
// effort: a failing log store must not affect the aggregation.
func (s *StatsService) recordFetch(ctx context.Context, ch channel.Channel, fetchErr error, latency time.Duration) {
	status := ports.FetchOK
	if fetchErr != nil {
		status = ports.FetchError
		if s.metrics != nil {
			s.metrics.UpstreamErrors.WithLabelValues(ch.DisplayName()).Inc()
		}
	}
	if s.metrics != nil {
		s.metrics.UpstreamDuration.WithLabelValues(ch.DisplayName(), status).Observe(latency.Seconds())
	}

	if s.fetchLog == nil {
		return
	}
	e := ports.FetchEvent{
		ID:        s.idGen.New(),
		Channel:   ch.DisplayName(),
		ChannelID: ch.ID,
		Status:    status,
		LatencyMs: latency.Milliseconds(),
		Timestamp: s.clock.Now().UTC(),
	}
	if err := s.fetchLog.Record(ctx, e); err != nil {
		s.logger.Warn().Err(err).Msg("fetch log write failed")
	}
}
