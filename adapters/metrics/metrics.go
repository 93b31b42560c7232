// Package metrics provides Prometheus metrics collection for the proxy.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the proxy.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Upstream metrics
	UpstreamDuration *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec

	// Ledger metrics
	QuotaUsed        *prometheus.GaugeVec
	LedgerResets     prometheus.Counter
	LedgerRecoveries prometheus.Counter
	LedgerWriteFails prometheus.Counter

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a collector registered with reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction never collides.
func NewWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ytproxy",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ytproxy",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ytproxy",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),

		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ytproxy",
				Name:      "upstream_duration_seconds",
				Help:      "Data API request duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"channel", "status"},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ytproxy",
				Name:      "upstream_errors_total",
				Help:      "Total number of Data API fetch failures",
			},
			[]string{"channel"},
		),

		QuotaUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ytproxy",
				Name:      "quota_used_units",
				Help:      "Metered units consumed today per channel",
			},
			[]string{"channel"},
		),
		LedgerResets: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ytproxy",
				Name:      "ledger_resets_total",
				Help:      "Total number of calendar-day ledger resets",
			},
		),
		LedgerRecoveries: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ytproxy",
				Name:      "ledger_recoveries_total",
				Help:      "Total number of ledger loads that fell back to a fresh in-memory record",
			},
		),
		LedgerWriteFails: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ytproxy",
				Name:      "ledger_write_failures_total",
				Help:      "Total number of masked ledger persistence failures",
			},
		),

		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ytproxy",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ytproxy",
				Name:      "config_reload_errors_total",
				Help:      "Total number of failed config reloads",
			},
		),
	}
}
