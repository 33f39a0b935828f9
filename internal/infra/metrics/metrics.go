package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_classifications_total",
			Help: "Catalog classifications by viewer kind",
		},
		[]string{"viewer"},
	)

	Anomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_anomalies_total",
			Help: "Content items excluded or locked because of inconsistent data",
		},
		[]string{"reason"},
	)

	TierChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_tier_changes_total",
			Help: "Reconciled membership tier changes by reason",
		},
		[]string{"reason"},
	)

	StaleResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "membership_stale_results_total",
			Help: "Tier changes written but not re-verified against a fresh catalog",
		},
	)

	SupersededRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_superseded_recomputes_total",
			Help: "Recompute results dropped because a newer recompute was already running",
		},
	)

	StreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_stream_subscribers",
			Help: "Open recompute event streams",
		},
	)

	InFlightRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "membership_inflight_rejections_total",
			Help: "Writes rejected because another write for the same entity was running",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_retry_attempts_total",
			Help: "Retried store reads by operation",
		},
		[]string{"op"},
	)

	RecomputeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recompute_events_total",
			Help: "Recompute requests published on the notification bus",
		},
		[]string{"scope"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
