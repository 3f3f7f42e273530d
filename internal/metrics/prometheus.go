package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the data service

var (
	// Source resolution metrics
	SourceAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbb_source_attempts_total",
			Help: "Total number of upstream source attempts",
		},
		[]string{"source", "capability"},
	)

	SourceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbb_source_failures_total",
			Help: "Total number of failed upstream source attempts",
		},
		[]string{"source", "capability"},
	)

	SourceLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cbb_source_latency_seconds",
			Help:    "Latency of upstream source calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "capability"},
	)

	ResolverExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbb_resolver_exhausted_total",
			Help: "Total number of requests where every source failed",
		},
		[]string{"capability"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbb_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"namespace"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbb_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"namespace"},
	)

	CacheSweepRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cbb_cache_sweep_removed_total",
			Help: "Total number of expired entries removed by cache sweeps",
		},
	)

	// Tool call metrics
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbb_tool_calls_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)

	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cbb_tool_call_duration_seconds",
			Help:    "Duration of tool invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	ToolCallsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cbb_tool_calls_in_flight",
			Help: "Number of tool invocations currently executing",
		},
	)

	// Archive metrics
	ArchiveWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbb_archive_writes_total",
			Help: "Total number of archive upserts",
		},
		[]string{"table", "status"},
	)

	ArchiveWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cbb_archive_write_duration_seconds",
			Help:    "Duration of archive upserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)

	GamesArchived = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cbb_games_archived_total",
			Help: "Total number of games in the archive database",
		},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cbb_db_connections_active",
			Help: "Number of active database connections",
		},
	)
)
