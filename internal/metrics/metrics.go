// Package metrics holds the process-wide Prometheus collectors so any
// internal package can record against them without importing the handler
// layer (which itself imports governor, cache, ingestion, and search —
// collectors that live in handler would be unreachable from those packages
// without an import cycle).
package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the creator-discovery backend.
// Every field except the two DB-pool gauges is built and registered at
// package init, so governor/cache/ingestion/search can record against it
// from a plain unit test with no explicit wiring step.
var Metrics = struct {
	SearchRequestsTotal *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	DBPoolActive        prometheus.GaugeFunc
	DBPoolIdle          prometheus.GaugeFunc
	RequestsInFlight    prometheus.Gauge
	GovernorDecisions   *prometheus.CounterVec
	CacheHits           *prometheus.CounterVec
	CacheMisses         *prometheus.CounterVec
	IngestionOutcomes   *prometheus.CounterVec
	ScoringDuration     prometheus.Histogram
}{
	SearchRequestsTotal: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_search_requests_total",
			Help: "Total POST /search requests, by cache outcome.",
		},
		[]string{"from_cache"},
	),
	RequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	),
	RequestsInFlight: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hermes_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	),
	GovernorDecisions: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_governor_decisions_total",
			Help: "Budget/quota governor decisions, by governor and tier.",
		},
		[]string{"governor", "decision"},
	),
	CacheHits: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_cache_hits_total",
			Help: "Cache hits, by tier (query_digest, channel_metadata, session).",
		},
		[]string{"tier"},
	),
	CacheMisses: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_cache_misses_total",
			Help: "Cache misses, by tier (query_digest, channel_metadata, session).",
		},
		[]string{"tier"},
	),
	IngestionOutcomes: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_ingestion_outcomes_total",
			Help: "Background creator-profile ingestion outcomes, by result.",
		},
		[]string{"outcome"},
	),
	ScoringDuration: prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hermes_scoring_duration_seconds",
			Help:    "Duration of the score-and-rank pass over one search's results.",
			Buckets: prometheus.DefBuckets,
		},
	),
}

func init() {
	prometheus.MustRegister(
		Metrics.SearchRequestsTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.GovernorDecisions,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.IngestionOutcomes,
		Metrics.ScoringDuration,
	)
}

// Init wires the DB-pool gauges, which need a live pgxpool.Pool and so can't
// be built at package init. Call once at startup, after the pool connects.
func Init(pool *pgxpool.Pool) {
	if pool == nil {
		return
	}

	Metrics.DBPoolActive = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "hermes_db_connection_pool_active",
			Help: "Number of active database connections.",
		},
		func() float64 {
			return float64(pool.Stat().AcquiredConns())
		},
	)

	Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "hermes_db_connection_pool_idle",
			Help: "Number of idle database connections.",
		},
		func() float64 {
			return float64(pool.Stat().IdleConns())
		},
	)

	prometheus.MustRegister(Metrics.DBPoolActive, Metrics.DBPoolIdle)
}
