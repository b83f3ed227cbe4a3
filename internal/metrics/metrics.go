// Package metrics holds the Prometheus registry for the analytics service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
)

// Registry holds all Prometheus metrics for the service.
type Registry struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge
	RateLimited     prometheus.Counter

	// Calculation metrics
	CalculationsTotal  *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	BatchSize          prometheus.Histogram

	// Cache metrics
	CacheHitRatio prometheus.Gauge
	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
}

// CalculationMode labels the CalculationsTotal counter.
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
	ModeDemo   = "demo"
)

// Calculation statuses for the CalculationsTotal counter.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
)

// NewRegistry creates a metrics registry and registers it with the default
// Prometheus registerer.
func NewRegistry() *Registry {
	r := &Registry{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashflowstory_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"route", "method", "status"},
		),

		ActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cashflowstory_active_requests",
				Help: "Number of HTTP requests currently in flight",
			},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cashflowstory_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		CalculationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflowstory_calculations_total",
				Help: "Total number of analytics calculations by mode and status",
			},
			[]string{"mode", "status"},
		),

		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflowstory_validation_failures_total",
				Help: "Total number of field validation failures by field name",
			},
			[]string{"field"},
		),

		BatchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cashflowstory_batch_size",
				Help:    "Number of periods per batch calculation request",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
			},
		),

		CacheHitRatio: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cashflowstory_cache_hit_ratio",
				Help: "Current cache hit ratio (0.0 to 1.0)",
			},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflowstory_cache_hits_total",
				Help: "Total number of cache hits by cache type",
			},
			[]string{"cache_type"},
		),

		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflowstory_cache_misses_total",
				Help: "Total number of cache misses by cache type",
			},
			[]string{"cache_type"},
		),
	}

	prometheus.MustRegister(
		r.RequestDuration,
		r.ActiveRequests,
		r.RateLimited,
		r.CalculationsTotal,
		r.ValidationFailures,
		r.BatchSize,
		r.CacheHitRatio,
		r.CacheHits,
		r.CacheMisses,
	)

	return r
}

// RecordCalculation records one calculation outcome.
func (r *Registry) RecordCalculation(mode, status string) {
	r.CalculationsTotal.WithLabelValues(mode, status).Inc()
}

// RecordValidationFailures records every failing field of a rejected record.
func (r *Registry) RecordValidationFailures(fields []string) {
	for _, field := range fields {
		r.ValidationFailures.WithLabelValues(field).Inc()
	}
}

// RecordRequest records a completed HTTP request.
func (r *Registry) RecordRequest(route, method, status string, duration time.Duration) {
	r.RequestDuration.WithLabelValues(route, method, status).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit for the specified cache type.
func (r *Registry) RecordCacheHit(cacheType string) {
	r.CacheHits.WithLabelValues(cacheType).Inc()
	r.updateCacheHitRatio()
}

// RecordCacheMiss records a cache miss for the specified cache type.
func (r *Registry) RecordCacheMiss(cacheType string) {
	r.CacheMisses.WithLabelValues(cacheType).Inc()
	r.updateCacheHitRatio()
}

// cacheTypes enumerates the cache-type label values the hit ratio sums over.
var cacheTypes = []string{"demo", "redis"}

// updateCacheHitRatio recomputes the hit-ratio gauge from the counter values.
func (r *Registry) updateCacheHitRatio() {
	hitMetric := &io_prometheus_client.Metric{}
	missMetric := &io_prometheus_client.Metric{}

	totalHits := 0.0
	totalMisses := 0.0

	for _, cacheType := range cacheTypes {
		if hitCounter, err := r.CacheHits.GetMetricWithLabelValues(cacheType); err == nil {
			if err := hitCounter.Write(hitMetric); err == nil {
				totalHits += hitMetric.GetCounter().GetValue()
			}
		}

		if missCounter, err := r.CacheMisses.GetMetricWithLabelValues(cacheType); err == nil {
			if err := missCounter.Write(missMetric); err == nil {
				totalMisses += missMetric.GetCounter().GetValue()
			}
		}
	}

	if total := totalHits + totalMisses; total > 0 {
		r.CacheHitRatio.Set(totalHits / total)
	}
}

// Default is the process-wide metrics registry.
var Default *Registry

// Initialize creates the global registry. Call once at startup.
func Initialize() {
	Default = NewRegistry()
	log.Info().Msg("Prometheus metrics registry initialized")
}
