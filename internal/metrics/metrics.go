// Package metrics holds the Prometheus collectors of the proposal service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names as constants for consistency.
const (
	MetricProposalRequests     = "proposals_requests_total"
	MetricProposalsReturned    = "proposals_returned"
	MetricProposalDuration     = "proposal_duration_seconds"
	MetricCatalogSkipped       = "catalog_records_skipped_total"
	MetricRateLimitBlocked     = "rate_limit_blocked_total"
	MetricRateLimitRedisErrors = "rate_limit_redis_errors_total"
	MetricHTTPRequestsTotal    = "http_requests_total"
	MetricHTTPRequestDuration  = "http_request_duration_seconds"
)

// Outcome labels of MetricProposalRequests.
const (
	OutcomeOK         = "ok"
	OutcomeForbidden  = "forbidden"
	OutcomeBadRequest = "bad_request"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// Metrics contains the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	proposalRequests     *prometheus.CounterVec
	proposalsReturned    prometheus.Histogram
	proposalDuration     prometheus.Histogram
	catalogSkipped       prometheus.Counter
	rateLimitBlocked     prometheus.Counter
	rateLimitRedisErrors prometheus.Counter
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors. They are not registered; call Register.
func NewMetrics() *Metrics {
	return &Metrics{
		proposalRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricProposalRequests,
				Help: "Total number of proposal requests by outcome",
			},
			[]string{"outcome"},
		),
		proposalsReturned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricProposalsReturned,
				Help:    "Number of recipes returned per successful proposal",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
		proposalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricProposalDuration,
				Help:    "Time spent loading data and ranking recipes",
				Buckets: prometheus.DefBuckets,
			},
		),
		catalogSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricCatalogSkipped,
				Help: "Catalog records skipped because they could not be vectorized",
			},
		),
		rateLimitBlocked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRateLimitBlocked,
				Help: "Requests rejected by the rate limiter",
			},
		),
		rateLimitRedisErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRateLimitRedisErrors,
				Help: "Redis errors during rate limiting (fail-open events)",
			},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"method", "path"},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.proposalRequests,
		m.proposalsReturned,
		m.proposalDuration,
		m.catalogSkipped,
		m.rateLimitBlocked,
		m.rateLimitRedisErrors,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding m plus the Go and process collectors.
func NewRegistry(m *Metrics) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ObserveProposal records one proposal request.
func (m *Metrics) ObserveProposal(outcome string, returned int, took time.Duration) {
	if m == nil {
		return
	}
	m.proposalRequests.WithLabelValues(outcome).Inc()
	m.proposalDuration.Observe(took.Seconds())
	if outcome == OutcomeOK {
		m.proposalsReturned.Observe(float64(returned))
	}
}

// AddCatalogSkipped counts catalog records dropped during vectorization.
func (m *Metrics) AddCatalogSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.catalogSkipped.Add(float64(n))
}

// IncRateLimitBlocked counts a rejected request.
func (m *Metrics) IncRateLimitBlocked() {
	if m == nil {
		return
	}
	m.rateLimitBlocked.Inc()
}

// IncRateLimitRedisErrors counts a fail-open event.
func (m *Metrics) IncRateLimitRedisErrors() {
	if m == nil {
		return
	}
	m.rateLimitRedisErrors.Inc()
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(took.Seconds())
}
