// Package telemetry exports triage counters in Prometheus format.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "civicpulse"

// Metrics holds the complaint pipeline counters. It satisfies
// usecases.MetricsRecorder.
type Metrics struct {
	registry *prometheus.Registry

	CreatedTotal        *prometheus.CounterVec
	MergedTotal         *prometheus.CounterVec
	EscalatedTotal      prometheus.Counter
	ClassifiedTotal     *prometheus.CounterVec
	EnrichmentFailures  *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector on a private registry together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.CreatedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_created_total",
		Help:      "Total complaints filed, by ward",
	}, []string{"ward"})

	m.MergedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_merged_total",
		Help:      "Total complaints merged into a canonical complaint",
	}, []string{"mode"})

	m.EscalatedTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_escalated_total",
		Help:      "Total complaints escalated after breaching their SLA",
	})

	m.ClassifiedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_classified_total",
		Help:      "Total complaints categorized by the keyword classifier",
	}, []string{"category"})

	m.EnrichmentFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_failures_total",
		Help:      "Background enrichment jobs that gave up",
	}, []string{"stage"})

	m.HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	m.HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	return m
}

func (m *Metrics) ComplaintCreated(ward string) {
	m.CreatedTotal.WithLabelValues(ward).Inc()
}

func (m *Metrics) ComplaintsMerged(mode string) {
	m.MergedTotal.WithLabelValues(mode).Inc()
}

func (m *Metrics) ComplaintsEscalated(count int) {
	if count > 0 {
		m.EscalatedTotal.Add(float64(count))
	}
}

func (m *Metrics) ComplaintClassified(category string) {
	m.ClassifiedTotal.WithLabelValues(category).Inc()
}

func (m *Metrics) EnrichmentFailed(stage string) {
	m.EnrichmentFailures.WithLabelValues(stage).Inc()
}

// ObserveHTTPRequest records one served request. route is the gin route
// template, not the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
