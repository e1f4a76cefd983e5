package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the engine collectors.
type Metrics struct {
	registry *prometheus.Registry

	publishes       *prometheus.CounterVec
	publishDuration prometheus.Histogram
	issues          *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	resolves        *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on a fresh registry,
// together with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_publish_total",
				Help: "Publish attempts by outcome",
			},
			[]string{"outcome"},
		),
		publishDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "intake_publish_duration_seconds",
				Help:    "Duration of publish operations, validation included",
				Buckets: prometheus.DefBuckets,
			},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_validation_issues_total",
				Help: "Flow validation findings by code and severity",
			},
			[]string{"code", "severity"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_submissions_total",
				Help: "Submissions by outcome",
			},
			[]string{"outcome"},
		),
		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_route_resolutions_total",
				Help: "Routing resolutions by result (next or terminal)",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.publishes,
		m.publishDuration,
		m.issues,
		m.submissions,
		m.resolves,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePublish records a publish attempt.
func (m *Metrics) ObservePublish(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(outcome).Inc()
	m.publishDuration.Observe(took.Seconds())
}

// ObserveIssue records one validation finding.
func (m *Metrics) ObserveIssue(code, severity string) {
	if m == nil {
		return
	}
	m.issues.WithLabelValues(code, severity).Inc()
}

// ObserveSubmission records a submission attempt.
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObserveResolve records a routing resolution.
func (m *Metrics) ObserveResolve(terminal bool) {
	if m == nil {
		return
	}
	result := "next"
	if terminal {
		result = "terminal"
	}
	m.resolves.WithLabelValues(result).Inc()
}

// Registry exposes the registry, e.g. for tests or to add collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
