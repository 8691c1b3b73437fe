package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/careerplan/internal/llm"
)

// Cascade outcomes recorded per downstream milestone.
const (
	OutcomeRegenerated = "regenerated"
	OutcomeDegraded    = "degraded"
)

// Metrics owns the service's collectors on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	LLMCalls            *prometheus.CounterVec
	LLMCallLatency      *prometheus.HistogramVec
	CascadeMilestones   *prometheus.CounterVec
	PlanCommits         *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry. When withRuntime is set
// the Go and process collectors are added too.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		LLMCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerplan_llm_calls_total",
				Help: "Total number of generation calls",
			},
			[]string{"task", "status"},
		),
		LLMCallLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "careerplan_llm_call_latency_ms",
				Help:    "Generation call latency in milliseconds",
				Buckets: prometheus.ExponentialBuckets(100, 2, 12), // 100ms to ~200s
			},
			[]string{"task", "status"},
		),
		CascadeMilestones: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerplan_cascade_milestones_total",
				Help: "Downstream milestones touched by a cascade, by outcome",
			},
			[]string{"timeframe", "outcome"},
		),
		PlanCommits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerplan_plan_commits_total",
				Help: "Plan versions committed, by operation",
			},
			[]string{"operation"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "careerplan_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~30s
			},
			[]string{"method", "path", "status"},
		),
	}
	reg.MustRegister(m.LLMCalls, m.LLMCallLatency, m.CascadeMilestones, m.PlanCommits, m.HTTPRequestDuration)
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

// Registry exposes the underlying registry for scraping and tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// OnCallComplete makes Metrics an llm.Observer.
func (m *Metrics) OnCallComplete(event llm.LLMCallEvent) {
	status := "ok"
	if !event.Success {
		status = "err"
	}
	m.LLMCalls.WithLabelValues(string(event.Task), status).Inc()
	m.LLMCallLatency.WithLabelValues(string(event.Task), status).Observe(float64(event.LatencyMs))
}

// RecordCascade counts one downstream milestone outcome.
func (m *Metrics) RecordCascade(timeframe, outcome string) {
	m.CascadeMilestones.WithLabelValues(timeframe, outcome).Inc()
}

// RecordCommit counts a committed plan version.
func (m *Metrics) RecordCommit(operation string) {
	m.PlanCommits.WithLabelValues(operation).Inc()
}

// RecordHTTPRequestDuration observes one served request.
func (m *Metrics) RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

var _ llm.Observer = (*Metrics)(nil)
