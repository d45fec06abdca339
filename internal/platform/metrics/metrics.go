// Package metrics exposes prometheus instrumentation for the control plane
// A single Metrics value is constructed at startup and injected where needed
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the counters and histograms the services report into
type Metrics struct {
	reg *prometheus.Registry

	AdmissionDecisions *prometheus.CounterVec
	BreakerTransitions *prometheus.CounterVec
	JobOutcomes        *prometheus.CounterVec
	JobDuration        prometheus.Histogram
	RecognitionWeight  prometheus.Histogram
	SweepRuns          *prometheus.CounterVec
}

// New builds a Metrics value with its own registry
// a dedicated registry keeps tests isolated from the global default
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		AdmissionDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_admission_decisions_total",
			Help: "Admission check outcomes by gate (idempotency, ratelimit, quota, abuse) and decision",
		}, []string{"gate", "decision"}),
		BreakerTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_circuit_transitions_total",
			Help: "Circuit breaker state transitions by dependency and target state",
		}, []string{"dependency", "to"}),
		JobOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_jobs_total",
			Help: "Job terminal and retry outcomes by job type and outcome",
		}, []string{"job_type", "outcome"}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kudos_job_duration_seconds",
			Help:    "Wall time of job handler execution",
			Buckets: prometheus.DefBuckets,
		}),
		RecognitionWeight: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kudos_recognition_weight",
			Help:    "Distribution of persisted recognition weights",
			Buckets: []float64{0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 1.75, 2.0},
		}),
		SweepRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_sweep_runs_total",
			Help: "Janitor sweep runs by sweep name and status",
		}, []string{"sweep", "status"}),
	}
}

// Admission records an admission gate decision ("allowed", "denied", "degraded")
func (m *Metrics) Admission(gate, decision string) {
	if m == nil {
		return
	}
	m.AdmissionDecisions.WithLabelValues(gate, decision).Inc()
}

// Breaker records a circuit transition
func (m *Metrics) Breaker(dependency, to string) {
	if m == nil {
		return
	}
	m.BreakerTransitions.WithLabelValues(dependency, to).Inc()
}

// Job records a job outcome ("completed", "retrying", "dead_letter")
func (m *Metrics) Job(jobType, outcome string) {
	if m == nil {
		return
	}
	m.JobOutcomes.WithLabelValues(jobType, outcome).Inc()
}

// Sweep records a janitor sweep run ("ok", "error")
func (m *Metrics) Sweep(name, status string) {
	if m == nil {
		return
	}
	m.SweepRuns.WithLabelValues(name, status).Inc()
}

// Handler returns the scrape endpoint for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
