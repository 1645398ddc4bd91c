package ilp

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "bnb"
	decisionLabel    = "decision"
	statusLabel      = "status"
)

// Metrics holds the Prometheus collectors updated by the engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	nodes            *prometheus.CounterVec
	incumbentUpdates prometheus.Counter
	solves           *prometheus.CounterVec
	relaxSeconds     prometheus.Histogram
}

// NewMetrics creates the engine collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "nodes_total",
				Help:      "Number of evaluated search nodes, by decision",
			},
			[]string{decisionLabel},
		),
		incumbentUpdates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "incumbent_updates_total",
				Help:      "Number of times the incumbent was replaced",
			},
		),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "solves_total",
				Help:      "Number of finished searches, by final status",
			},
			[]string{statusLabel},
		),
		relaxSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "relaxation_duration_seconds",
				Help:      "Time spent solving a single node relaxation",
				Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
		),
	}
	reg.MustRegister(m.nodes, m.incumbentUpdates, m.solves, m.relaxSeconds)
	return m
}

func (m *Metrics) observeDecision(d Decision) {
	if m == nil {
		return
	}
	m.nodes.WithLabelValues(string(d)).Inc()
	if d == DecisionIntegralImproving {
		m.incumbentUpdates.Inc()
	}
}

func (m *Metrics) observeRelaxation(seconds float64) {
	if m == nil {
		return
	}
	m.relaxSeconds.Observe(seconds)
}

func (m *Metrics) observeSolve(s Status) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(s.String()).Inc()
}
