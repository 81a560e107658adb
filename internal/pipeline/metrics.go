package pipeline

import (
	"time"

	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts terminal states and times submissions.
type Metrics struct {
	outcomes      *prometheus.CounterVec
	submitLatency prometheus.Histogram
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "spicewatch",
				Name:      "notifications_total",
				Help:      "Notifications processed, by terminal state",
			},
			[]string{"state"},
		),
		submitLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "spicewatch",
				Name:      "submission_duration_seconds",
				Help:      "Time spent posting transactions to the scoring service",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	// Pre-create every state so dashboards see zeros.
	for _, state := range model.TerminalStates {
		m.outcomes.WithLabelValues(string(state))
	}

	if reg != nil {
		reg.MustRegister(m.outcomes, m.submitLatency)
	}
	return m
}

// Outcomes exposes the per-state counter.
func (m *Metrics) Outcomes() *prometheus.CounterVec {
	return m.outcomes
}

func (m *Metrics) observeState(state model.State) {
	if state.IsTerminal() {
		m.outcomes.WithLabelValues(string(state)).Inc()
	}
}

func (m *Metrics) observeSubmission(d time.Duration) {
	m.submitLatency.Observe(d.Seconds())
}
