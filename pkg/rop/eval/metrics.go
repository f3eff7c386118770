package eval

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK        = "ok"
	resultFailed    = "failed"
	resultCancelled = "cancelled"
	resultFault     = "fault"
)

// Metrics records step and chain counters. A nil *Metrics records nothing.
type Metrics struct {
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	chains   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ropipe_steps_total",
				Help: "Steps evaluated by shape and result",
			},
			[]string{"shape", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ropipe_step_duration_seconds",
				Help:    "Duration of step evaluation, suspension included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"shape"},
		),
		chains: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ropipe_chains_total",
				Help: "Evaluations by final state",
			},
			[]string{"state"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.steps, m.duration, m.chains)
	}
	return m
}

func (m *Metrics) step(shape, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(shape, result).Inc()
	m.duration.WithLabelValues(shape).Observe(d.Seconds())
}

func (m *Metrics) chain(state string) {
	if m == nil {
		return
	}
	m.chains.WithLabelValues(state).Inc()
}
