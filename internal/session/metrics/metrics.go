package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session controller.
type Metrics struct {
	SignIns          prometheus.Counter
	SignOuts         prometheus.Counter
	Mutations        prometheus.Counter
	MutationFailures prometheus.Counter
	PromisesSealed   prometheus.Counter
	ApplyDuration    prometheus.Histogram
	ActiveSessions   prometheus.Gauge
}

// New creates a new Metrics instance with all session metrics registered.
func New() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_session_sign_ins_total",
			Help: "Total number of successful sign-ins",
		}),
		SignOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_session_sign_outs_total",
			Help: "Total number of sign-outs",
		}),
		Mutations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_session_mutations_total",
			Help: "Total number of accepted state mutations",
		}),
		MutationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_session_mutation_failures_total",
			Help: "Total number of rejected state mutations",
		}),
		PromisesSealed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_session_promises_sealed_total",
			Help: "Total number of daily promises sealed",
		}),
		ApplyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ethos_session_apply_duration_seconds",
			Help:    "Duration of state mutation apply cycles",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ethos_session_active",
			Help: "Number of currently signed-in sessions",
		}),
	}
}

// ObserveApply records the duration of one apply cycle.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveApply(start time.Time) {
	m.ApplyDuration.Observe(time.Since(start).Seconds())
}
