package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the persistence gateway.
// Tracks cache and remote write outcomes plus remote write latency.
type Metrics struct {
	CacheWrites         prometheus.Counter
	CacheWriteFailures  prometheus.Counter
	RemoteWrites        prometheus.Counter
	RemoteWriteFailures prometheus.Counter
	RemoteWriteDuration prometheus.Histogram
}

// New creates a new Metrics instance with all persistence metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_persist_cache_writes_total",
			Help: "Total number of successful local cache writes",
		}),
		CacheWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_persist_cache_write_failures_total",
			Help: "Total number of failed local cache writes",
		}),
		RemoteWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_persist_remote_writes_total",
			Help: "Total number of successful remote merge writes",
		}),
		RemoteWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_persist_remote_write_failures_total",
			Help: "Total number of failed or timed-out remote merge writes",
		}),
		RemoteWriteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ethos_persist_remote_write_duration_seconds",
			Help:    "Duration of remote merge write operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveRemoteWrite records the duration of a remote merge write.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRemoteWrite(start time.Time) {
	m.RemoteWriteDuration.Observe(time.Since(start).Seconds())
}
