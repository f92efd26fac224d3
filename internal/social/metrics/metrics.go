package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the community feed pipeline and the
// websocket push surface.
type Metrics struct {
	EventsPublished   prometheus.Counter
	PublishFailures   prometheus.Counter
	EventsConsumed    prometheus.Counter
	ConsumeFailures   prometheus.Counter
	ConnectedClients  prometheus.Gauge
	BroadcastsDropped prometheus.Counter
}

// New creates a new Metrics instance with all social metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_feed_events_published_total",
			Help: "Total number of feed events handed to the broker",
		}),
		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_feed_publish_failures_total",
			Help: "Total number of feed events the broker rejected",
		}),
		EventsConsumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_feed_events_consumed_total",
			Help: "Total number of feed events materialized into the store",
		}),
		ConsumeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_feed_consume_failures_total",
			Help: "Total number of feed events that failed to materialize",
		}),
		ConnectedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ethos_ws_connected_clients",
			Help: "Number of websocket clients currently connected",
		}),
		BroadcastsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ethos_ws_broadcasts_dropped_total",
			Help: "Total number of broadcast frames dropped on slow clients",
		}),
	}
}
