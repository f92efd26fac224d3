package social

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"ethos/internal/social/metrics"
)

// KafkaPublisher hands feed events to the broker. Produce is asynchronous;
// delivery failures are logged and counted, never propagated, because the
// feed is a side channel of the mutation that produced the event.
type KafkaPublisher struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewKafkaPublisher wraps a producer client for the given topic.
func NewKafkaPublisher(client *kgo.Client, topic string, logger *slog.Logger, m *metrics.Metrics) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic, logger: logger, metrics: m}
}

// Publish serializes the event and produces it keyed by account, so one
// account's events stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event FeedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.UID.String()),
		Value: data,
	}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.metrics.PublishFailures.Inc()
			p.logger.Warn("feed event delivery failed",
				"uid", event.UID,
				"type", event.Type,
				"error", err)
			return
		}
		p.metrics.EventsPublished.Inc()
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("feed producer flush failed", "error", err)
	}
	p.client.Close()
}
