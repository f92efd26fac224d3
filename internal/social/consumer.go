package social

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"ethos/internal/social/metrics"
)

// FeedAppender is the slice of the feed store the pipeline writes to.
type FeedAppender interface {
	Append(ctx context.Context, event FeedEvent) error
}

// Consumer materializes broker records into the feed store. Offsets commit
// only after a batch is fully applied; Append is idempotent on event id, so
// redelivery after a crash is harmless.
type Consumer struct {
	client  *kgo.Client
	feed    FeedAppender
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewConsumer wraps a consumer-group client over the feed store.
func NewConsumer(client *kgo.Client, feed FeedAppender, logger *slog.Logger, m *metrics.Metrics) *Consumer {
	return &Consumer{client: client, feed: feed, logger: logger, metrics: m}
}

// Run polls until the context is canceled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "feed fetch error",
				"topic", topic,
				"partition", partition,
				"error", err)
		})

		fetches.EachRecord(func(record *kgo.Record) {
			c.apply(ctx, record)
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.logger.WarnContext(ctx, "offset commit failed", "error", err)
		}
	}
}

func (c *Consumer) apply(ctx context.Context, record *kgo.Record) {
	var event FeedEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		// Poison record. Log and skip; replaying it cannot succeed.
		c.metrics.ConsumeFailures.Inc()
		c.logger.WarnContext(ctx, "discarding undecodable feed record",
			"offset", record.Offset,
			"error", err)
		return
	}
	if err := c.feed.Append(ctx, event); err != nil {
		c.metrics.ConsumeFailures.Inc()
		c.logger.ErrorContext(ctx, "feed append failed",
			"event_id", event.ID,
			"error", err)
		return
	}
	c.metrics.EventsConsumed.Inc()
}

// DirectPublisher appends events straight to the feed store, bypassing the
// broker. Used when no brokers are configured.
type DirectPublisher struct {
	feed    FeedAppender
	metrics *metrics.Metrics
}

// NewDirectPublisher creates a broker-less publisher.
func NewDirectPublisher(feed FeedAppender, m *metrics.Metrics) *DirectPublisher {
	return &DirectPublisher{feed: feed, metrics: m}
}

func (p *DirectPublisher) Publish(ctx context.Context, event FeedEvent) error {
	if err := p.feed.Append(ctx, event); err != nil {
		p.metrics.PublishFailures.Inc()
		return err
	}
	p.metrics.EventsPublished.Inc()
	return nil
}
