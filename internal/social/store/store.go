// Package store persists materialized feed events. The consumer worker
// appends; the social handlers read the most recent slice.
package store

import (
	"context"

	"ethos/internal/social"
)

// Feed is the feed event store seam.
type Feed interface {
	// Append stores one event. Appending an event id that already exists
	// is a no-op, so broker redeliveries stay idempotent.
	Append(ctx context.Context, event social.FeedEvent) error

	// Recent returns up to n events, newest first.
	Recent(ctx context.Context, n int) ([]social.FeedEvent, error)
}
