//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethos/internal/social"
	id "ethos/pkg/domain"
	"ethos/pkg/testutil/containers"
)

const feedEventsDDL = `
	CREATE TABLE IF NOT EXISTS feed_events (
	    id           UUID PRIMARY KEY,
	    uid          UUID NOT NULL,
	    event_type   TEXT NOT NULL,
	    display_name TEXT NOT NULL DEFAULT '',
	    avatar       TEXT NOT NULL DEFAULT '',
	    message      TEXT NOT NULL DEFAULT '',
	    score        INT  NOT NULL DEFAULT 0,
	    level        INT  NOT NULL DEFAULT 1,
	    tier         TEXT NOT NULL DEFAULT 'Bronze',
	    streak       INT  NOT NULL DEFAULT 0,
	    occurred_at  TIMESTAMPTZ NOT NULL
	)`

func newIntegrationFeed(t *testing.T) *PostgresFeed {
	t.Helper()
	pg := containers.NewPostgresContainer(t)
	pg.Exec(t, feedEventsDDL,
		`CREATE INDEX IF NOT EXISTS feed_events_occurred_idx ON feed_events (occurred_at DESC)`)
	return NewPostgres(pg.DB)
}

func feedEventAt(offset time.Duration, message string) social.FeedEvent {
	return social.FeedEvent{
		ID:          id.NewEventID(),
		Type:        id.FeedStreak,
		UID:         id.UserID(uuid.New()),
		DisplayName: "Marcus",
		Avatar:      "🔥",
		Message:     message,
		Score:       86,
		Level:       2,
		Tier:        id.TierBronze,
		Streak:      3,
		OccurredAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC).Add(offset),
	}
}

func TestPostgresFeedRecentOrdering(t *testing.T) {
	feed := newIntegrationFeed(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		event := feedEventAt(time.Duration(i)*time.Minute, fmt.Sprintf("event %d", i))
		require.NoError(t, feed.Append(ctx, event))
	}

	events, err := feed.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "event 2", events[0].Message, "newest first")
	assert.Equal(t, "event 0", events[2].Message)

	events, err = feed.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestPostgresFeedAppendIdempotent(t *testing.T) {
	feed := newIntegrationFeed(t)
	ctx := context.Background()

	event := feedEventAt(0, "sealed the daily promise")
	require.NoError(t, feed.Append(ctx, event))

	// Redelivery from the broker carries the same event id.
	redelivered := event
	redelivered.Message = "mutated on redelivery"
	require.NoError(t, feed.Append(ctx, redelivered))

	events, err := feed.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "sealed the daily promise", events[0].Message)
	assert.Equal(t, event.UID, events[0].UID)
	assert.Equal(t, id.FeedStreak, events[0].Type)
	assert.Equal(t, id.TierBronze, events[0].Tier)
}
