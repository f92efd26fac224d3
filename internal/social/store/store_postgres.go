package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ethos/internal/social"
	id "ethos/pkg/domain"
)

// PostgresFeed materializes feed events into one append-only table.
//
// Schema:
//
//	CREATE TABLE feed_events (
//	    id           UUID PRIMARY KEY,
//	    uid          UUID NOT NULL,
//	    event_type   TEXT NOT NULL,
//	    display_name TEXT NOT NULL DEFAULT '',
//	    avatar       TEXT NOT NULL DEFAULT '',
//	    message      TEXT NOT NULL DEFAULT '',
//	    score        INT  NOT NULL DEFAULT 0,
//	    level        INT  NOT NULL DEFAULT 1,
//	    tier         TEXT NOT NULL DEFAULT 'Bronze',
//	    streak       INT  NOT NULL DEFAULT 0,
//	    occurred_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX feed_events_occurred_idx ON feed_events (occurred_at DESC);
type PostgresFeed struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed feed store.
func NewPostgres(db *sql.DB) *PostgresFeed {
	return &PostgresFeed{db: db}
}

// Append inserts one event. The event id is the idempotency key; a
// redelivered event is silently dropped.
func (s *PostgresFeed) Append(ctx context.Context, event social.FeedEvent) error {
	query := `
		INSERT INTO feed_events
			(id, uid, event_type, display_name, avatar, message, score, level, tier, streak, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(event.ID), uuid.UUID(event.UID), string(event.Type),
		event.DisplayName, event.Avatar, event.Message,
		event.Score, event.Level, string(event.Tier), event.Streak,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append feed event: %w", err)
	}
	return nil
}

func (s *PostgresFeed) Recent(ctx context.Context, n int) ([]social.FeedEvent, error) {
	query := `
		SELECT id, uid, event_type, display_name, avatar, message, score, level, tier, streak, occurred_at
		FROM feed_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("recent feed events: %w", err)
	}
	defer rows.Close()

	var out []social.FeedEvent
	for rows.Next() {
		var (
			event      social.FeedEvent
			eventID    uuid.UUID
			userID     uuid.UUID
			eventType  string
			tier       string
			occurredAt time.Time
		)
		if err := rows.Scan(&eventID, &userID, &eventType,
			&event.DisplayName, &event.Avatar, &event.Message,
			&event.Score, &event.Level, &tier, &event.Streak, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan feed event: %w", err)
		}
		event.ID = id.EventID(eventID)
		event.UID = id.UserID(userID)
		event.Type = id.FeedEventType(eventType)
		event.Tier = id.Tier(tier)
		event.OccurredAt = occurredAt
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feed event rows: %w", err)
	}
	return out, nil
}
