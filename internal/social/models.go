// Package social provides the community surface: the activity feed fed
// through the event broker and the score-ordered leaderboard, both pushed to
// connected clients over websockets.
package social

import (
	"time"

	id "ethos/pkg/domain"
)

// FeedEvent is one entry of the community activity feed. Events are
// published to the broker by the session controller and materialized into
// the feed table by the consumer worker.
type FeedEvent struct {
	ID          id.EventID       `json:"id"`
	Type        id.FeedEventType `json:"type"`
	UID         id.UserID        `json:"uid"`
	DisplayName string           `json:"displayName"`
	Avatar      string           `json:"avatar"`
	Message     string           `json:"message"`
	Score       int              `json:"score,omitempty"`
	Level       int              `json:"level,omitempty"`
	Tier        id.Tier          `json:"tier,omitempty"`
	Streak      int              `json:"streak,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}
