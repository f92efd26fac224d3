// Package store persists account state documents in the remote document
// store. One document per account, keyed by uid; writes are field-level
// merges so concurrent writers never clobber fields outside their own
// allow-list.
package store

import (
	"context"
	"time"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
)

// Snapshot is one remote document: the decoded state plus the profile
// columns stored beside it for ordered queries.
type Snapshot struct {
	State       userstate.State
	DisplayName string
	Avatar      string
	UpdatedAt   time.Time
}

// LeaderboardRow is one entry of the score-ordered account query.
type LeaderboardRow struct {
	UID         id.UserID `json:"uid"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	Score       int       `json:"score"`
	Level       int       `json:"level"`
	Tier        id.Tier   `json:"tier"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Remote is the remote document store seam. Implementations return
// sentinel.ErrNotFound from Load when no document exists.
type Remote interface {
	// Load fetches and normalizes the account document.
	Load(ctx context.Context, uid id.UserID) (*Snapshot, error)

	// MergeWrite upserts the allow-listed document fields, merging at field
	// granularity and stamping a server-assigned update time. Fields absent
	// from doc are left untouched.
	MergeWrite(ctx context.Context, uid id.UserID, doc userstate.RemoteDocument) error

	// Delete removes the account document entirely.
	Delete(ctx context.Context, uid id.UserID) error

	// LeaderboardTop returns the top-n accounts ordered by score descending.
	LeaderboardTop(ctx context.Context, n int) ([]LeaderboardRow, error)
}
