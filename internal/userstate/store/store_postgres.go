package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
	"ethos/pkg/platform/sentinel"
)

// PostgresStore keeps one row per account: the document as JSONB plus
// denormalized columns (score, display_name, avatar, updated_at) so the
// leaderboard query stays an indexed ORDER BY instead of a JSONB scan.
//
// Schema:
//
//	CREATE TABLE user_states (
//	    uid          UUID PRIMARY KEY,
//	    display_name TEXT NOT NULL DEFAULT '',
//	    avatar       TEXT NOT NULL DEFAULT '',
//	    score        INT  NOT NULL DEFAULT 0,
//	    doc          JSONB NOT NULL DEFAULT '{}'::jsonb,
//	    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE INDEX user_states_score_idx ON user_states (score DESC, updated_at DESC);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed remote store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, uid id.UserID) (*Snapshot, error) {
	query := `
		SELECT doc, display_name, avatar, updated_at
		FROM user_states
		WHERE uid = $1
	`
	var (
		raw         []byte
		displayName string
		avatar      string
		updatedAt   time.Time
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(uid)).
		Scan(&raw, &displayName, &avatar, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user state: %w", err)
	}

	state, err := userstate.DecodeSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("load user state: %w", err)
	}
	return &Snapshot{
		State:       state,
		DisplayName: displayName,
		Avatar:      avatar,
		UpdatedAt:   updatedAt,
	}, nil
}

// MergeWrite upserts the document. The JSONB concatenation merges at field
// granularity: keys present in doc replace, keys absent survive. updated_at
// is stamped by the database, never by the caller.
func (s *PostgresStore) MergeWrite(ctx context.Context, uid id.UserID, doc userstate.RemoteDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal remote document: %w", err)
	}

	query := `
		INSERT INTO user_states (uid, display_name, avatar, score, doc, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (uid) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar       = EXCLUDED.avatar,
			score        = EXCLUDED.score,
			doc          = user_states.doc || EXCLUDED.doc,
			updated_at   = now()
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(uid), doc.DisplayName, doc.Avatar, doc.Score, payload,
	)
	if err != nil {
		return fmt.Errorf("merge write user state: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, uid id.UserID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_states WHERE uid = $1`, uuid.UUID(uid))
	if err != nil {
		return fmt.Errorf("delete user state: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) LeaderboardTop(ctx context.Context, n int) ([]LeaderboardRow, error) {
	query := `
		SELECT uid, display_name, avatar, score,
		       COALESCE((doc->>'level')::int, 1),
		       COALESCE(doc->>'tier', 'Bronze'),
		       updated_at
		FROM user_states
		ORDER BY score DESC, updated_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var (
			row LeaderboardRow
			uid uuid.UUID
		)
		if err := rows.Scan(&uid, &row.DisplayName, &row.Avatar, &row.Score,
			&row.Level, &row.Tier, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		row.UID = id.UserID(uid)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard rows: %w", err)
	}
	return out, nil
}
