//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
	"ethos/pkg/platform/sentinel"
	"ethos/pkg/testutil/containers"
)

const userStatesDDL = `
	CREATE TABLE IF NOT EXISTS user_states (
	    uid          UUID PRIMARY KEY,
	    display_name TEXT NOT NULL DEFAULT '',
	    avatar       TEXT NOT NULL DEFAULT '',
	    score        INT  NOT NULL DEFAULT 0,
	    doc          JSONB NOT NULL DEFAULT '{}'::jsonb,
	    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

func newIntegrationStore(t *testing.T) *PostgresStore {
	t.Helper()
	pg := containers.NewPostgresContainer(t)
	pg.Exec(t, userStatesDDL,
		`CREATE INDEX IF NOT EXISTS user_states_score_idx ON user_states (score DESC, updated_at DESC)`)
	return NewPostgres(pg.DB)
}

func integrationState(t *testing.T, uid string, score int) userstate.State {
	t.Helper()
	parsed, err := id.ParseUserID(uid)
	require.NoError(t, err)
	state := userstate.NewDefault(userstate.AuthData{
		UID:   parsed,
		Email: "marcus@ethos.dev",
		Name:  "Marcus",
	}, time.Now().UTC())
	state.Score = score
	state.WaterIntake = 1500
	state.Identity = []string{"Discipline"}
	return state
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	state := integrationState(t, "6f1c2b6e-3c55-4f0e-9a6d-0d3f2c9b7a11", 72)
	uid := state.Auth.UID

	_, err := store.Load(ctx, uid)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, store.MergeWrite(ctx, uid, userstate.RemoteDocFrom(state)))

	snap, err := store.Load(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 72, snap.State.Score)
	assert.Equal(t, 1500, snap.State.WaterIntake)
	assert.Equal(t, []string{"Discipline"}, snap.State.Identity)
	assert.Equal(t, "Marcus", snap.DisplayName)
	assert.Nil(t, snap.State.Auth, "auth is never persisted remotely")
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestPostgresStoreMergePreservesForeignFields(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	state := integrationState(t, "6f1c2b6e-3c55-4f0e-9a6d-0d3f2c9b7a11", 72)
	uid := state.Auth.UID
	require.NoError(t, store.MergeWrite(ctx, uid, userstate.RemoteDocFrom(state)))

	// A writer that only knows about steps must not clobber the rest of the
	// document.
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO user_states (uid, doc)
		VALUES ($1, '{"steps": 4200}'::jsonb)
		ON CONFLICT (uid) DO UPDATE SET doc = user_states.doc || EXCLUDED.doc`,
		uid.String())
	require.NoError(t, err)

	snap, err := store.Load(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 4200, snap.State.Steps)
	assert.Equal(t, 1500, snap.State.WaterIntake, "untouched fields survive the merge")
}

func TestPostgresStoreDelete(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	state := integrationState(t, "6f1c2b6e-3c55-4f0e-9a6d-0d3f2c9b7a11", 72)
	uid := state.Auth.UID
	require.NoError(t, store.MergeWrite(ctx, uid, userstate.RemoteDocFrom(state)))

	require.NoError(t, store.Delete(ctx, uid))
	_, err := store.Load(ctx, uid)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, uid), sentinel.ErrNotFound)
}

func TestPostgresStoreLeaderboard(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	low := integrationState(t, "11111111-1111-1111-1111-111111111111", 40)
	high := integrationState(t, "22222222-2222-2222-2222-222222222222", 95)
	require.NoError(t, store.MergeWrite(ctx, low.Auth.UID, userstate.RemoteDocFrom(low)))
	require.NoError(t, store.MergeWrite(ctx, high.Auth.UID, userstate.RemoteDocFrom(high)))

	rows, err := store.LeaderboardTop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, high.Auth.UID, rows[0].UID)
	assert.Equal(t, 95, rows[0].Score)

	rows, err = store.LeaderboardTop(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
