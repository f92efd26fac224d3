package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethos/internal/userstate"
	"ethos/internal/userstate/store"
	id "ethos/pkg/domain"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testIdentity(t *testing.T) Identity {
	t.Helper()
	uid, err := id.ParseUserID("6f1c2b6e-3c55-4f0e-9a6d-0d3f2c9b7a11")
	require.NoError(t, err)
	return Identity{UID: uid, Email: "marcus@ethos.dev", DisplayName: "Marcus"}
}

func nonTrivialState() userstate.State {
	s := userstate.State{
		SchemaVersion: 2,
		Habits: []userstate.Habit{
			{ID: "h1", Name: "Cold shower", Category: id.CategoryPhysical, Streak: 4},
		},
		Score:               72,
		XP:                  640,
		Level:               3,
		Tier:                id.TierAce,
		Streak:              4,
		OnboardingCompleted: true,
	}
	return s
}

func TestReconcileRemoteWins(t *testing.T) {
	ident := testIdentity(t)

	remote := &store.Snapshot{
		State:       nonTrivialState(),
		DisplayName: "The Stoic",
		Avatar:      "🗿",
		UpdatedAt:   testNow.Add(-time.Hour),
	}
	local := nonTrivialState()
	local.Score = 10
	local.Habits = nil

	res := Reconcile(remote, &local, ident, testNow)

	assert.Equal(t, SourceRemote, res.Source)
	assert.False(t, res.PushRemote)
	assert.True(t, res.MirrorLocal)

	assert.Equal(t, 72, res.State.Score)
	require.Len(t, res.State.Habits, 1)
	assert.Equal(t, "Cold shower", res.State.Habits[0].Name)

	require.NotNil(t, res.State.Auth)
	assert.Equal(t, ident.UID, res.State.Auth.UID)
	assert.Equal(t, "marcus@ethos.dev", res.State.Auth.Email)
	assert.Equal(t, "The Stoic", res.State.Auth.Name)
	assert.Equal(t, "🗿", res.State.Auth.Avatar)
	assert.Equal(t, 3, res.State.Auth.Level)
	assert.Equal(t, id.TierAce, res.State.Auth.Tier)
}

func TestReconcileTrivialRemoteFallsThrough(t *testing.T) {
	ident := testIdentity(t)

	remote := &store.Snapshot{State: userstate.State{}}
	local := nonTrivialState()

	res := Reconcile(remote, &local, ident, testNow)

	assert.Equal(t, SourceLocal, res.Source)
	assert.True(t, res.PushRemote)
	assert.Equal(t, 72, res.State.Score)
}

func TestReconcileLocalMigratesUp(t *testing.T) {
	ident := testIdentity(t)

	local := nonTrivialState()
	local.Auth = &userstate.AuthData{Name: "Old Name", Avatar: "🔥"}

	res := Reconcile(nil, &local, ident, testNow)

	assert.Equal(t, SourceLocal, res.Source)
	assert.True(t, res.PushRemote, "local-only state must trigger one remote write")
	assert.True(t, res.MirrorLocal)

	require.NotNil(t, res.State.Auth)
	assert.Equal(t, ident.UID, res.State.Auth.UID)
	assert.Equal(t, "Marcus", res.State.Auth.Name, "provider name wins over the stale cached one")
	assert.Equal(t, "🔥", res.State.Auth.Avatar, "cached avatar survives rebinding")
}

func TestReconcileDefaultWhenNothingExists(t *testing.T) {
	ident := testIdentity(t)

	res := Reconcile(nil, nil, ident, testNow)

	assert.Equal(t, SourceDefault, res.Source)
	assert.True(t, res.PushRemote)

	require.NotNil(t, res.State.Auth)
	assert.Equal(t, "Marcus", res.State.Auth.Name)
	assert.Equal(t, "⚡", res.State.Auth.Avatar)
	assert.Equal(t, 1, res.State.Level)
	assert.Equal(t, id.TierBronze, res.State.Tier)
	assert.False(t, res.State.OnboardingCompleted)
	assert.Empty(t, res.State.Habits)
}

func TestReconcileNameFallsBackToEmailLocalPart(t *testing.T) {
	ident := testIdentity(t)
	ident.DisplayName = ""

	res := Reconcile(nil, nil, ident, testNow)

	require.NotNil(t, res.State.Auth)
	assert.Equal(t, "marcus", res.State.Auth.Name)
}

func TestReconcileDoesNotAliasInputs(t *testing.T) {
	ident := testIdentity(t)

	local := nonTrivialState()
	res := Reconcile(nil, &local, ident, testNow)

	res.State.Habits[0].Name = "mutated"
	assert.Equal(t, "Cold shower", local.Habits[0].Name)
}
