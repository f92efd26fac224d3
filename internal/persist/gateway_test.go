package persist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethos/internal/persist/metrics"
	"ethos/internal/userstate"
	"ethos/internal/userstate/cache"
	"ethos/internal/userstate/store"
	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
)

// promauto registers against the default registry; one shared instance keeps
// repeated test constructions from colliding.
var testMetrics = metrics.New()

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testState(t *testing.T) userstate.State {
	t.Helper()
	uid, err := id.ParseUserID("6f1c2b6e-3c55-4f0e-9a6d-0d3f2c9b7a11")
	require.NoError(t, err)
	s := userstate.NewDefault(userstate.AuthData{
		UID:    uid,
		Email:  "marcus@ethos.dev",
		Name:   "Marcus",
		Avatar: "⚡",
	}, testNow)
	s.Score = 64
	return s
}

func newTestGateway(c cache.Cache, r store.Remote) *Gateway {
	return New(c, r, slog.New(slog.NewTextHandler(io.Discard, nil)), testMetrics, time.Second)
}

type failingRemote struct {
	store.Remote
	err error
}

func (f *failingRemote) MergeWrite(ctx context.Context, uid id.UserID, doc userstate.RemoteDocument) error {
	return f.err
}

func TestPersistWritesBothTiers(t *testing.T) {
	local := cache.NewMemory()
	remote := store.NewMemory()
	g := newTestGateway(local, remote)

	state := testState(t)
	done, err := g.Persist(context.Background(), state)
	require.NoError(t, err)
	require.NoError(t, <-done)

	data, err := local.Get(context.Background(), "marcus@ethos.dev")
	require.NoError(t, err)
	cached, err := userstate.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 64, cached.Score)

	snap, err := remote.Load(context.Background(), state.Auth.UID)
	require.NoError(t, err)
	assert.Equal(t, 64, snap.State.Score)
	assert.Equal(t, "Marcus", snap.DisplayName)
}

func TestPersistRemoteFailureDoesNotSurface(t *testing.T) {
	local := cache.NewMemory()
	remote := &failingRemote{Remote: store.NewMemory(), err: errors.New("connection refused")}
	g := newTestGateway(local, remote)

	done, err := g.Persist(context.Background(), testState(t))
	require.NoError(t, err, "local write succeeds regardless of the remote")

	remoteErr := <-done
	require.Error(t, remoteErr)
	assert.True(t, derrors.HasCode(remoteErr, derrors.CodeUnavailable))

	// The local cache entry is intact.
	_, err = local.Get(context.Background(), "marcus@ethos.dev")
	assert.NoError(t, err)
}

func TestPersistSurvivesCanceledRequestContext(t *testing.T) {
	local := cache.NewMemory()
	remote := store.NewMemory()
	g := newTestGateway(local, remote)

	state := testState(t)
	ctx, cancel := context.WithCancel(context.Background())
	done, err := g.Persist(ctx, state)
	require.NoError(t, err)
	cancel()

	require.NoError(t, <-done, "remote write is detached from the request context")
	_, err = remote.Load(context.Background(), state.Auth.UID)
	assert.NoError(t, err)
}

func TestPersistRejectsUnboundState(t *testing.T) {
	g := newTestGateway(cache.NewMemory(), store.NewMemory())

	_, err := g.Persist(context.Background(), userstate.State{})
	require.Error(t, err)
	assert.True(t, derrors.HasCode(err, derrors.CodeInvariantViolation))
}

func TestPurgeRemovesBothTiers(t *testing.T) {
	local := cache.NewMemory()
	remote := store.NewMemory()
	g := newTestGateway(local, remote)

	state := testState(t)
	done, err := g.Persist(context.Background(), state)
	require.NoError(t, err)
	require.NoError(t, <-done)

	require.NoError(t, g.Purge(context.Background(), state))

	_, err = local.Get(context.Background(), "marcus@ethos.dev")
	assert.Error(t, err)
	_, err = remote.Load(context.Background(), state.Auth.UID)
	assert.Error(t, err)

	// Purging again is a no-op, not an error.
	assert.NoError(t, g.Purge(context.Background(), state))
}
