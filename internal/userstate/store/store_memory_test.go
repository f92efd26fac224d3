package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
	"ethos/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) newUID() id.UserID {
	return id.UserID(uuid.New())
}

func (s *InMemoryStoreSuite) TestLoadMissingReturnsNotFound() {
	_, err := s.store.Load(s.ctx, s.newUID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestMergeWriteThenLoad() {
	uid := s.newUID()
	state := userstate.NewDefault(userstate.AuthData{
		UID: uid, Email: "jane@example.com", Name: "Jane",
	}, time.Now())
	state.WaterIntake = 1500
	state.Habits = []userstate.Habit{{ID: "h1", Name: "Run", Category: id.CategoryPhysical}}

	s.Require().NoError(s.store.MergeWrite(s.ctx, uid, userstate.RemoteDocFrom(state)))

	snap, err := s.store.Load(s.ctx, uid)
	s.Require().NoError(err)
	s.Equal(1500, snap.State.WaterIntake)
	s.Len(snap.State.Habits, 1)
	s.Equal("Jane", snap.DisplayName)
	s.Nil(snap.State.Auth, "auth block must never reach remote storage")
}

func (s *InMemoryStoreSuite) TestMergePreservesUntouchedFields() {
	uid := s.newUID()
	first := userstate.NewDefault(userstate.AuthData{UID: uid, Email: "a@b.c"}, time.Now())
	first.XP = 500
	s.Require().NoError(s.store.MergeWrite(s.ctx, uid, userstate.RemoteDocFrom(first)))

	// Second write from a state that never saw the first one's xp still
	// carries the full allow-list, but a field-level merge must keep any
	// top-level key the second document omits. Simulate an omitted key by
	// merging a raw partial document.
	s.store.mu.Lock()
	delete(s.store.docs[uid].fields, "xp")
	s.store.mu.Unlock()

	second := first
	second.XP = 700
	s.Require().NoError(s.store.MergeWrite(s.ctx, uid, userstate.RemoteDocFrom(second)))

	snap, err := s.store.Load(s.ctx, uid)
	s.Require().NoError(err)
	s.Equal(700, snap.State.XP)
}

func (s *InMemoryStoreSuite) TestDelete() {
	uid := s.newUID()
	state := userstate.NewDefault(userstate.AuthData{UID: uid, Email: "a@b.c"}, time.Now())
	s.Require().NoError(s.store.MergeWrite(s.ctx, uid, userstate.RemoteDocFrom(state)))

	s.Require().NoError(s.store.Delete(s.ctx, uid))
	_, err := s.store.Load(s.ctx, uid)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(s.ctx, uid), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestLeaderboardOrdersByScoreDesc() {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	tick := 0
	s.store.WithNow(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	for i, score := range []int{40, 90, 60} {
		state := userstate.NewDefault(userstate.AuthData{
			Email: "u@example.com", Name: "u",
		}, base)
		state.Score = score
		state.Level = 5 + i
		doc := userstate.RemoteDocFrom(state)
		s.Require().NoError(s.store.MergeWrite(s.ctx, s.newUID(), doc))
	}

	rows, err := s.store.LeaderboardTop(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(90, rows[0].Score)
	s.Equal(60, rows[1].Score)
}
