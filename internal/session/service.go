// Package session owns the canonical in-memory state for every signed-in
// account and is the single write path to it. Every mutation funnels through
// Apply, which recomputes the derived fields and hands the result to the
// persistence gateway, so score, level, and tier can never drift from their
// inputs.
package session

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"ethos/internal/progression"
	"ethos/internal/score"
	"ethos/internal/session/metrics"
	"ethos/internal/social"
	"ethos/internal/steps"
	"ethos/internal/userstate"
	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
)

const tracerName = "ethos/internal/session"

// caloriesPerStep converts a step count into the kcal estimate shown on the
// dashboard.
const caloriesPerStep = 0.042

// Persister is what the controller needs from the persistence gateway.
type Persister interface {
	Persist(ctx context.Context, state userstate.State) (<-chan error, error)
	WriteLocal(ctx context.Context, state userstate.State) error
	Purge(ctx context.Context, state userstate.State) error
}

// FeedPublisher pushes community events to the broker. Publishing is best
// effort; the controller logs failures and moves on.
type FeedPublisher interface {
	Publish(ctx context.Context, event social.FeedEvent) error
}

// SealResult reports the outcome of sealing the daily promise.
type SealResult struct {
	Entry  userstate.DailyHistoryEntry `json:"entry"`
	Day    id.DayKey                   `json:"day"`
	XPGain int                         `json:"xpGain"`
	XP     int                         `json:"xp"`
	Level  int                         `json:"level"`
	Tier   id.Tier                     `json:"tier"`
	Streak int                         `json:"streak"`
}

// Session is the controller for one signed-in account.
type Session struct {
	mu    sync.Mutex
	state userstate.State

	persister Persister
	feed      FeedPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	tracer    trace.Tracer

	tracker    *steps.Tracker
	sampleFeed *sampleFeed
}

func newSession(state userstate.State, p Persister, feed FeedPublisher, logger *slog.Logger, m *metrics.Metrics, now func() time.Time) *Session {
	return &Session{
		state:     state,
		persister: p,
		feed:      feed,
		logger:    logger,
		metrics:   m,
		now:       now,
		tracer:    otel.Tracer(tracerName),
	}
}

// State returns a deep copy of the current canonical state.
func (s *Session) State() userstate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Apply runs a mutation against a copy of the canonical state, recomputes
// the derived fields, installs the result, and persists it. The accumulator
// fields (xp, streak, daily history) are controller-owned and restored if a
// mutation touches them; they change only through SealDailyPromise.
func (s *Session) Apply(ctx context.Context, mutate func(st *userstate.State) error) (userstate.State, error) {
	ctx, span := s.tracer.Start(ctx, "session.Apply")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	next := s.state.Clone()
	if err := mutate(&next); err != nil {
		s.metrics.MutationFailures.Inc()
		return userstate.State{}, err
	}

	next.Auth = s.state.Auth
	next.XP = s.state.XP
	next.Streak = s.state.Streak
	next.DailyHistory = s.state.DailyHistory

	s.recompute(&next)
	s.state = next
	s.persistLocked(ctx)

	s.metrics.Mutations.Inc()
	s.metrics.ObserveApply(start)
	return next.Clone(), nil
}

// SealDailyPromise freezes today's trackers into the daily history, awards
// xp scaled by the current streak, and advances or resets the streak based
// on the sealed score. Resealing the same day overwrites that day's entry
// but still awards xp.
func (s *Session) SealDailyPromise(ctx context.Context, promise string) (SealResult, error) {
	ctx, span := s.tracer.Start(ctx, "session.SealDailyPromise")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	s.recompute(&next)

	gain := progression.XPGain(next.Score, next.Streak)
	next.XP += gain
	next.Streak = progression.NextStreak(next.Score, next.Streak)

	// History keeps habit names, not ids: entries outlive habit edits and
	// are read back for display only.
	completed := make([]string, 0, len(next.Habits))
	for _, h := range next.Habits {
		if h.Completed {
			completed = append(completed, h.Name)
		}
	}

	day := id.DayKeyFor(s.now())
	entry := userstate.DailyHistoryEntry{
		Score:           next.Score,
		CompletedHabits: completed,
		WaterIntake:     next.WaterIntake,
		Steps:           next.Steps,
		Calories:        next.Calories,
		Weight:          next.Weight,
		Promise:         promise,
	}
	next.DailyHistory[day] = entry

	s.recompute(&next)
	s.state = next
	s.persistLocked(ctx)
	s.metrics.PromisesSealed.Inc()

	s.publish(ctx, next, id.FeedStreak, "sealed the daily promise")

	return SealResult{
		Entry:  entry,
		Day:    day,
		XPGain: gain,
		XP:     next.XP,
		Level:  next.Level,
		Tier:   next.Tier,
		Streak: next.Streak,
	}, nil
}

// CompleteOnboarding installs the chosen identity disciplines and starter
// habits and marks onboarding done. Calling it again replaces the identity
// set but does not reset progression.
func (s *Session) CompleteOnboarding(ctx context.Context, identity []string, habits []userstate.Habit) (userstate.State, error) {
	if len(identity) == 0 {
		return userstate.State{}, derrors.New(derrors.CodeBadRequest, "identity requires at least one discipline")
	}

	st, err := s.Apply(ctx, func(st *userstate.State) error {
		st.Identity = append([]string(nil), identity...)
		if habits != nil {
			st.Habits = append([]userstate.Habit(nil), habits...)
		}
		st.OnboardingCompleted = true
		return nil
	})
	if err != nil {
		return userstate.State{}, err
	}

	s.publish(ctx, st, id.FeedAchievement, "established a new identity protocol")
	return st, nil
}

// Export serializes the full state as indented JSON for download.
func (s *Session) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return userstate.EncodeIndent(s.state)
}

// Import replaces the state with a previously exported snapshot. The data
// passes through the normalization boundary, so legacy exports migrate on
// the way in. The current account binding is preserved; the snapshot's own
// auth block is discarded.
func (s *Session) Import(ctx context.Context, data []byte) (userstate.State, error) {
	imported, err := userstate.DecodeSnapshot(data)
	if err != nil {
		return userstate.State{}, derrors.Wrap(err, derrors.CodeBadRequest, "invalid snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	imported.Auth = s.state.Auth
	s.recompute(&imported)
	s.state = imported
	s.persistLocked(ctx)
	s.metrics.Mutations.Inc()
	return imported.Clone(), nil
}

// DeleteData removes the account's persisted data from both tiers and
// resets the in-memory state to the first-run default. The reset state is
// not re-persisted; the next accepted mutation writes it back.
func (s *Session) DeleteData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Purge(ctx, s.state); err != nil {
		return err
	}

	auth := userstate.AuthData{}
	if s.state.Auth != nil {
		auth = userstate.AuthData{
			UID:    s.state.Auth.UID,
			Email:  s.state.Auth.Email,
			Name:   s.state.Auth.Name,
			Avatar: s.state.Auth.Avatar,
		}
	}
	s.state = userstate.NewDefault(auth, s.now())
	s.logger.InfoContext(ctx, "account data deleted", "uid", auth.UID)
	return nil
}

// recompute derives every computed field from the raw inputs. Calories
// follow the step count, score follows the trackers, level follows xp, tier
// follows level, and the auth mirror follows all of them.
func (s *Session) recompute(st *userstate.State) {
	st.ClampTrackers()
	st.Calories = int(math.Round(float64(st.Steps) * caloriesPerStep))
	st.Score = score.Calculate(*st)
	st.Level = progression.Level(st.XP)
	st.Tier = progression.TierFor(st.Level)
	st.LastActive = s.now()
	if st.Auth != nil {
		a := *st.Auth
		a.Level = st.Level
		a.XP = st.XP
		a.Tier = st.Tier
		st.Auth = &a
	}
}

// persistLocked hands the current state to the gateway. A local write
// failure is logged, not surfaced: the canonical copy already advanced and
// the next write will carry the full state anyway.
func (s *Session) persistLocked(ctx context.Context) {
	if _, err := s.persister.Persist(ctx, s.state); err != nil {
		s.logger.ErrorContext(ctx, "persist failed",
			"uid", s.state.Auth.UID,
			"error", err)
	}
}

func (s *Session) publish(ctx context.Context, st userstate.State, eventType id.FeedEventType, message string) {
	if s.feed == nil {
		return
	}
	event := social.FeedEvent{
		ID:          id.NewEventID(),
		Type:        eventType,
		UID:         st.Auth.UID,
		DisplayName: st.Auth.Name,
		Avatar:      st.Auth.Avatar,
		Message:     message,
		Score:       st.Score,
		Level:       st.Level,
		Tier:        st.Tier,
		Streak:      st.Streak,
		OccurredAt:  s.now(),
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "feed publish failed",
			"uid", st.Auth.UID,
			"type", eventType,
			"error", err)
	}
}
