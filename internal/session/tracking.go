package session

import (
	"context"
	"sync"

	"ethos/internal/steps"
	"ethos/internal/userstate"
	derrors "ethos/pkg/domain-errors"
)

// sampleFeed adapts API-submitted accelerometer batches to the sensor
// stream the step tracker subscribes to. Samples submitted while no
// subscriber is attached are dropped.
type sampleFeed struct {
	mu sync.Mutex
	fn func(steps.Sample)
}

func (f *sampleFeed) Subscribe(ctx context.Context, fn func(steps.Sample)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fn != nil {
		return nil, derrors.New(derrors.CodeConflict, "sensor stream already subscribed")
	}
	f.fn = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.fn = nil
	}, nil
}

func (f *sampleFeed) push(s steps.Sample) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// StartStepTracking attaches a fresh step detector to the account's sample
// stream. Each registered step increments the step count by one and rolls
// the derived fields. Starting while already tracking is a no-op.
func (s *Session) StartStepTracking(ctx context.Context) error {
	s.mu.Lock()
	if s.tracker != nil && s.tracker.Running() {
		s.mu.Unlock()
		return nil
	}
	feed := &sampleFeed{}
	tracker := steps.NewTracker(feed, func(count int) {
		s.onStep(context.WithoutCancel(ctx))
	})
	s.sampleFeed = feed
	s.tracker = tracker
	s.mu.Unlock()

	return tracker.Start(ctx)
}

// StopStepTracking detaches the step detector. The accumulated step count
// stays on the state.
func (s *Session) StopStepTracking() {
	s.mu.Lock()
	tracker := s.tracker
	s.tracker = nil
	s.sampleFeed = nil
	s.mu.Unlock()

	if tracker != nil {
		tracker.Stop()
	}
}

// TrackingSteps reports whether a step detector is currently attached.
func (s *Session) TrackingSteps() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker != nil && s.tracker.Running()
}

// IngestMotionSamples feeds a batch of accelerometer readings into the
// detector. Returns the number of steps registered from this batch. Fails
// when tracking is not active.
func (s *Session) IngestMotionSamples(ctx context.Context, samples []steps.Sample) (int, error) {
	s.mu.Lock()
	feed := s.sampleFeed
	before := s.state.Steps
	s.mu.Unlock()

	if feed == nil {
		return 0, derrors.New(derrors.CodeConflict, "step tracking is not active")
	}
	for _, sample := range samples {
		feed.push(sample)
	}

	s.mu.Lock()
	after := s.state.Steps
	s.mu.Unlock()
	return after - before, nil
}

func (s *Session) onStep(ctx context.Context) {
	if _, err := s.Apply(ctx, func(st *userstate.State) error {
		st.Steps++
		return nil
	}); err != nil {
		s.logger.WarnContext(ctx, "step apply failed", "error", err)
	}
}
