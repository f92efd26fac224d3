package steps

import (
	"context"
	"errors"
	"sync"
)

// ErrPermissionDenied is returned by a SensorSource when the capability is
// absent or the user declined it. Tracking does not start and the count is
// left untouched; there is no estimation fallback.
var ErrPermissionDenied = errors.New("motion sensor permission denied")

// SensorSource is the external acceleration stream. Subscribe attaches fn to
// the stream and returns a detach function. Implementations must stop
// invoking fn once detach returns.
type SensorSource interface {
	Subscribe(ctx context.Context, fn func(Sample)) (detach func(), err error)
}

// Tracker owns a Filter's lifecycle against a SensorSource. Start and Stop
// are idempotent; Stop synchronously detaches the subscription so no
// callback runs after it returns.
type Tracker struct {
	source SensorSource

	// onStep receives the cumulative count after each registered step.
	onStep func(count int)

	mu      sync.Mutex
	filter  *Filter
	detach  func()
	running bool
}

// NewTracker builds a tracker over the given source. onStep may be nil.
func NewTracker(source SensorSource, onStep func(count int)) *Tracker {
	return &Tracker{
		source: source,
		onStep: onStep,
		filter: NewFilter(),
	}
}

// Start attaches to the sensor stream. Calling Start while running is a
// no-op. A permission-denied source leaves the tracker stopped.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}

	detach, err := t.source.Subscribe(ctx, t.handleSample)
	if err != nil {
		return err
	}
	t.detach = detach
	t.running = true
	return nil
}

// Stop detaches from the stream. Safe to call when not running. The
// subscription is detached before Stop returns.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.detach()
	t.detach = nil
	t.running = false
}

// Running reports whether the tracker currently holds a subscription.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Count returns the cumulative step count.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter.Count()
}

func (t *Tracker) handleSample(s Sample) {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	stepped := t.filter.Feed(s)
	count := t.filter.Count()
	onStep := t.onStep
	t.mu.Unlock()

	if stepped && onStep != nil {
		onStep(count)
	}
}
