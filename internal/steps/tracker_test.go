package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource drives samples into the subscribed callback synchronously.
type fakeSource struct {
	fn       func(Sample)
	detached int
	err      error
}

func (f *fakeSource) Subscribe(_ context.Context, fn func(Sample)) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.fn = fn
	return func() {
		f.fn = nil
		f.detached++
	}, nil
}

func (f *fakeSource) emit(s Sample) {
	if f.fn != nil {
		f.fn(s)
	}
}

func TestTrackerCountsThroughSource(t *testing.T) {
	src := &fakeSource{}
	var seen []int
	tr := NewTracker(src, func(count int) { seen = append(seen, count) })

	require.NoError(t, tr.Start(context.Background()))

	src.emit(spike(0))
	src.emit(spike(100)) // debounced
	src.emit(spike(400))

	assert.Equal(t, 2, tr.Count())
	assert.Equal(t, []int{1, 2}, seen)
}

func TestTrackerStartIsIdempotent(t *testing.T) {
	src := &fakeSource{}
	tr := NewTracker(src, nil)

	require.NoError(t, tr.Start(context.Background()))
	require.NoError(t, tr.Start(context.Background()))

	tr.Stop()
	assert.Equal(t, 1, src.detached, "double start must not double subscribe")
}

func TestTrackerStopDetachesSynchronously(t *testing.T) {
	src := &fakeSource{}
	tr := NewTracker(src, nil)

	require.NoError(t, tr.Start(context.Background()))
	src.emit(spike(0))
	tr.Stop()

	assert.Nil(t, src.fn, "subscription must be detached when Stop returns")
	src.emit(spike(400))
	assert.Equal(t, 1, tr.Count(), "no samples processed after Stop")

	tr.Stop() // idempotent
	assert.Equal(t, 1, src.detached)
}

func TestTrackerPermissionDenied(t *testing.T) {
	src := &fakeSource{err: ErrPermissionDenied}
	tr := NewTracker(src, nil)

	err := tr.Start(context.Background())
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, tr.Running())
	assert.Equal(t, 0, tr.Count(), "count unaffected when tracking cannot start")
}
