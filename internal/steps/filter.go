// Package steps turns a raw 3-axis acceleration stream into a step count.
// The filter is a pure edge detector; persistence and calorie derivation
// live with the session controller.
package steps

import (
	"math"
	"time"
)

// Tunable detection constants. Fixed at build time, not user-configurable.
const (
	// DefaultThreshold is the acceleration magnitude (including gravity)
	// a sample must exceed to count as a step candidate.
	DefaultThreshold = 12.0

	// DefaultCooldown debounces multiple threshold crossings produced by a
	// single physical step.
	DefaultCooldown = 300 * time.Millisecond
)

// Sample is one 3-axis accelerometer reading, gravity included.
type Sample struct {
	X, Y, Z float64
	At      time.Time
}

// Magnitude is the Euclidean norm of the acceleration vector.
func (s Sample) Magnitude() float64 {
	return math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
}

// Filter detects steps from a sample stream. Its only mutable state is the
// timestamp of the last registered step and the cumulative count. Not safe
// for concurrent use; the Tracker serializes access.
type Filter struct {
	threshold float64
	cooldown  time.Duration

	lastStep time.Time
	count    int
}

// NewFilter returns a filter with the default threshold and cooldown.
func NewFilter() *Filter {
	return &Filter{threshold: DefaultThreshold, cooldown: DefaultCooldown}
}

// Feed processes one sample and reports whether it registered a step. A step
// registers when the magnitude exceeds the threshold and the cooldown has
// elapsed since the previous step.
func (f *Filter) Feed(s Sample) bool {
	if s.Magnitude() <= f.threshold {
		return false
	}
	if !f.lastStep.IsZero() && s.At.Sub(f.lastStep) < f.cooldown {
		return false
	}
	f.lastStep = s.At
	f.count++
	return true
}

// Count returns the cumulative, monotonically increasing step count.
func (f *Filter) Count() int {
	return f.count
}
