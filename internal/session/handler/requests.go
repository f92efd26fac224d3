package handler

import (
	"strings"
	"time"

	"ethos/internal/steps"
	"ethos/internal/userstate"
	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
)

// HabitPayload is the wire shape of one habit in requests.
type HabitPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
	Streak    int    `json:"streak"`
}

func (p HabitPayload) domain() userstate.Habit {
	return userstate.Habit{
		ID:        p.ID,
		Name:      strings.TrimSpace(p.Name),
		Category:  id.Category(p.Category),
		Completed: p.Completed,
		Streak:    p.Streak,
	}
}

// OnboardingRequest carries the identity commitment made during onboarding.
type OnboardingRequest struct {
	Identity []string       `json:"identity"`
	Habits   []HabitPayload `json:"habits"`
}

func (r OnboardingRequest) Validate() error {
	if len(r.Identity) == 0 {
		return derrors.New(derrors.CodeBadRequest, "identity requires at least one discipline")
	}
	for _, h := range r.Habits {
		if strings.TrimSpace(h.Name) == "" {
			return derrors.New(derrors.CodeBadRequest, "habit name is required")
		}
	}
	return nil
}

// DomainHabits converts the payload habits, or nil when none were sent.
func (r OnboardingRequest) DomainHabits() []userstate.Habit {
	if r.Habits == nil {
		return nil
	}
	out := make([]userstate.Habit, 0, len(r.Habits))
	for _, h := range r.Habits {
		out = append(out, h.domain())
	}
	return out
}

// ReplaceHabitsRequest swaps the full habit list.
type ReplaceHabitsRequest struct {
	Habits []HabitPayload `json:"habits"`
}

func (r ReplaceHabitsRequest) Validate() error {
	for _, h := range r.Habits {
		if strings.TrimSpace(h.Name) == "" {
			return derrors.New(derrors.CodeBadRequest, "habit name is required")
		}
	}
	return nil
}

// AddHabitRequest appends one habit.
type AddHabitRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (r AddHabitRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return derrors.New(derrors.CodeBadRequest, "habit name is required")
	}
	return nil
}

// UpdateHabitRequest patches one habit. Nil fields are left unchanged.
type UpdateHabitRequest struct {
	Name      *string `json:"name,omitempty"`
	Category  *string `json:"category,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// CriticalTaskRequest fills one critical-path slot.
type CriticalTaskRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func (r CriticalTaskRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return derrors.New(derrors.CodeBadRequest, "task text is required")
	}
	return nil
}

// AddWaterRequest adjusts the water tracker by a signed amount of ml.
type AddWaterRequest struct {
	DeltaML int `json:"deltaMl"`
}

// SetSleepRequest records last night's sleep.
type SetSleepRequest struct {
	Hours   float64 `json:"hours"`
	Quality int     `json:"quality"`
}

func (r SetSleepRequest) Validate() error {
	if r.Hours < 0 || r.Hours > 24 {
		return derrors.New(derrors.CodeBadRequest, "sleep hours must be between 0 and 24")
	}
	if r.Quality < 0 || r.Quality > 100 {
		return derrors.New(derrors.CodeBadRequest, "sleep quality must be between 0 and 100")
	}
	return nil
}

// SetWeightRequest logs the current weight and optionally moves the target.
type SetWeightRequest struct {
	Weight       float64  `json:"weight"`
	TargetWeight *float64 `json:"targetWeight,omitempty"`
}

func (r SetWeightRequest) Validate() error {
	if r.Weight <= 0 {
		return derrors.New(derrors.CodeBadRequest, "weight must be positive")
	}
	if r.TargetWeight != nil && *r.TargetWeight <= 0 {
		return derrors.New(derrors.CodeBadRequest, "target weight must be positive")
	}
	return nil
}

// SetStepsRequest overwrites the step count, for manual entry.
type SetStepsRequest struct {
	Steps int `json:"steps"`
}

func (r SetStepsRequest) Validate() error {
	if r.Steps < 0 {
		return derrors.New(derrors.CodeBadRequest, "steps must not be negative")
	}
	return nil
}

// SealPromiseRequest seals today with an optional promise text.
type SealPromiseRequest struct {
	Promise string `json:"promise"`
}

// MotionSamplePayload is one accelerometer reading on the wire.
type MotionSamplePayload struct {
	X  float64   `json:"x"`
	Y  float64   `json:"y"`
	Z  float64   `json:"z"`
	At time.Time `json:"at"`
}

// MotionSamplesRequest carries a batch of accelerometer readings.
type MotionSamplesRequest struct {
	Samples []MotionSamplePayload `json:"samples"`
}

func (r MotionSamplesRequest) Validate() error {
	if len(r.Samples) == 0 {
		return derrors.New(derrors.CodeBadRequest, "samples must not be empty")
	}
	return nil
}

// DomainSamples converts the payload to sensor samples.
func (r MotionSamplesRequest) DomainSamples() []steps.Sample {
	out := make([]steps.Sample, 0, len(r.Samples))
	for _, s := range r.Samples {
		out = append(out, steps.Sample{X: s.X, Y: s.Y, Z: s.Z, At: s.At})
	}
	return out
}

// UpdateSettingsRequest patches presentation and profile settings. Nil
// fields are left unchanged.
type UpdateSettingsRequest struct {
	Theme                *string                         `json:"theme,omitempty"`
	AccentColor          *string                         `json:"accentColor,omitempty"`
	NotificationSettings *userstate.NotificationSettings `json:"notificationSettings,omitempty"`
	Height               *float64                        `json:"height,omitempty"`
	Age                  *int                            `json:"age,omitempty"`
	Gender               *string                         `json:"gender,omitempty"`
}
