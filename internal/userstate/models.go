// Package userstate defines the single root aggregate for an account and
// the one normalization boundary that turns any persisted snapshot - current
// or legacy - into the canonical typed structure. Downstream code never
// branches on snapshot shape.
package userstate

import (
	"time"

	id "ethos/pkg/domain"
)

// SchemaVersion is stamped on every snapshot this build writes. Snapshots
// without a version are treated as legacy and migrated on decode.
const SchemaVersion = 2

// CriticalPathSlots caps the index-addressed critical task array.
const CriticalPathSlots = 3

// Habit is a named recurring commitment with a boolean daily completion
// state and a category.
type Habit struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Category  id.Category `json:"category"`
	Completed bool        `json:"completed"`
	Streak    int         `json:"streak"`
}

// CriticalTask occupies one of up to three critical-path slots.
type CriticalTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NotificationSettings is presentation config the core passes through
// unchanged.
type NotificationSettings struct {
	Enabled          bool   `json:"enabled"`
	MorningTime      string `json:"morningTime"`
	EveningTime      string `json:"eveningTime"`
	ReminderInterval int    `json:"reminderInterval"` // minutes
}

// AuthData binds the state to an identity-provider session. It mirrors the
// progression fields for display contexts; the session controller keeps the
// mirror in sync on every recompute.
type AuthData struct {
	UID    id.UserID `json:"uid"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar,omitempty"`
	Level  int       `json:"level,omitempty"`
	XP     int       `json:"xp,omitempty"`
	Tier   id.Tier   `json:"tier,omitempty"`
}

// DailyHistoryEntry freezes one day's trackers when the daily promise is
// sealed. Entries are keyed by ISO date and replaced on same-day reseal.
type DailyHistoryEntry struct {
	Score           int      `json:"score"`
	CompletedHabits []string `json:"completedHabits"`
	WaterIntake     int      `json:"waterIntake"`
	Steps           int      `json:"steps"`
	Calories        int      `json:"calories"`
	Weight          float64  `json:"weight"`
	Promise         string   `json:"promise"`
}

// State is the root aggregate. Score, level, and tier are always derived:
// no code path sets them independent of recomputation (enforced by routing
// every mutation through the session controller).
type State struct {
	SchemaVersion int `json:"schemaVersion"`

	Auth *AuthData `json:"auth,omitempty"`

	// Identity is the set of discipline names the user committed to.
	// Insertion order is preserved for display only.
	Identity []string `json:"identity"`

	Habits []Habit `json:"habits"`

	// CriticalPath is a sparse, index-addressed array of up to three slots.
	CriticalPath []*CriticalTask `json:"criticalPath"`

	WaterIntake  int     `json:"waterIntake"` // ml
	Steps        int     `json:"steps"`
	Calories     int     `json:"calories"` // derived from steps
	Weight       float64 `json:"weight"`   // kg
	TargetWeight float64 `json:"targetWeight"`
	Height       float64 `json:"height,omitempty"` // cm
	Age          int     `json:"age,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	SleepHours   float64 `json:"sleepHours"`   // 0-24
	SleepQuality int     `json:"sleepQuality"` // 0-100

	FocusSessions int `json:"focusSessions"`

	Score  int     `json:"score"` // recomputed, never directly settable
	XP     int     `json:"xp"`    // monotonic accumulator
	Level  int     `json:"level"` // derived from xp
	Tier   id.Tier `json:"tier"`  // derived from level
	Streak int     `json:"streak"`

	LastActive time.Time `json:"lastActive"`
	IsPro      bool      `json:"isPro"`

	Theme       string `json:"theme"`
	AccentColor string `json:"accentColor"`

	DailyHistory map[id.DayKey]DailyHistoryEntry `json:"dailyHistory"`

	NotificationSettings NotificationSettings `json:"notificationSettings"`

	OnboardingCompleted bool `json:"onboardingCompleted"`
}

// DefaultNotificationSettings matches the first-run configuration.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:          false,
		MorningTime:      "08:00",
		EveningTime:      "20:00",
		ReminderInterval: 60,
	}
}

// NewDefault constructs the zeroed state created on first sign-in: all
// trackers zero, onboarding pending, Bronze at level 1 with no xp.
func NewDefault(auth AuthData, now time.Time) State {
	auth.Level = 1
	auth.XP = 0
	auth.Tier = id.TierBronze
	return State{
		SchemaVersion:        SchemaVersion,
		Auth:                 &auth,
		Identity:             []string{},
		Habits:               []Habit{},
		CriticalPath:         make([]*CriticalTask, 0, CriticalPathSlots),
		TargetWeight:         75,
		Streak:               0,
		LastActive:           now,
		IsPro:                true,
		Score:                0,
		XP:                   0,
		Level:                1,
		Tier:                 id.TierBronze,
		Theme:                "dark",
		AccentColor:          "#10b981",
		DailyHistory:         map[id.DayKey]DailyHistoryEntry{},
		NotificationSettings: DefaultNotificationSettings(),
		OnboardingCompleted:  false,
	}
}

// Clone returns a deep copy so mutation callbacks can transform freely
// without aliasing the canonical state.
func (s State) Clone() State {
	out := s
	if s.Auth != nil {
		a := *s.Auth
		out.Auth = &a
	}
	out.Identity = append([]string(nil), s.Identity...)
	out.Habits = append([]Habit(nil), s.Habits...)
	out.CriticalPath = make([]*CriticalTask, len(s.CriticalPath))
	for i, t := range s.CriticalPath {
		if t != nil {
			c := *t
			out.CriticalPath[i] = &c
		}
	}
	out.DailyHistory = make(map[id.DayKey]DailyHistoryEntry, len(s.DailyHistory))
	for k, v := range s.DailyHistory {
		entry := v
		entry.CompletedHabits = append([]string(nil), v.CompletedHabits...)
		out.DailyHistory[k] = entry
	}
	return out
}

// NonTrivial reports whether a remote snapshot carries real user data and
// can therefore act as the source of truth during reconciliation. A bare
// shell (e.g. a row holding only a step count written by the tracker before
// the first full save) is trivial.
func (s State) NonTrivial() bool {
	if s.SchemaVersion > 0 {
		return true
	}
	return len(s.Habits) > 0 || len(s.Identity) > 0 ||
		len(s.DailyHistory) > 0 || s.XP > 0
}

// ClampTrackers floors the numeric trackers at zero. Decrements below zero
// clamp rather than going negative.
func (s *State) ClampTrackers() {
	if s.WaterIntake < 0 {
		s.WaterIntake = 0
	}
	if s.Steps < 0 {
		s.Steps = 0
	}
	if s.Calories < 0 {
		s.Calories = 0
	}
	if s.FocusSessions < 0 {
		s.FocusSessions = 0
	}
	if s.SleepHours < 0 {
		s.SleepHours = 0
	}
	if s.SleepHours > 24 {
		s.SleepHours = 24
	}
	if s.SleepQuality < 0 {
		s.SleepQuality = 0
	}
	if s.SleepQuality > 100 {
		s.SleepQuality = 100
	}
}
