package userstate

import (
	"encoding/json"
	"fmt"

	id "ethos/pkg/domain"
)

// DecodeSnapshot parses a persisted snapshot and migrates legacy shapes to
// the current schema. This is the only place in the codebase allowed to know
// about old field names; everything downstream sees the canonical State.
//
// Legacy handling:
//   - "selectedDisciplines" is accepted as the committed-habits list and
//     normalized into Identity (both present: current name wins).
//   - A missing onboardingCompleted flag is derived from whether a non-empty
//     habit/identity list exists.
//
// A parse failure leaves no partial result; callers keep their prior state.
func DecodeSnapshot(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}

	var legacy struct {
		SelectedDisciplines []string `json:"selectedDisciplines"`
		OnboardingCompleted *bool    `json:"onboardingCompleted"`
	}
	// The outer unmarshal succeeded, so this one cannot fail.
	_ = json.Unmarshal(data, &legacy)

	if len(s.Identity) == 0 && len(legacy.SelectedDisciplines) > 0 {
		s.Identity = legacy.SelectedDisciplines
	}
	if legacy.OnboardingCompleted == nil {
		s.OnboardingCompleted = len(s.Habits) > 0 || len(s.Identity) > 0
	}

	normalizeDefaults(&s)
	s.SchemaVersion = SchemaVersion
	return s, nil
}

// Encode serializes the state as its canonical JSON form.
func Encode(s State) ([]byte, error) {
	return json.Marshal(s)
}

// EncodeIndent is the export format: the canonical serialization,
// pretty-printed.
func EncodeIndent(s State) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// normalizeDefaults fills zero values that old snapshots predate, so the
// rest of the code never re-checks them.
func normalizeDefaults(s *State) {
	if s.Identity == nil {
		s.Identity = []string{}
	}
	if s.Habits == nil {
		s.Habits = []Habit{}
	}
	if s.CriticalPath == nil {
		s.CriticalPath = []*CriticalTask{}
	}
	if len(s.CriticalPath) > CriticalPathSlots {
		s.CriticalPath = s.CriticalPath[:CriticalPathSlots]
	}
	if s.DailyHistory == nil {
		s.DailyHistory = map[id.DayKey]DailyHistoryEntry{}
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.Tier == "" {
		s.Tier = id.TierBronze
	}
	if s.Theme == "" {
		s.Theme = "dark"
	}
	if s.AccentColor == "" {
		s.AccentColor = "#10b981"
	}
	if s.TargetWeight == 0 {
		s.TargetWeight = 75
	}
	if s.NotificationSettings == (NotificationSettings{}) {
		s.NotificationSettings = DefaultNotificationSettings()
	}
	s.ClampTrackers()
}
