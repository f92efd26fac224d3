package userstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ethos/pkg/domain"
)

func testNow() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func TestDecodeSnapshotCurrentShape(t *testing.T) {
	raw := []byte(`{
		"schemaVersion": 2,
		"identity": ["Run", "Read"],
		"habits": [{"id":"h1","name":"Run","category":"Physical","completed":true,"streak":3}],
		"waterIntake": 1500,
		"onboardingCompleted": true,
		"tier": "Silver",
		"level": 12,
		"xp": 12100
	}`)

	s, err := DecodeSnapshot(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Run", "Read"}, s.Identity)
	assert.Len(t, s.Habits, 1)
	assert.Equal(t, id.CategoryPhysical, s.Habits[0].Category)
	assert.True(t, s.OnboardingCompleted)
	assert.Equal(t, id.TierSilver, s.Tier)
	assert.Equal(t, SchemaVersion, s.SchemaVersion)
}

func TestDecodeSnapshotLegacyDisciplines(t *testing.T) {
	raw := []byte(`{
		"selectedDisciplines": ["Deep Work", "Cold Shower"],
		"habits": [{"id":"h1","name":"Deep Work","category":"Focus"}]
	}`)

	s, err := DecodeSnapshot(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Deep Work", "Cold Shower"}, s.Identity,
		"legacy field must normalize without dropping data")
	assert.True(t, s.OnboardingCompleted,
		"missing flag is derived from non-empty habit list")
}

func TestDecodeSnapshotDerivesOnboardingFalseForEmpty(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"waterIntake": 200}`))
	require.NoError(t, err)

	assert.False(t, s.OnboardingCompleted)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, id.TierBronze, s.Tier)
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, 75.0, s.TargetWeight)
}

func TestDecodeSnapshotRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"identity": [`))
	require.Error(t, err)
}

func TestDecodeSnapshotClampsNegativeTrackers(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"waterIntake": -50, "steps": -3, "sleepQuality": 180}`))
	require.NoError(t, err)

	assert.Equal(t, 0, s.WaterIntake)
	assert.Equal(t, 0, s.Steps)
	assert.Equal(t, 100, s.SleepQuality)
}

func TestNonTrivial(t *testing.T) {
	trivial, err := DecodeSnapshot([]byte(`{}`))
	require.NoError(t, err)
	trivial.SchemaVersion = 0

	assert.False(t, trivial.NonTrivial())

	withHabits := trivial
	withHabits.Habits = []Habit{{ID: "h1", Name: "Run"}}
	assert.True(t, withHabits.NonTrivial())

	versioned := trivial
	versioned.SchemaVersion = SchemaVersion
	assert.True(t, versioned.NonTrivial())
}

func TestCloneIsDeep(t *testing.T) {
	s := NewDefault(AuthData{Email: "a@b.c"}, testNow())
	s.Habits = []Habit{{ID: "h1", Name: "Run"}}
	s.DailyHistory["2026-08-30"] = DailyHistoryEntry{Score: 80, CompletedHabits: []string{"Run"}}

	c := s.Clone()
	c.Habits[0].Name = "Walk"
	entry := c.DailyHistory["2026-08-30"]
	entry.CompletedHabits[0] = "Walk"
	c.DailyHistory["2026-08-30"] = entry
	c.Auth.Email = "x@y.z"

	assert.Equal(t, "Run", s.Habits[0].Name)
	assert.Equal(t, "Run", s.DailyHistory["2026-08-30"].CompletedHabits[0])
	assert.Equal(t, "a@b.c", s.Auth.Email)
}
