package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
)

func habit(category id.Category, completed bool) userstate.Habit {
	return userstate.Habit{ID: "h", Name: "h", Category: category, Completed: completed}
}

func TestCalculateBounds(t *testing.T) {
	cases := []struct {
		name  string
		state userstate.State
	}{
		{"zero state", userstate.State{}},
		{"everything maxed", userstate.State{
			Habits: []userstate.Habit{
				habit(id.CategoryPhysical, true),
				habit(id.CategoryFocus, true),
			},
			WaterIntake:  4000,
			Steps:        20000,
			Calories:     840,
			Weight:       80,
			SleepHours:   9,
			SleepQuality: 100,
		}},
		{"negative-leaning partial", userstate.State{
			Habits:      []userstate.Habit{habit(id.CategorySocial, false)},
			WaterIntake: 100,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(tc.state)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestCalculateMaxedStateIsPerfect(t *testing.T) {
	s := userstate.State{
		Habits: []userstate.Habit{
			habit(id.CategoryPhysical, true),
			habit(id.CategoryFocus, true),
		},
		WaterIntake:  5000,
		Steps:        10000,
		Calories:     420,
		Weight:       80,
		SleepHours:   8,
		SleepQuality: 100,
	}
	assert.Equal(t, 100, Calculate(s))
}

func TestCalculateEmptyCategoriesScorePerfect(t *testing.T) {
	// No habits at all: habit, physical, and focus fractions are all
	// vacuously 1.0 so only hydration and the habit-free fitness terms move
	// the score.
	s := userstate.State{
		WaterIntake:  2000, // exactly the base target with zero calories
		Steps:        0,
		Weight:       0,
		SleepHours:   0,
		SleepQuality: 0,
	}
	// habit 0.4 + hydration 0.2 + fitness 0.2*(0.3) + focus 0.2 = 0.86
	assert.Equal(t, 86, Calculate(s))
}

func TestCalculateDeterministic(t *testing.T) {
	s := userstate.State{
		Habits:       []userstate.Habit{habit(id.CategoryPhysical, true), habit(id.CategoryFocus, false)},
		WaterIntake:  1200,
		Steps:        4200,
		Calories:     176,
		Weight:       81.5,
		SleepHours:   6.5,
		SleepQuality: 70,
	}
	first := Calculate(s)
	for range 10 {
		assert.Equal(t, first, Calculate(s))
	}
}

func TestHydrationTargetRisesWithCalories(t *testing.T) {
	assert.Equal(t, 2000.0, HydrationTarget(0))
	assert.Equal(t, 2000.0, HydrationTarget(99))
	assert.Equal(t, 2035.0, HydrationTarget(100))
	assert.Equal(t, 2175.0, HydrationTarget(500))
}

func TestRankBands(t *testing.T) {
	assert.Equal(t, id.RankDrifter, Rank(0))
	assert.Equal(t, id.RankDrifter, Rank(19))
	assert.Equal(t, id.RankSeeker, Rank(20))
	assert.Equal(t, id.RankWarrior, Rank(59))
	assert.Equal(t, id.RankElite, Rank(79))
	assert.Equal(t, id.RankStoic, Rank(80))
	assert.Equal(t, id.RankStoic, Rank(100))
}

func TestCalculateWeightLoggedFlag(t *testing.T) {
	base := userstate.State{WaterIntake: 2000}
	withWeight := base
	withWeight.Weight = 72.5

	// weight-logged contributes 0.1 inside the 0.2 fitness weight: +2 points.
	assert.Equal(t, Calculate(base)+2, Calculate(withWeight))
}
