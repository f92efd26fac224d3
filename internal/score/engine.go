// Package score computes the 0-100 discipline score. Everything here is a
// pure function of the user state passed in: no clock, no randomness, no
// caching. Callers recompute on every mutation.
package score

import (
	"math"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
)

// Sub-score weights. They sum to 1.0 so the composite stays in [0,1] before
// the final scale to 100.
const (
	habitWeight     = 0.4
	hydrationWeight = 0.2
	fitnessWeight   = 0.2
	focusWeight     = 0.2
)

// Fitness blend weights, internal to the fitness sub-score.
const (
	physicalHabitPart = 0.3
	stepsPart         = 0.3
	weightLoggedPart  = 0.1
	sleepDurationPart = 0.15
	sleepQualityPart  = 0.15
)

const (
	hydrationBase      = 2000.0 // ml
	hydrationBracket   = 100.0  // kcal per target bump
	hydrationBracketML = 35.0   // ml added per bracket
	stepsTarget        = 10000.0
	sleepTargetHours   = 8.0
)

// Calculate returns the composite score in [0,100].
//
// Zero-member categories contribute a perfect sub-score rather than 0 or
// NaN; opting out of a category must never punish the user.
func Calculate(s userstate.State) int {
	habit := completionFraction(s.Habits, "")
	hydration := hydrationScore(s.WaterIntake, s.Calories)
	fitness := fitnessScore(s)
	focus := completionFraction(s.Habits, id.CategoryFocus)

	total := habit*habitWeight +
		hydration*hydrationWeight +
		fitness*fitnessWeight +
		focus*focusWeight

	return int(math.Round(total * 100))
}

// Rank maps a score onto the identity label shown on profiles.
func Rank(score int) id.Rank {
	switch {
	case score < 20:
		return id.RankDrifter
	case score < 40:
		return id.RankSeeker
	case score < 60:
		return id.RankWarrior
	case score < 80:
		return id.RankElite
	default:
		return id.RankStoic
	}
}

// HydrationTarget is the calorie-adjusted daily water requirement in ml.
// Higher activity raises the bar.
func HydrationTarget(calories int) float64 {
	return hydrationBase + math.Floor(float64(calories)/hydrationBracket)*hydrationBracketML
}

func hydrationScore(waterIntake, calories int) float64 {
	return math.Min(float64(waterIntake)/HydrationTarget(calories), 1)
}

func fitnessScore(s userstate.State) float64 {
	physical := completionFraction(s.Habits, id.CategoryPhysical)

	steps := math.Min(float64(s.Steps)/stepsTarget, 1)

	weightLogged := 0.0
	if s.Weight > 0 {
		weightLogged = 1.0
	}

	sleep := math.Min(s.SleepHours/sleepTargetHours, 1)
	quality := float64(s.SleepQuality) / 100

	return physical*physicalHabitPart +
		steps*stepsPart +
		weightLogged*weightLoggedPart +
		sleep*sleepDurationPart +
		quality*sleepQualityPart
}

// completionFraction returns the completed fraction of habits in category,
// or of all habits when category is empty. Vacuously 1 with no members.
func completionFraction(habits []userstate.Habit, category id.Category) float64 {
	total, done := 0, 0
	for _, h := range habits {
		if category != "" && h.Category != category {
			continue
		}
		total++
		if h.Completed {
			done++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(done) / float64(total)
}
