// Package progression derives level and tier from accumulated xp, and the
// xp grant for sealing a day. Pure functions; the session controller is the
// only caller that mutates xp.
package progression

import (
	"math"

	id "ethos/pkg/domain"
)

// sealThreshold is the score required for a seal to extend the streak.
const sealThreshold = 80

// streakMultiplier is the per-day bonus applied to sealed xp.
const streakMultiplier = 0.1

// Level derives the level from xp on a square-root curve: each successive
// level costs proportionally more (level n requires xp >= (n-1)^2 * 100).
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// TierFor maps a level onto its tier band. Bands are closed-open; the
// boundary level belongs to the higher tier (level 10 is Silver, not
// Bronze).
func TierFor(level int) id.Tier {
	switch {
	case level >= 80:
		return id.TierMaster
	case level >= 60:
		return id.TierAce
	case level >= 40:
		return id.TierPlatinum
	case level >= 25:
		return id.TierGold
	case level >= 10:
		return id.TierSilver
	default:
		return id.TierBronze
	}
}

// XPGain is the xp granted when sealing the daily promise: the day's score
// amplified by a streak multiplier rewarding consistency.
func XPGain(score, streak int) int {
	return int(math.Round(float64(score) * (1 + float64(streak)*streakMultiplier)))
}

// NextStreak returns the streak after sealing with the given score: one more
// consecutive day at or above the threshold, otherwise a reset.
func NextStreak(score, streak int) int {
	if score >= sealThreshold {
		return streak + 1
	}
	return 0
}
