package domain

import "time"

// Tier is the coarse, level-derived progression band shown on profiles and
// the leaderboard.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
	TierAce      Tier = "Ace"
	TierMaster   Tier = "Master"
)

// Rank is the score-derived identity label. Unlike Tier it reflects same-day
// adherence, not accumulated xp.
type Rank string

const (
	RankDrifter Rank = "The Drifter"
	RankSeeker  Rank = "The Seeker"
	RankWarrior Rank = "The Warrior"
	RankElite   Rank = "The Elite"
	RankStoic   Rank = "The Stoic Master"
)

// Category classifies a habit for sub-score bucketing.
type Category string

const (
	CategoryPhysical        Category = "Physical"
	CategoryFocus           Category = "Focus"
	CategorySocial          Category = "Social"
	CategoryFinancial       Category = "Financial"
	CategorySocialFinancial Category = "Social/Financial"
)

// FeedEventType classifies entries in the social activity feed.
type FeedEventType string

const (
	FeedAchievement    FeedEventType = "achievement"
	FeedStreak         FeedEventType = "streak"
	FeedStatUpdate     FeedEventType = "stat_update"
	FeedHabitCompleted FeedEventType = "habit_completed"
)

// DayKey is the ISO calendar date (YYYY-MM-DD) used to key daily history
// entries. One entry per day; rewriting the same key reseals that day.
type DayKey string

// DayKeyFor returns the DayKey for the given instant in UTC.
func DayKeyFor(t time.Time) DayKey {
	return DayKey(t.UTC().Format("2006-01-02"))
}
