package userstate

import (
	"time"

	id "ethos/pkg/domain"
)

// RemoteDocument is the explicit allow-list of fields persisted to the
// remote store. The auth block and any transient UI state never leave the
// process: remote storage holds canonical progression and profile fields,
// not session binding. UpdatedAt is server-assigned and never set here.
type RemoteDocument struct {
	SchemaVersion int `json:"schemaVersion"`

	Identity      []string                        `json:"identity"`
	Habits        []Habit                         `json:"habits"`
	CriticalPath  []*CriticalTask                 `json:"criticalPath"`
	WaterIntake   int                             `json:"waterIntake"`
	Steps         int                             `json:"steps"`
	Calories      int                             `json:"calories"`
	Weight        float64                         `json:"weight"`
	TargetWeight  float64                         `json:"targetWeight"`
	Height        float64                         `json:"height"`
	Age           int                             `json:"age"`
	Gender        string                          `json:"gender"`
	SleepHours    float64                         `json:"sleepHours"`
	SleepQuality  int                             `json:"sleepQuality"`
	FocusSessions int                             `json:"focusSessions"`
	Streak        int                             `json:"streak"`
	LastActive    time.Time                       `json:"lastActive"`
	IsPro         bool                            `json:"isPro"`
	Score         int                             `json:"score"`
	Level         int                             `json:"level"`
	XP            int                             `json:"xp"`
	Tier          id.Tier                         `json:"tier"`
	Theme         string                          `json:"theme"`
	AccentColor   string                          `json:"accentColor"`
	DailyHistory  map[id.DayKey]DailyHistoryEntry `json:"dailyHistory"`

	NotificationSettings NotificationSettings `json:"notificationSettings"`
	OnboardingCompleted  bool                 `json:"onboardingCompleted"`

	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

// RemoteDocFrom strips a state down to its persistable allow-list. The
// display name and avatar fall back through auth values so a remote row is
// never faceless.
func RemoteDocFrom(s State) RemoteDocument {
	doc := RemoteDocument{
		SchemaVersion:        SchemaVersion,
		Identity:             s.Identity,
		Habits:               s.Habits,
		CriticalPath:         s.CriticalPath,
		WaterIntake:          s.WaterIntake,
		Steps:                s.Steps,
		Calories:             s.Calories,
		Weight:               s.Weight,
		TargetWeight:         s.TargetWeight,
		Height:               s.Height,
		Age:                  s.Age,
		Gender:               s.Gender,
		SleepHours:           s.SleepHours,
		SleepQuality:         s.SleepQuality,
		FocusSessions:        s.FocusSessions,
		Streak:               s.Streak,
		LastActive:           s.LastActive,
		IsPro:                s.IsPro,
		Score:                s.Score,
		Level:                s.Level,
		XP:                   s.XP,
		Tier:                 s.Tier,
		Theme:                s.Theme,
		AccentColor:          s.AccentColor,
		DailyHistory:         s.DailyHistory,
		NotificationSettings: s.NotificationSettings,
		OnboardingCompleted:  s.OnboardingCompleted,
		DisplayName:          "Warrior",
		Avatar:               "⚡",
	}
	if s.Auth != nil {
		if s.Auth.Name != "" {
			doc.DisplayName = s.Auth.Name
		}
		if s.Auth.Avatar != "" {
			doc.Avatar = s.Auth.Avatar
		}
	}
	return doc
}
