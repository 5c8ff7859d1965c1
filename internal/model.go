package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

type FastStatus string

const (
	FastActive    FastStatus = "active"
	FastCompleted FastStatus = "completed"
)

// Fast is a single fasting session. Duration stays 0 until the fast is
// ended, at which point it holds the elapsed time in minutes.
type Fast struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Duration        int        `json:"duration"` // minutes
	Status          FastStatus `json:"status"`
	ProtocolID      string     `json:"protocol_id,omitempty"`
	TargetHours     float64    `json:"target_hours,omitempty"`
	ScheduleStarted bool       `json:"schedule_started,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Mood            *int       `json:"mood,omitempty"`         // 1–5
	EnergyLevel     *int       `json:"energy_level,omitempty"` // 1–5
	CreatedAt       time.Time  `json:"created_at"`
}

// Protocol is a named fasting/eating-hours split. Built-ins are shared
// reference data; custom protocols belong to a single profile.
type Protocol struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FastingHours int    `json:"fasting_hours"`
	EatingHours  int    `json:"eating_hours"`
	Custom       bool   `json:"custom,omitempty"`
}

// FastingSchedule is a recurring daily auto-start rule. Times are
// wall-clock "HH:MM" strings; an eating window with end < start wraps
// midnight.
type FastingSchedule struct {
	Enabled           bool       `json:"enabled"`
	EatingWindowStart string     `json:"eating_window_start"`
	EatingWindowEnd   string     `json:"eating_window_end"`
	StartDate         time.Time  `json:"start_date"`
	LastAutoStartDate *time.Time `json:"last_auto_start_date,omitempty"`
}

type AchievementTier string

const (
	TierBronze     AchievementTier = "bronze"
	TierSilver     AchievementTier = "silver"
	TierGold       AchievementTier = "gold"
	TierPlatinum   AchievementTier = "platinum"
	TierDiamond    AchievementTier = "diamond"
	TierAdamantium AchievementTier = "adamantium"
)

type RequirementKind string

const (
	ReqTotalFasts      RequirementKind = "total_fasts"
	ReqTotalHours      RequirementKind = "total_hours"
	ReqStreak          RequirementKind = "streak"
	ReqProtocolCount   RequirementKind = "protocol_count"
	ReqProtocolStreak  RequirementKind = "protocol_streak"
	ReqSingleFast      RequirementKind = "single_fast"
	ReqAllAchievements RequirementKind = "all_achievements"
)

// Requirement is a single declarative unlock condition. Threshold is in
// fasts, hours or days depending on Kind; for single_fast it is hours.
type Requirement struct {
	Kind       RequirementKind `json:"kind"`
	Threshold  int             `json:"threshold,omitempty"`
	ProtocolID string          `json:"protocol_id,omitempty"`
}

type Achievement struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Tier        AchievementTier `json:"tier"`
	Requirement Requirement     `json:"requirement"`
}

// LeaderboardEntry is the denormalized per-user ranking record. It is
// recomputed wholesale from the fast history on every publish.
type LeaderboardEntry struct {
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	TotalFasts    int       `json:"total_fasts"`
	TotalHours    int       `json:"total_hours"`
	CurrentStreak int       `json:"current_streak"`
	BestStreak    int       `json:"best_streak"`
	LongestFast   int       `json:"longest_fast"` // minutes
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SubscriptionTier string

const (
	TierFree     SubscriptionTier = "free"
	TierPro      SubscriptionTier = "pro"
	TierInfinite SubscriptionTier = "infinite"
)

type Subscription struct {
	Tier       SubscriptionTier `json:"tier"`
	CustomerID string           `json:"customer_id,omitempty"`
	Status     string           `json:"status,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// UserProfile is the one mutable per-user record. The unlocked
// achievement set is append-only; achievements are never revoked.
type UserProfile struct {
	UserID               string           `json:"user_id"`
	DisplayName          string           `json:"display_name"`
	DailyGoalHours       float64          `json:"daily_goal_hours"`
	WeeklyGoalHours      float64          `json:"weekly_goal_hours"`
	PreferredProtocolID  string           `json:"preferred_protocol_id"`
	WeightKg             *float64         `json:"weight_kg,omitempty"`
	GoalWeightKg         *float64         `json:"goal_weight_kg,omitempty"`
	OnboardingComplete   bool             `json:"onboarding_complete"`
	ShareStats           bool             `json:"share_stats"`
	Schedule             *FastingSchedule `json:"schedule,omitempty"`
	UnlockedAchievements []string         `json:"unlocked_achievements,omitempty"`
	CustomProtocols      []Protocol       `json:"custom_protocols,omitempty"`
	Subscription         Subscription     `json:"subscription"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// HasUnlocked reports whether the achievement id is already in the
// profile's unlocked set.
func (p *UserProfile) HasUnlocked(id string) bool {
	for _, u := range p.UnlockedAchievements {
		if u == id {
			return true
		}
	}
	return false
}
