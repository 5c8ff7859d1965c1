package service

import (
	"time"

	"github.com/yourname/fasttrack/internal"
)

// CompletionistID is the meta-achievement requiring every other catalog
// entry to be unlocked first.
const CompletionistID = "completionist"

// achievementCatalog is fixed reference data. Order matters: Evaluate
// returns newly unlocked ids in catalog order.
var achievementCatalog = []internal.Achievement{
	{ID: "first_fast", Name: "First Fast", Description: "Complete your first fast", Category: "milestone", Tier: internal.TierBronze,
		Requirement: internal.Requirement{Kind: internal.ReqTotalFasts, Threshold: 1}},
	{ID: "ten_fasts", Name: "Getting Serious", Description: "Complete 10 fasts", Category: "milestone", Tier: internal.TierSilver,
		Requirement: internal.Requirement{Kind: internal.ReqTotalFasts, Threshold: 10}},
	{ID: "fifty_fasts", Name: "Committed", Description: "Complete 50 fasts", Category: "milestone", Tier: internal.TierGold,
		Requirement: internal.Requirement{Kind: internal.ReqTotalFasts, Threshold: 50}},
	{ID: "hundred_fasts", Name: "Centurion", Description: "Complete 100 fasts", Category: "milestone", Tier: internal.TierPlatinum,
		Requirement: internal.Requirement{Kind: internal.ReqTotalFasts, Threshold: 100}},

	{ID: "hours_100", Name: "Century of Hours", Description: "Fast for 100 total hours", Category: "milestone", Tier: internal.TierSilver,
		Requirement: internal.Requirement{Kind: internal.ReqTotalHours, Threshold: 100}},
	{ID: "hours_500", Name: "Time Bender", Description: "Fast for 500 total hours", Category: "milestone", Tier: internal.TierGold,
		Requirement: internal.Requirement{Kind: internal.ReqTotalHours, Threshold: 500}},
	{ID: "hours_1000", Name: "Millennium", Description: "Fast for 1000 total hours", Category: "milestone", Tier: internal.TierDiamond,
		Requirement: internal.Requirement{Kind: internal.ReqTotalHours, Threshold: 1000}},

	{ID: "streak_3", Name: "Warming Up", Description: "Reach a 3-day streak", Category: "streak", Tier: internal.TierBronze,
		Requirement: internal.Requirement{Kind: internal.ReqStreak, Threshold: 3}},
	{ID: "streak_7", Name: "One Week Strong", Description: "Reach a 7-day streak", Category: "streak", Tier: internal.TierSilver,
		Requirement: internal.Requirement{Kind: internal.ReqStreak, Threshold: 7}},
	{ID: "streak_30", Name: "Habit Formed", Description: "Reach a 30-day streak", Category: "streak", Tier: internal.TierGold,
		Requirement: internal.Requirement{Kind: internal.ReqStreak, Threshold: 30}},
	{ID: "streak_90", Name: "Iron Discipline", Description: "Reach a 90-day streak", Category: "streak", Tier: internal.TierPlatinum,
		Requirement: internal.Requirement{Kind: internal.ReqStreak, Threshold: 90}},

	{ID: "sixteen_eight_10", Name: "16:8 Regular", Description: "Complete 10 fasts on 16:8", Category: "16:8", Tier: internal.TierSilver,
		Requirement: internal.Requirement{Kind: internal.ReqProtocolCount, Threshold: 10, ProtocolID: "16:8"}},
	{ID: "sixteen_eight_30", Name: "16:8 Devotee", Description: "Complete 30 fasts on 16:8", Category: "16:8", Tier: internal.TierGold,
		Requirement: internal.Requirement{Kind: internal.ReqProtocolCount, Threshold: 30, ProtocolID: "16:8"}},
	{ID: "warrior_10", Name: "Warrior Initiate", Description: "Complete 10 fasts on 20:4", Category: "20:4", Tier: internal.TierGold,
		Requirement: internal.Requirement{Kind: internal.ReqProtocolCount, Threshold: 10, ProtocolID: "20:4"}},
	{ID: "omad_10", Name: "One Meal Wonder", Description: "Complete 10 OMAD fasts", Category: "omad", Tier: internal.TierGold,
		Requirement: internal.Requirement{Kind: internal.ReqProtocolCount, Threshold: 10, ProtocolID: "omad"}},
	{ID: "omad_streak_7", Name: "OMAD Week", Description: "Keep OMAD going for a week", Category: "omad", Tier: internal.TierPlatinum,
		Requirement: internal.Requirement{Kind: internal.ReqProtocolStreak, Threshold: 7, ProtocolID: "omad"}},

	{ID: "fast_16h", Name: "Sweet Sixteen", Description: "Complete a 16-hour fast", Category: "special", Tier: internal.TierBronze,
		Requirement: internal.Requirement{Kind: internal.ReqSingleFast, Threshold: 16}},
	{ID: "fast_24h", Name: "Full Day", Description: "Complete a 24-hour fast", Category: "special", Tier: internal.TierSilver,
		Requirement: internal.Requirement{Kind: internal.ReqSingleFast, Threshold: 24}},
	{ID: "fast_36h", Name: "Monk Mode", Description: "Complete a 36-hour fast", Category: "special", Tier: internal.TierGold,
		Requirement: internal.Requirement{Kind: internal.ReqSingleFast, Threshold: 36}},
	{ID: "fast_48h", Name: "Two Day Titan", Description: "Complete a 48-hour fast", Category: "special", Tier: internal.TierPlatinum,
		Requirement: internal.Requirement{Kind: internal.ReqSingleFast, Threshold: 48}},
	{ID: "fast_72h", Name: "Three Day Legend", Description: "Complete a 72-hour fast", Category: "special", Tier: internal.TierDiamond,
		Requirement: internal.Requirement{Kind: internal.ReqSingleFast, Threshold: 72}},

	{ID: CompletionistID, Name: "Completionist", Description: "Unlock every other achievement", Category: "special", Tier: internal.TierAdamantium,
		Requirement: internal.Requirement{Kind: internal.ReqAllAchievements}},
}

func AchievementCatalog() []internal.Achievement {
	out := make([]internal.Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// derivedStats are the quantities shared by every rule, computed once
// per Evaluate call.
type derivedStats struct {
	totalFasts     int
	totalHours     float64
	currentStreak  int
	protocolCounts map[string]int
	longestMinutes int
}

func deriveStats(fasts []internal.Fast, now time.Time) derivedStats {
	d := derivedStats{protocolCounts: map[string]int{}}
	for _, f := range fasts {
		if f.Status != internal.FastCompleted {
			continue
		}
		d.totalFasts++
		d.totalHours += float64(f.Duration) / 60
		if f.ProtocolID != "" {
			d.protocolCounts[f.ProtocolID]++
		}
		if f.Duration > d.longestMinutes {
			d.longestMinutes = f.Duration
		}
	}
	d.currentStreak = CurrentStreak(fasts, now)
	return d
}

// EvaluateAchievements returns the catalog ids newly satisfied by the
// history, in catalog order. Active fasts never count. The engine does
// not mutate the unlocked set; persisting the union is the caller's
// responsibility, which keeps unlocking monotonic.
func EvaluateAchievements(fasts []internal.Fast, unlocked []string, now time.Time) []string {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}
	stats := deriveStats(fasts, now)

	var newly []string
	for _, a := range achievementCatalog {
		if have[a.ID] {
			continue
		}
		if requirementMet(a, stats, have) {
			newly = append(newly, a.ID)
		}
	}
	return newly
}

func requirementMet(a internal.Achievement, stats derivedStats, have map[string]bool) bool {
	req := a.Requirement
	switch req.Kind {
	case internal.ReqTotalFasts:
		return stats.totalFasts >= req.Threshold
	case internal.ReqTotalHours:
		return stats.totalHours >= float64(req.Threshold)
	case internal.ReqStreak:
		return stats.currentStreak >= req.Threshold
	case internal.ReqProtocolCount, internal.ReqProtocolStreak:
		// protocol_streak is deliberately evaluated as a plain count,
		// mirroring the shipped behavior.
		return stats.protocolCounts[req.ProtocolID] >= req.Threshold
	case internal.ReqSingleFast:
		return stats.longestMinutes >= req.Threshold*60
	case internal.ReqAllAchievements:
		for _, other := range achievementCatalog {
			if other.ID == a.ID {
				continue
			}
			if !have[other.ID] {
				return false
			}
		}
		return true
	default:
		return false
	}
}
