package service

import "github.com/yourname/fasttrack/internal"

// Features is the per-tier access table. Gating is a read-side lookup;
// tier changes themselves come from the billing webhook.
type Features struct {
	CustomProtocols    bool `json:"custom_protocols"`
	MaxCustomProtocols int  `json:"max_custom_protocols"`
	FullAchievements   bool `json:"full_achievements"`
	Leaderboard        bool `json:"leaderboard"`
	Exports            bool `json:"exports"`
}

var tierFeatures = map[internal.SubscriptionTier]Features{
	internal.TierFree: {
		CustomProtocols:    false,
		MaxCustomProtocols: 0,
		FullAchievements:   false,
		Leaderboard:        true,
		Exports:            false,
	},
	internal.TierPro: {
		CustomProtocols:    true,
		MaxCustomProtocols: 10,
		FullAchievements:   true,
		Leaderboard:        true,
		Exports:            true,
	},
	internal.TierInfinite: {
		CustomProtocols:    true,
		MaxCustomProtocols: 100,
		FullAchievements:   true,
		Leaderboard:        true,
		Exports:            true,
	},
}

// FeaturesForTier falls back to the free tier for unknown values.
func FeaturesForTier(tier internal.SubscriptionTier) Features {
	if f, ok := tierFeatures[tier]; ok {
		return f
	}
	return tierFeatures[internal.TierFree]
}
