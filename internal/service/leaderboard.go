package service

import (
	"math"
	"time"

	"github.com/yourname/fasttrack/internal"
)

// ProjectLeaderboardEntry reduces a fast history and profile into the
// denormalized ranking record. Each publish fully replaces the stored
// entry; there is no incremental accounting.
func ProjectLeaderboardEntry(fasts []internal.Fast, profile *internal.UserProfile, now time.Time) internal.LeaderboardEntry {
	completed := completedOnly(fasts)
	totalMinutes, longest := 0, 0
	for _, f := range completed {
		totalMinutes += f.Duration
		if f.Duration > longest {
			longest = f.Duration
		}
	}
	name := profile.DisplayName
	if name == "" {
		name = "Anonymous"
	}
	return internal.LeaderboardEntry{
		UserID:        profile.UserID,
		DisplayName:   name,
		TotalFasts:    len(completed),
		TotalHours:    int(math.Round(float64(totalMinutes) / 60)),
		CurrentStreak: CurrentStreak(fasts, now),
		BestStreak:    BestStreak(fasts, now),
		LongestFast:   longest,
		IsPublic:      profile.ShareStats,
		UpdatedAt:     now,
	}
}
