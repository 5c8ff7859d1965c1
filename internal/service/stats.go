package service

import (
	"math"
	"sort"
	"time"

	"github.com/yourname/fasttrack/internal"
)

func completedOnly(fasts []internal.Fast) []internal.Fast {
	out := make([]internal.Fast, 0, len(fasts))
	for _, f := range fasts {
		if f.Status == internal.FastCompleted {
			out = append(out, f)
		}
	}
	return out
}

// uniqueFastDates returns the distinct calendar start dates of the
// completed fasts, newest first. Multiple fasts on one day collapse to
// a single date.
func uniqueFastDates(fasts []internal.Fast, loc *time.Location) []time.Time {
	seen := map[string]bool{}
	var dates []time.Time
	for _, f := range fasts {
		if f.Status != internal.FastCompleted {
			continue
		}
		d := dateOnly(f.StartTime.In(loc))
		key := d.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// daysBetween counts calendar days from b to a, rounding to absorb DST.
func daysBetween(a, b time.Time) int {
	return int(math.Round(a.Sub(b).Hours() / 24))
}

// CurrentStreak walks day-by-day from today backward. The streak
// continues while each successive fast date is at most one day earlier
// than the running cursor, and stops at the first larger gap.
func CurrentStreak(fasts []internal.Fast, now time.Time) int {
	dates := uniqueFastDates(fasts, now.Location())
	cursor := dateOnly(now)
	streak := 0
	for _, d := range dates {
		gap := daysBetween(cursor, d)
		if gap < 0 {
			continue // future-dated entry, ignore
		}
		if gap > 1 {
			break
		}
		streak++
		cursor = d
	}
	return streak
}

// BestStreak scans the whole history for the longest run of fast dates
// separated by gaps of at most one day, including the in-progress run.
func BestStreak(fasts []internal.Fast, now time.Time) int {
	dates := uniqueFastDates(fasts, now.Location())
	if len(dates) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) <= 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// totalMinutesSince sums completed fast durations whose start falls at
// or after the cutoff. A zero cutoff means all time.
func totalMinutesSince(fasts []internal.Fast, cutoff time.Time) int {
	total := 0
	for _, f := range fasts {
		if f.Status != internal.FastCompleted {
			continue
		}
		if !cutoff.IsZero() && f.StartTime.Before(cutoff) {
			continue
		}
		total += f.Duration
	}
	return total
}

func TodayMinutes(fasts []internal.Fast, now time.Time) int {
	return totalMinutesSince(fasts, dateOnly(now))
}

// WeekMinutes sums completed durations since the start of the current
// week. Weeks start on Monday at local midnight.
func WeekMinutes(fasts []internal.Fast, now time.Time) int {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	weekStart := dateOnly(now).AddDate(0, 0, -(weekday - 1))
	return totalMinutesSince(fasts, weekStart)
}

func AllTimeMinutes(fasts []internal.Fast) int {
	return totalMinutesSince(fasts, time.Time{})
}

// CompletionRate is the share of completed fasts in the window that met
// their target. Fasts without a target always count as met. Returns a
// value in [0,1]; 0 for an empty window.
func CompletionRate(fasts []internal.Fast, since time.Time) float64 {
	met, total := 0, 0
	for _, f := range fasts {
		if f.Status != internal.FastCompleted {
			continue
		}
		if !since.IsZero() && f.StartTime.Before(since) {
			continue
		}
		total++
		if f.TargetHours <= 0 || float64(f.Duration) >= f.TargetHours*60 {
			met++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(met) / float64(total)
}

// ConsistencyScore blends fasting-day coverage, current streak and
// completion rate into a 0–100 score, weighted 0.4/0.3/0.3.
func ConsistencyScore(fasts []internal.Fast, windowDays int, now time.Time) int {
	if windowDays <= 0 {
		return 0
	}
	cutoff := dateOnly(now).AddDate(0, 0, -(windowDays - 1))

	activeDays := 0
	for _, d := range uniqueFastDates(fasts, now.Location()) {
		if !d.Before(cutoff) && !d.After(dateOnly(now)) {
			activeDays++
		}
	}
	coverage := float64(activeDays) / float64(windowDays)
	if coverage > 1 {
		coverage = 1
	}

	streakPart := float64(CurrentStreak(fasts, now)) / 7
	if streakPart > 1 {
		streakPart = 1
	}

	rate := CompletionRate(fasts, cutoff)

	return int(math.Round((0.4*coverage + 0.3*streakPart + 0.3*rate) * 100))
}

// DashboardStats is the bundle the statistics endpoint serves.
type DashboardStats struct {
	TodayMinutes     int     `json:"today_minutes"`
	WeekMinutes      int     `json:"week_minutes"`
	AllTimeMinutes   int     `json:"all_time_minutes"`
	TotalFasts       int     `json:"total_fasts"`
	CurrentStreak    int     `json:"current_streak"`
	BestStreak       int     `json:"best_streak"`
	CompletionRate   float64 `json:"completion_rate"`
	ConsistencyScore int     `json:"consistency_score"`
	LongestFast      int     `json:"longest_fast"` // minutes
}

// ConsistencyWindowDays is the lookback for the consistency score.
const ConsistencyWindowDays = 30

func ComputeDashboardStats(fasts []internal.Fast, now time.Time) DashboardStats {
	completed := completedOnly(fasts)
	longest := 0
	for _, f := range completed {
		if f.Duration > longest {
			longest = f.Duration
		}
	}
	return DashboardStats{
		TodayMinutes:     TodayMinutes(fasts, now),
		WeekMinutes:      WeekMinutes(fasts, now),
		AllTimeMinutes:   AllTimeMinutes(fasts),
		TotalFasts:       len(completed),
		CurrentStreak:    CurrentStreak(fasts, now),
		BestStreak:       BestStreak(fasts, now),
		CompletionRate:   CompletionRate(fasts, time.Time{}),
		ConsistencyScore: ConsistencyScore(fasts, ConsistencyWindowDays, now),
		LongestFast:      longest,
	}
}
