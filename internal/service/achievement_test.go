package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/fasttrack/internal"
)

func protocolFast(protocolID string, start time.Time, minutes int) internal.Fast {
	f := completedFast("u1", start, minutes)
	f.ProtocolID = protocolID
	return f
}

func TestEvaluateAchievements_FirstFast(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	fasts := []internal.Fast{protocolFast("16:8", now.Add(-17*time.Hour), 990)}

	newly := EvaluateAchievements(fasts, nil, now)
	assert.Contains(t, newly, "first_fast")
	assert.Contains(t, newly, "fast_16h") // 990 minutes clears the 16-hour bar
	assert.NotContains(t, newly, "ten_fasts")
	assert.NotContains(t, newly, "fast_24h")
}

func TestEvaluateAchievements_ActiveFastsNeverCount(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	fasts := []internal.Fast{
		{ID: "a1", UserID: "u1", StartTime: now.Add(-20 * time.Hour), Status: internal.FastActive},
	}
	assert.Empty(t, EvaluateAchievements(fasts, nil, now))
}

func TestEvaluateAchievements_AlreadyUnlockedNotRepeated(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	fasts := []internal.Fast{protocolFast("16:8", now.Add(-17*time.Hour), 990)}

	first := EvaluateAchievements(fasts, nil, now)
	again := EvaluateAchievements(fasts, first, now)
	assert.Empty(t, again)
}

func TestEvaluateAchievements_CatalogOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	var fasts []internal.Fast
	for i := 0; i < 10; i++ {
		fasts = append(fasts, protocolFast("16:8", now.AddDate(0, 0, -i), 990))
	}
	newly := EvaluateAchievements(fasts, nil, now)

	index := map[string]int{}
	for i, a := range AchievementCatalog() {
		index[a.ID] = i
	}
	for i := 1; i < len(newly); i++ {
		assert.Less(t, index[newly[i-1]], index[newly[i]])
	}
	assert.Contains(t, newly, "ten_fasts")
	assert.Contains(t, newly, "streak_7")
	assert.Contains(t, newly, "sixteen_eight_10")
	assert.Contains(t, newly, "hours_100")
}

func TestEvaluateAchievements_SingleFastThresholds(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	fasts := []internal.Fast{protocolFast("", now.Add(-37*time.Hour), 36*60)}

	newly := EvaluateAchievements(fasts, nil, now)
	assert.Contains(t, newly, "fast_16h")
	assert.Contains(t, newly, "fast_24h")
	assert.Contains(t, newly, "fast_36h")
	assert.NotContains(t, newly, "fast_48h")
}

func TestEvaluateAchievements_OmadStreakIsCountBased(t *testing.T) {
	// Seven OMAD fasts spread over non-consecutive days still unlock
	// omad_streak_7; the rule counts fasts, not consecutive days.
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	var fasts []internal.Fast
	for i := 0; i < 7; i++ {
		fasts = append(fasts, protocolFast("omad", now.AddDate(0, 0, -i*3), 23*60))
	}
	newly := EvaluateAchievements(fasts, nil, now)
	assert.Contains(t, newly, "omad_streak_7")
}

func TestEvaluateAchievements_CompletionistNeedsPriorUnlocks(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	catalog := AchievementCatalog()

	var others []string
	for _, a := range catalog {
		if a.ID != CompletionistID {
			others = append(others, a.ID)
		}
	}

	// With every other id already persisted, completionist unlocks even
	// with an empty history.
	newly := EvaluateAchievements(nil, others, now)
	assert.Equal(t, []string{CompletionistID}, newly)

	// One missing id keeps it locked.
	newly = EvaluateAchievements(nil, others[1:], now)
	assert.NotContains(t, newly, CompletionistID)
}

func TestEvaluateAchievements_CompletionistIgnoresSameTurnUnlocks(t *testing.T) {
	// Ids unlocked in the same evaluation do not feed the meta rule;
	// only the persisted set counts.
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	fasts := []internal.Fast{protocolFast("16:8", now.Add(-17*time.Hour), 990)}
	newly := EvaluateAchievements(fasts, nil, now)
	assert.NotContains(t, newly, CompletionistID)
}

func TestAchievementCatalog_IsACopy(t *testing.T) {
	c := AchievementCatalog()
	c[0].Name = "mutated"
	assert.NotEqual(t, "mutated", AchievementCatalog()[0].Name)
}
