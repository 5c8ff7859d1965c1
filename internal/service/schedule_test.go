package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/fasttrack/internal"
)

func testSchedule(startDate time.Time) *internal.FastingSchedule {
	return &internal.FastingSchedule{
		Enabled:           true,
		EatingWindowStart: "12:00",
		EatingWindowEnd:   "20:00",
		StartDate:         startDate,
	}
}

func TestShouldAutoStart_InsideGraceWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	assert.True(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_AtExactWindowEnd(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	assert.True(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_AfterGraceExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	assert.False(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_BeforeWindowEnd(t *testing.T) {
	now := time.Date(2026, 3, 10, 19, 59, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	assert.False(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_AlreadyStartedToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	earlier := time.Date(2026, 3, 10, 20, 5, 0, 0, time.UTC)
	s.LastAutoStartDate = &earlier
	assert.False(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_StartedYesterdayDoesNotBlock(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -5))
	yesterday := now.AddDate(0, 0, -1)
	s.LastAutoStartDate = &yesterday
	assert.True(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_DisabledOrActiveFast(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))

	assert.False(t, ShouldAutoStart(nil, false, now))
	assert.False(t, ShouldAutoStart(s, true, now))

	s.Enabled = false
	assert.False(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_BeforeStartDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, 2))
	assert.False(t, ShouldAutoStart(s, false, now))
}

func TestShouldAutoStart_OnStartDateItself(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	s := testSchedule(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.True(t, ShouldAutoStart(s, false, now))
}

func TestTimeUntilNextTransition_SameDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	cd, ok := TimeUntilNextTransition(s, now)
	assert.True(t, ok)
	assert.Equal(t, 1, cd.Hours)
	assert.Equal(t, 30, cd.Minutes)
}

func TestTimeUntilNextTransition_RollsToNextDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	cd, ok := TimeUntilNextTransition(s, now)
	assert.True(t, ok)
	assert.Equal(t, 23, cd.Hours)
	assert.Equal(t, 0, cd.Minutes)
}

func TestTimeUntilNextTransition_Disabled(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	s := testSchedule(now)
	s.Enabled = false
	_, ok := TimeUntilNextTransition(s, now)
	assert.False(t, ok)
	_, ok = TimeUntilNextTransition(nil, now)
	assert.False(t, ok)
}

func TestScheduleTargetHours_WrapsMidnight(t *testing.T) {
	s := &internal.FastingSchedule{EatingWindowStart: "12:00", EatingWindowEnd: "20:00"}
	assert.Equal(t, 16.0, scheduleTargetHours(s))

	s = &internal.FastingSchedule{EatingWindowStart: "20:00", EatingWindowEnd: "04:00"}
	assert.Equal(t, 16.0, scheduleTargetHours(s))
}

func TestNewAutoStartedFast(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	s := testSchedule(now.AddDate(0, 0, -1))
	fast := NewAutoStartedFast(s, "u1", "16:8", now)
	assert.NotEmpty(t, fast.ID)
	assert.Equal(t, "u1", fast.UserID)
	assert.Equal(t, internal.FastActive, fast.Status)
	assert.True(t, fast.ScheduleStarted)
	assert.Equal(t, 16.0, fast.TargetHours)
	assert.Equal(t, now, fast.StartTime)
}

func TestValidateScheduleRequest(t *testing.T) {
	req := &ScheduleRequest{
		Enabled:           true,
		EatingWindowStart: "12:00",
		EatingWindowEnd:   "20:00",
		StartDate:         time.Now(),
	}
	assert.NoError(t, ValidateScheduleRequest(req))

	req.EatingWindowEnd = "25:00"
	assert.Error(t, ValidateScheduleRequest(req))

	req.EatingWindowEnd = ""
	assert.Error(t, ValidateScheduleRequest(req))
}
