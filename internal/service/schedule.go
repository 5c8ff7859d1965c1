package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/fasttrack/internal"
)

// AutoStartGrace bounds how long after the eating window closes an
// auto-start may still fire. The evaluator runs on a polling cadence,
// not a precise timer; the grace window tolerates missed ticks without
// retroactively starting very late fasts.
const AutoStartGrace = 2 * time.Hour

// parseClock parses a wall-clock "HH:MM" string.
func parseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%2d:%2d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	return hour, minute, nil
}

// atClock places an "HH:MM" wall-clock time on the calendar day of ref.
func atClock(ref time.Time, clock string) (time.Time, error) {
	h, m, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, 0, 0, ref.Location()), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ShouldAutoStart decides whether a new fast should be auto-started at
// now. Comparisons use same-day wall-clock times only: a check running
// after midnight does not see the previous day's eating-window end as
// still within the grace window.
func ShouldAutoStart(s *internal.FastingSchedule, hasActiveFast bool, now time.Time) bool {
	if s == nil || !s.Enabled || hasActiveFast {
		return false
	}
	if dateOnly(now).Before(dateOnly(s.StartDate.In(now.Location()))) {
		return false
	}
	if s.LastAutoStartDate != nil && sameDay(s.LastAutoStartDate.In(now.Location()), now) {
		return false
	}
	end, err := atClock(now, s.EatingWindowEnd)
	if err != nil {
		return false
	}
	return !now.Before(end) && now.Before(end.Add(AutoStartGrace))
}

// Countdown is the time remaining until the next schedule transition.
type Countdown struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// TimeUntilNextTransition computes the next occurrence of the eating
// window end at or after now. The second return is false when the
// schedule is disabled or unparsable.
func TimeUntilNextTransition(s *internal.FastingSchedule, now time.Time) (Countdown, bool) {
	if s == nil || !s.Enabled {
		return Countdown{}, false
	}
	next, err := atClock(now, s.EatingWindowEnd)
	if err != nil {
		return Countdown{}, false
	}
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	if start := s.StartDate.In(now.Location()); dateOnly(next).Before(dateOnly(start)) {
		next, err = atClock(start, s.EatingWindowEnd)
		if err != nil {
			return Countdown{}, false
		}
	}
	remaining := next.Sub(now)
	return Countdown{
		Hours:   int(remaining.Hours()),
		Minutes: int(remaining.Minutes()) % 60,
	}, true
}

// scheduleTargetHours is the forward distance from the eating window end
// to the next eating window start, wrapping past midnight when the naive
// subtraction is non-positive.
func scheduleTargetHours(s *internal.FastingSchedule) float64 {
	endH, endM, err := parseClock(s.EatingWindowEnd)
	if err != nil {
		return 0
	}
	startH, startM, err := parseClock(s.EatingWindowStart)
	if err != nil {
		return 0
	}
	minutes := (startH*60 + startM) - (endH*60 + endM)
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return float64(minutes) / 60
}

// NewAutoStartedFast builds the active fast for a schedule-triggered
// start, tagged so UIs can distinguish it from a manual start.
func NewAutoStartedFast(s *internal.FastingSchedule, userID, protocolID string, now time.Time) *internal.Fast {
	return &internal.Fast{
		ID:              uuid.NewString(),
		UserID:          userID,
		StartTime:       now,
		Status:          internal.FastActive,
		ProtocolID:      protocolID,
		TargetHours:     scheduleTargetHours(s),
		ScheduleStarted: true,
		CreatedAt:       now,
	}
}

type ScheduleRequest struct {
	Enabled           bool      `json:"enabled"`
	EatingWindowStart string    `json:"eating_window_start" validate:"required,len=5"`
	EatingWindowEnd   string    `json:"eating_window_end" validate:"required,len=5"`
	StartDate         time.Time `json:"start_date" validate:"required"`
}

// ValidateScheduleRequest enforces well-formed "HH:MM" times at the
// boundary; the evaluator itself does not defensively recover.
func ValidateScheduleRequest(req *ScheduleRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if _, _, err := parseClock(req.EatingWindowStart); err != nil {
		return err
	}
	if _, _, err := parseClock(req.EatingWindowEnd); err != nil {
		return err
	}
	return nil
}
