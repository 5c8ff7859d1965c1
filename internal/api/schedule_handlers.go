package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
)

func GetSchedule(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to fetch profile")
			return
		}
		if profile.Schedule == nil {
			HandleError(c, app.Logger(), errors.New("no schedule configured"), 404, "No schedule")
			return
		}

		HandleSuccess(c, app.Logger(), profile.Schedule, nil)
	}
}

func PutSchedule(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body service.ScheduleRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateScheduleRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		now := time.Now()
		profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			if err != internal.ErrProfileNotFound {
				HandleError(c, app.Logger(), err, 500, "Failed to fetch profile")
				return
			}
			profile = defaultProfile(user, now)
		}

		schedule := &internal.FastingSchedule{
			Enabled:           body.Enabled,
			EatingWindowStart: body.EatingWindowStart,
			EatingWindowEnd:   body.EatingWindowEnd,
			StartDate:         body.StartDate,
		}
		// Keep the dedup marker across edits so a reconfigured schedule
		// cannot auto-start twice on the same day.
		if profile.Schedule != nil {
			schedule.LastAutoStartDate = profile.Schedule.LastAutoStartDate
		}
		profile.Schedule = schedule
		profile.UpdatedAt = now

		if err := app.Profiles().SaveProfile(c.Request.Context(), profile); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save schedule")
			return
		}

		HandleSuccess(c, app.Logger(), schedule, nil)
	}
}

func GetNextTransition(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to fetch profile")
			return
		}

		countdown, ok := service.TimeUntilNextTransition(profile.Schedule, time.Now())
		if !ok {
			HandleError(c, app.Logger(), errors.New("schedule disabled"), 404, "No upcoming transition")
			return
		}

		HandleSuccess(c, app.Logger(), countdown, nil)
	}
}
