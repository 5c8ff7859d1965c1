package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
)

func GetStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		fasts, err := app.Fasts().ListFasts(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch fasts for stats")
			return
		}

		stats := service.ComputeDashboardStats(fasts, time.Now())

		meta := map[string]any{}
		if profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID); err == nil {
			meta["daily_goal_hours"] = profile.DailyGoalHours
			meta["weekly_goal_hours"] = profile.WeeklyGoalHours
		} else if err != internal.ErrProfileNotFound {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch profile")
			return
		}

		HandleSuccess(c, app.Logger(), stats, meta)
	}
}
