package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
)

const defaultLeaderboardLimit = 25

func GetLeaderboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		field := c.DefaultQuery("sort", "total_hours")
		limit := defaultLeaderboardLimit
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		entries, err := app.Leaderboard().TopEntries(c.Request.Context(), field, limit)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch leaderboard")
			return
		}

		HandleSuccess(c, app.Logger(), entries, map[string]any{"sort": field})
	}
}

// PublishLeaderboardEntry recomputes the caller's ranking record from
// their full history and replaces the stored entry.
func PublishLeaderboardEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		ctx := c.Request.Context()

		profile, err := app.Profiles().GetProfile(ctx, user.ID)
		if err != nil {
			if err != internal.ErrProfileNotFound {
				HandleError(c, app.Logger(), err, 500, "Failed to fetch profile")
				return
			}
			profile = defaultProfile(user, time.Now())
		}

		fasts, err := app.Fasts().ListFasts(ctx, user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch fasts")
			return
		}

		entry := service.ProjectLeaderboardEntry(fasts, profile, time.Now())
		if err := app.Leaderboard().UpsertEntry(ctx, &entry); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to publish entry")
			return
		}

		HandleSuccess(c, app.Logger(), entry, nil)
	}
}
