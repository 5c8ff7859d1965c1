package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
)

func StartFast(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body service.StartFastRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateStartFastRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		fast, err := service.StartFast(c.Request.Context(), app.Fasts(), user, &body, time.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to start fast")
			return
		}

		HandleSuccess(c, app.Logger(), fast, nil)
	}
}

func ListFasts(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		fasts, err := app.Fasts().ListFasts(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch fasts")
			return
		}

		HandleSuccess(c, app.Logger(), fasts, nil)
	}
}

func GetCurrentFast(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		fast, err := app.Fasts().ActiveFast(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch active fast")
			return
		}
		if fast == nil {
			HandleError(c, app.Logger(), internal.ErrFastNotFound, 404, "No active fast")
			return
		}

		elapsed := time.Since(fast.StartTime).Hours()
		zone := service.ZoneForElapsed(elapsed)
		meta := map[string]any{"elapsed_hours": elapsed, "zone": zone}
		HandleSuccess(c, app.Logger(), fast, meta)
	}
}

func EndFast(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		fastID := c.Param("id")

		var body service.EndFastRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEndFastRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		now := time.Now()
		fast, err := service.EndFast(c.Request.Context(), app.Fasts(), user, fastID, &body, now)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to end fast")
			return
		}

		newly, err := unlockAchievements(c.Request.Context(), app, user, now)
		if err != nil {
			// The fast is already completed; surface unlocks on the
			// next evaluation instead of failing the request.
			app.Logger().Errorf("achievement evaluation failed for %s: %v", user.ID, err)
			newly = nil
		}

		meta := map[string]any{}
		if len(newly) > 0 {
			meta["unlocked_achievements"] = newly
		}
		HandleSuccess(c, app.Logger(), fast, meta)
	}
}

// unlockAchievements evaluates the rule engine over the updated history
// and persists the union of previous and new unlocks. It also refreshes
// the leaderboard projection for opted-in profiles.
func unlockAchievements(ctx context.Context, app App, user *internal.User, now time.Time) ([]string, error) {
	fasts, err := app.Fasts().ListFasts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile, err := app.Profiles().GetProfile(ctx, user.ID)
	if err != nil {
		if err != internal.ErrProfileNotFound {
			return nil, err
		}
		profile = defaultProfile(user, now)
	}

	newly := service.EvaluateAchievements(fasts, profile.UnlockedAchievements, now)
	if len(newly) > 0 {
		profile.UnlockedAchievements = append(profile.UnlockedAchievements, newly...)
		profile.UpdatedAt = now
		if err := app.Profiles().SaveProfile(ctx, profile); err != nil {
			return nil, err
		}
	}

	if profile.ShareStats {
		entry := service.ProjectLeaderboardEntry(fasts, profile, now)
		if err := app.Leaderboard().UpsertEntry(ctx, &entry); err != nil {
			app.Logger().Errorf("leaderboard refresh failed for %s: %v", user.ID, err)
		}
	}

	return newly, nil
}

func EditFast(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		fastID := c.Param("id")

		var body service.EditFastRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEditFastRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		fast, err := service.EditFast(c.Request.Context(), app.Fasts(), user, fastID, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to edit fast")
			return
		}

		HandleSuccess(c, app.Logger(), fast, nil)
	}
}

func DeleteFast(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		fastID := c.Param("id")

		if err := service.DeleteFast(c.Request.Context(), app.Fasts(), user, fastID); err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to delete fast")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"deleted": fastID}, nil)
	}
}
