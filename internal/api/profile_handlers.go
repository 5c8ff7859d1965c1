package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
)

func defaultProfile(user *internal.User, now time.Time) *internal.UserProfile {
	return &internal.UserProfile{
		UserID:              user.ID,
		DisplayName:         user.Name,
		DailyGoalHours:      16,
		WeeklyGoalHours:     90,
		PreferredProtocolID: service.DefaultProtocolID,
		Subscription:        internal.Subscription{Tier: internal.TierFree, UpdatedAt: now},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to fetch profile")
			return
		}

		meta := map[string]any{"features": service.FeaturesForTier(profile.Subscription.Tier)}
		HandleSuccess(c, app.Logger(), profile, meta)
	}
}

func PutProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body service.ProfileRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateProfileRequest(&body); err != nil {
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

		if body.DisplayName != "" {
			profile.DisplayName = body.DisplayName
		}
		if body.DailyGoalHours > 0 {
			profile.DailyGoalHours = body.DailyGoalHours
		}
		if body.WeeklyGoalHours > 0 {
			profile.WeeklyGoalHours = body.WeeklyGoalHours
		}
		if body.PreferredProtocolID != "" {
			if _, ok := service.LookupProtocol(body.PreferredProtocolID, profile); !ok {
				HandleError(c, app.Logger(), internal.ErrProtocolNotFound, 404, "Unknown protocol")
				return
			}
			profile.PreferredProtocolID = body.PreferredProtocolID
		}
		if body.WeightKg != nil {
			profile.WeightKg = body.WeightKg
		}
		if body.GoalWeightKg != nil {
			profile.GoalWeightKg = body.GoalWeightKg
		}
		if body.OnboardingComplete != nil {
			profile.OnboardingComplete = *body.OnboardingComplete
		}
		if body.ShareStats != nil {
			profile.ShareStats = *body.ShareStats
		}
		profile.UpdatedAt = now

		if err := app.Profiles().SaveProfile(c.Request.Context(), profile); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save profile")
			return
		}

		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

// ClearProfileData is the explicit "clear all data" operation: it wipes
// the user's fast history and resets the profile to defaults, keeping
// only the subscription record.
func ClearProfileData(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		ctx := c.Request.Context()

		fasts, err := app.Fasts().ListFasts(ctx, user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch fasts")
			return
		}
		for _, f := range fasts {
			if err := app.Fasts().DeleteFast(ctx, user.ID, f.ID); err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to delete fast history")
				return
			}
		}

		now := time.Now()
		fresh := defaultProfile(user, now)
		if prev, err := app.Profiles().GetProfile(ctx, user.ID); err == nil {
			fresh.Subscription = prev.Subscription
			fresh.CreatedAt = prev.CreatedAt
		}
		if err := app.Profiles().SaveProfile(ctx, fresh); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to reset profile")
			return
		}

		HandleSuccess(c, app.Logger(), fresh, map[string]any{"deleted_fasts": len(fasts)})
	}
}
