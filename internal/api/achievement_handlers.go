package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
)

type achievementView struct {
	internal.Achievement
	Unlocked bool `json:"unlocked"`
}

// ListAchievements returns the catalog annotated with the caller's
// unlocked state. A missing profile simply means nothing is unlocked.
func ListAchievements(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var profile *internal.UserProfile
		if p, err := app.Profiles().GetProfile(c.Request.Context(), user.ID); err == nil {
			profile = p
		}

		catalog := service.AchievementCatalog()
		views := make([]achievementView, 0, len(catalog))
		unlockedCount := 0
		for _, a := range catalog {
			unlocked := profile != nil && profile.HasUnlocked(a.ID)
			if unlocked {
				unlockedCount++
			}
			views = append(views, achievementView{Achievement: a, Unlocked: unlocked})
		}

		meta := map[string]any{"unlocked": unlockedCount, "total": len(catalog)}
		HandleSuccess(c, app.Logger(), views, meta)
	}
}
