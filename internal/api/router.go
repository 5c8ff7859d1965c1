package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal/auth"
	"github.com/yourname/fasttrack/internal/config"
)

// RegisterRoutes wires every handler onto the engine. The billing
// webhook stays outside the auth middleware; the provider calls it with
// the shared secret instead of a user token.
func RegisterRoutes(r *gin.Engine, app App, provider auth.Provider, cfg *config.Config) {
	r.Use(RequestIDMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/billing/webhook", BillingWebhook(app))

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware(provider, cfg))

	protected.POST("/fasts", StartFast(app))
	protected.GET("/fasts", ListFasts(app))
	protected.GET("/fasts/current", GetCurrentFast(app))
	protected.POST("/fasts/:id/end", EndFast(app))
	protected.PATCH("/fasts/:id", EditFast(app))
	protected.DELETE("/fasts/:id", DeleteFast(app))

	protected.GET("/stats", GetStats(app))

	protected.GET("/protocols", ListProtocols(app))
	protected.GET("/protocols/zones", ListFastingZones(app))
	protected.POST("/protocols", CreateProtocol(app))
	protected.DELETE("/protocols/:id", DeleteProtocol(app))

	protected.GET("/schedule", GetSchedule(app))
	protected.PUT("/schedule", PutSchedule(app))
	protected.GET("/schedule/next", GetNextTransition(app))

	protected.GET("/achievements", ListAchievements(app))

	protected.GET("/leaderboard", GetLeaderboard(app))
	protected.POST("/leaderboard/publish", PublishLeaderboardEntry(app))

	protected.GET("/profile", GetProfile(app))
	protected.PUT("/profile", PutProfile(app))
	protected.DELETE("/profile/data", ClearProfileData(app))

	protected.POST("/billing/checkout", CreateCheckoutSession(app))
	protected.POST("/billing/portal", CreatePortalSession(app))
}
