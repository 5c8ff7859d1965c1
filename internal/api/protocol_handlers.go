package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
)

func ListProtocols(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		protocols := service.BuiltinProtocols()
		if profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID); err == nil {
			protocols = append(protocols, profile.CustomProtocols...)
		}

		HandleSuccess(c, app.Logger(), protocols, nil)
	}
}

func ListFastingZones(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := map[string]any{}
		if raw := c.Query("elapsed_hours"); raw != "" {
			if hours, err := strconv.ParseFloat(raw, 64); err == nil && hours >= 0 {
				meta["current_zone"] = service.ZoneForElapsed(hours)
			}
		}
		HandleSuccess(c, app.Logger(), service.FastingZones(), meta)
	}
}

func CreateProtocol(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body service.CustomProtocolRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateCustomProtocolRequest(&body); err != nil {
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

		features := service.FeaturesForTier(profile.Subscription.Tier)
		if !features.CustomProtocols {
			HandleError(c, app.Logger(), errors.New("custom protocols require a Pro subscription"), 403, "Upgrade required")
			return
		}
		if len(profile.CustomProtocols) >= features.MaxCustomProtocols {
			HandleError(c, app.Logger(), errors.New("custom protocol limit reached"), 403, "Limit reached")
			return
		}

		protocol := service.CreateCustomProtocol(profile, &body, now)
		if err := app.Profiles().SaveProfile(c.Request.Context(), profile); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save protocol")
			return
		}

		HandleSuccess(c, app.Logger(), protocol, nil)
	}
}

func DeleteProtocol(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		protocolID := c.Param("id")

		profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to fetch profile")
			return
		}

		if err := service.DeleteCustomProtocol(profile, protocolID, time.Now()); err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to delete protocol")
			return
		}
		if err := app.Profiles().SaveProfile(c.Request.Context(), profile); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save profile")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"deleted": protocolID, "preferred_protocol_id": profile.PreferredProtocolID}, nil)
	}
}
