package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/billing"
)

type checkoutRequest struct {
	Plan string `json:"plan"`
}

func CreateCheckoutSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body checkoutRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if body.Plan != "pro" && body.Plan != "infinite" {
			HandleError(c, app.Logger(), errors.New("plan must be pro or infinite"), 400, "Invalid plan")
			return
		}

		url, err := app.Billing().CreateCheckoutSession(c.Request.Context(), user.ID, body.Plan)
		if err != nil {
			HandleError(c, app.Logger(), err, 502, "Failed to create checkout session")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"url": url}, nil)
	}
}

func CreatePortalSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		profile, err := app.Profiles().GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForDomainError(err), "Failed to fetch profile")
			return
		}
		if profile.Subscription.CustomerID == "" {
			HandleError(c, app.Logger(), errors.New("no billing customer on record"), 404, "No subscription")
			return
		}

		url, err := app.Billing().CreatePortalSession(c.Request.Context(), profile.Subscription.CustomerID)
		if err != nil {
			HandleError(c, app.Logger(), err, 502, "Failed to create portal session")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"url": url}, nil)
	}
}

// BillingWebhook translates provider subscription events into tier
// changes on the profile. It is unauthenticated but guarded by the
// shared webhook secret.
func BillingWebhook(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret := app.Billing().Secret; secret != "" && c.GetHeader("X-Webhook-Secret") != secret {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		var event billing.WebhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid webhook payload")
			return
		}

		tier, ok := billing.TierForEvent(&event)
		if !ok {
			// Unhandled event type; acknowledge so the provider stops retrying.
			HandleSuccess(c, app.Logger(), gin.H{"ignored": event.Type}, nil)
			return
		}
		if event.UserID == "" {
			HandleError(c, app.Logger(), errors.New("event carries no user reference"), 400, "Invalid webhook payload")
			return
		}

		now := time.Now()
		profile, err := app.Profiles().GetProfile(c.Request.Context(), event.UserID)
		if err != nil {
			if err != internal.ErrProfileNotFound {
				HandleError(c, app.Logger(), err, 500, "Failed to fetch profile")
				return
			}
			profile = defaultProfile(&internal.User{ID: event.UserID}, now)
		}

		profile.Subscription = internal.Subscription{
			Tier:       tier,
			CustomerID: event.CustomerID,
			Status:     event.Type,
			UpdatedAt:  now,
		}
		profile.UpdatedAt = now

		if err := app.Profiles().SaveProfile(c.Request.Context(), profile); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to update subscription")
			return
		}

		app.Logger().Infof("billing: user %s moved to tier %s (%s)", event.UserID, tier, event.Type)
		HandleSuccess(c, app.Logger(), gin.H{"tier": tier}, nil)
	}
}
