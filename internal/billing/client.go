package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yourname/fasttrack/internal"
)

// Client is a thin proxy to the hosted billing provider. The provider's
// protocol is opaque here: we create sessions and map webhook events to
// subscription tiers, nothing more.
type Client struct {
	BaseURL    string
	Secret     string
	HTTPClient *http.Client
	logger     internal.Logger
}

func NewClient(baseURL, secret string, logger internal.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		Secret:     secret,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Enabled reports whether a billing provider is configured. Without one
// every user stays on the free tier.
func (c *Client) Enabled() bool {
	return c.BaseURL != ""
}

type sessionResponse struct {
	URL string `json:"url"`
}

func (c *Client) post(ctx context.Context, path string, payload any) (*sessionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		c.logger.Errorf("billing: failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Secret)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Errorf("billing: provider call failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Errorf("billing: provider returned %d for %s", resp.StatusCode, path)
		return nil, fmt.Errorf("billing provider returned %d", resp.StatusCode)
	}
	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateCheckoutSession starts a subscription purchase for the user and
// returns the provider-hosted checkout URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, userID, plan string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("billing is not configured")
	}
	session, err := c.post(ctx, "/checkout/sessions", map[string]string{
		"client_reference_id": userID,
		"plan":                plan,
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// CreatePortalSession returns the provider-hosted management portal URL
// for an existing customer.
func (c *Client) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("billing is not configured")
	}
	session, err := c.post(ctx, "/portal/sessions", map[string]string{
		"customer_id": customerID,
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// WebhookEvent is the provider event shape we care about; everything
// else in the payload is ignored.
type WebhookEvent struct {
	Type       string `json:"type"`
	UserID     string `json:"client_reference_id"`
	CustomerID string `json:"customer_id"`
	Plan       string `json:"plan"`
}

// TierForEvent maps a provider event to the resulting subscription
// tier. The second return is false for events that do not change tier.
func TierForEvent(ev *WebhookEvent) (internal.SubscriptionTier, bool) {
	switch ev.Type {
	case "subscription.created", "subscription.updated":
		switch ev.Plan {
		case "infinite", "lifetime":
			return internal.TierInfinite, true
		default:
			return internal.TierPro, true
		}
	case "subscription.deleted", "subscription.expired":
		return internal.TierFree, true
	default:
		return "", false
	}
}
