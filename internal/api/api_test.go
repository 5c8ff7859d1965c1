package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/auth"
	"github.com/yourname/fasttrack/internal/billing"
	"github.com/yourname/fasttrack/internal/config"
	"github.com/yourname/fasttrack/internal/storage"
)

const (
	testToken         = "MOCK-TOKEN"
	testWebhookSecret = "hook-secret"
)

func setupRouter(t *testing.T) (*gin.Engine, *storage.Repositories) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	logger := internal.NewNopLogger()

	repos, err := storage.NewFileRepositories(
		filepath.Join(dir, "fasts.json"),
		filepath.Join(dir, "profiles.json"),
		filepath.Join(dir, "leaderboard.json"),
		logger,
	)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = repos.Closer.Close() })

	cfg := &config.Config{Env: "development", AuthToken: testToken}
	app := NewApp(logger, repos, billing.NewClient("", testWebhookSecret, logger))
	provider := auth.NewLocalAuthProvider(testToken, logger)

	r := gin.New()
	RegisterRoutes(r, app, provider, cfg)
	return r, repos
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) (map[string]any, map[string]any) {
	var resp struct {
		Data map[string]any `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data, resp.Meta
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupRouter(t)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/fasts", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/fasts", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)
}

func TestFastEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	// No active fast yet.
	w := doRequest(t, r, "GET", "/fasts/current", "")
	assert.Equal(t, 404, w.Code)

	// Start a fast.
	w = doRequest(t, r, "POST", "/fasts", `{"protocol_id":"16:8","target_hours":16}`)
	assert.Equal(t, 200, w.Code)
	data, _ := decodeData(t, w)
	fastID := data["id"].(string)
	assert.Equal(t, "active", data["status"])

	// A second start conflicts.
	w = doRequest(t, r, "POST", "/fasts", `{}`)
	assert.Equal(t, 409, w.Code)

	// The current fast reports its zone.
	w = doRequest(t, r, "GET", "/fasts/current", "")
	assert.Equal(t, 200, w.Code)
	_, meta := decodeData(t, w)
	assert.Contains(t, meta, "zone")

	// End it; the first completed fast unlocks first_fast.
	w = doRequest(t, r, "POST", "/fasts/"+fastID+"/end", `{"mood":4}`)
	assert.Equal(t, 200, w.Code)
	data, meta = decodeData(t, w)
	assert.Equal(t, "completed", data["status"])
	assert.Contains(t, meta["unlocked_achievements"], "first_fast")

	// Editing works on the completed fast.
	w = doRequest(t, r, "PATCH", "/fasts/"+fastID, `{"notes":"smooth"}`)
	assert.Equal(t, 200, w.Code)
	data, _ = decodeData(t, w)
	assert.Equal(t, "smooth", data["notes"])

	// Invalid mood is rejected.
	w = doRequest(t, r, "PATCH", "/fasts/"+fastID, `{"mood":9}`)
	assert.Equal(t, 400, w.Code)

	// Delete and confirm it is gone.
	w = doRequest(t, r, "DELETE", "/fasts/"+fastID, "")
	assert.Equal(t, 200, w.Code)
	w = doRequest(t, r, "DELETE", "/fasts/"+fastID, "")
	assert.Equal(t, 404, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "POST", "/fasts", `{"target_hours":16}`)
	assert.Equal(t, 200, w.Code)
	data, _ := decodeData(t, w)
	fastID := data["id"].(string)
	w = doRequest(t, r, "POST", "/fasts/"+fastID+"/end", `{}`)
	assert.Equal(t, 200, w.Code)

	w = doRequest(t, r, "GET", "/stats", "")
	assert.Equal(t, 200, w.Code)
	data, _ = decodeData(t, w)
	assert.Equal(t, float64(1), data["total_fasts"])
	assert.Equal(t, float64(1), data["current_streak"])
}

func TestProtocolEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "GET", "/protocols", "")
	assert.Equal(t, 200, w.Code)
	var listResp struct {
		Data []internal.Protocol `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 5)

	// Free tier cannot create custom protocols.
	w = doRequest(t, r, "POST", "/protocols", `{"name":"Mine","fasting_hours":19}`)
	assert.Equal(t, 403, w.Code)

	w = doRequest(t, r, "GET", "/protocols/zones?elapsed_hours=17", "")
	assert.Equal(t, 200, w.Code)
	var zoneResp struct {
		Meta struct {
			CurrentZone struct {
				ID string `json:"id"`
			} `json:"current_zone"`
		} `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &zoneResp))
	assert.Equal(t, "ketosis", zoneResp.Meta.CurrentZone.ID)
}

func TestCustomProtocolsForProTier(t *testing.T) {
	r, _ := setupRouter(t)

	// Upgrade via the billing webhook, then create a custom protocol.
	w := httptest.NewRecorder()
	body := `{"type":"subscription.created","client_reference_id":"u1","customer_id":"cus_1","plan":"pro"}`
	req, _ := http.NewRequest("POST", "/billing/webhook", strings.NewReader(body))
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	w2 := doRequest(t, r, "POST", "/protocols", `{"name":"My 19:5","fasting_hours":19}`)
	assert.Equal(t, 200, w2.Code)
	data, _ := decodeData(t, w2)
	protocolID := data["id"].(string)
	assert.Equal(t, float64(5), data["eating_hours"])

	// Deleting the selected protocol falls back to the default.
	w2 = doRequest(t, r, "DELETE", "/protocols/"+protocolID, "")
	assert.Equal(t, 200, w2.Code)
	data, _ = decodeData(t, w2)
	assert.Equal(t, "16:8", data["preferred_protocol_id"])
}

func TestScheduleEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "GET", "/schedule", "")
	assert.Equal(t, 404, w.Code)

	body := `{"enabled":true,"eating_window_start":"12:00","eating_window_end":"20:00","start_date":"2026-03-01T00:00:00Z"}`
	w = doRequest(t, r, "PUT", "/schedule", body)
	assert.Equal(t, 200, w.Code)

	w = doRequest(t, r, "GET", "/schedule", "")
	assert.Equal(t, 200, w.Code)
	data, _ := decodeData(t, w)
	assert.Equal(t, true, data["enabled"])

	w = doRequest(t, r, "GET", "/schedule/next", "")
	assert.Equal(t, 200, w.Code)

	// Malformed window times are rejected.
	w = doRequest(t, r, "PUT", "/schedule", `{"enabled":true,"eating_window_start":"12:00","eating_window_end":"26:00","start_date":"2026-03-01T00:00:00Z"}`)
	assert.Equal(t, 400, w.Code)
}

func TestAchievementEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "GET", "/achievements", "")
	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data []struct {
			ID       string `json:"id"`
			Unlocked bool   `json:"unlocked"`
		} `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp.Meta["unlocked"])
	assert.NotEmpty(t, resp.Data)

	// Complete one fast, then first_fast shows as unlocked.
	w = doRequest(t, r, "POST", "/fasts", `{}`)
	assert.Equal(t, 200, w.Code)
	data, _ := decodeData(t, w)
	w = doRequest(t, r, "POST", "/fasts/"+data["id"].(string)+"/end", `{}`)
	assert.Equal(t, 200, w.Code)

	w = doRequest(t, r, "GET", "/achievements", "")
	assert.Equal(t, 200, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	found := false
	for _, a := range resp.Data {
		if a.ID == "first_fast" {
			found = true
			assert.True(t, a.Unlocked)
		}
	}
	assert.True(t, found)
}

func TestLeaderboardEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	// Opt in to sharing, then publish.
	w := doRequest(t, r, "PUT", "/profile", `{"display_name":"Faster One","share_stats":true}`)
	assert.Equal(t, 200, w.Code)

	w = doRequest(t, r, "POST", "/leaderboard/publish", "")
	assert.Equal(t, 200, w.Code)

	w = doRequest(t, r, "GET", "/leaderboard", "")
	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data []internal.LeaderboardEntry `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "Faster One", resp.Data[0].DisplayName)
}

func TestProfileEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "GET", "/profile", "")
	assert.Equal(t, 404, w.Code)

	w = doRequest(t, r, "PUT", "/profile", `{"display_name":"Test","daily_goal_hours":18}`)
	assert.Equal(t, 200, w.Code)

	w = doRequest(t, r, "GET", "/profile", "")
	assert.Equal(t, 200, w.Code)
	data, meta := decodeData(t, w)
	assert.Equal(t, "Test", data["display_name"])
	assert.Equal(t, float64(18), data["daily_goal_hours"])
	assert.Contains(t, meta, "features")

	// An unknown preferred protocol is rejected.
	w = doRequest(t, r, "PUT", "/profile", `{"preferred_protocol_id":"nope"}`)
	assert.Equal(t, 404, w.Code)

	// Wiping data removes fasts but keeps the account reachable.
	w = doRequest(t, r, "POST", "/fasts", `{}`)
	assert.Equal(t, 200, w.Code)
	w = doRequest(t, r, "DELETE", "/profile/data", "")
	assert.Equal(t, 200, w.Code)
	w = doRequest(t, r, "GET", "/fasts/current", "")
	assert.Equal(t, 404, w.Code)
}

func TestBillingWebhook(t *testing.T) {
	r, repos := setupRouter(t)

	body := `{"type":"subscription.created","client_reference_id":"u1","customer_id":"cus_1","plan":"lifetime"}`

	// Wrong secret is rejected.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/billing/webhook", strings.NewReader(body))
	req.Header.Set("X-Webhook-Secret", "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	// Lifetime plans map to the infinite tier.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/billing/webhook", strings.NewReader(body))
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	profile, err := repos.Profiles.GetProfile(req.Context(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, internal.TierInfinite, profile.Subscription.Tier)
	assert.Equal(t, "cus_1", profile.Subscription.CustomerID)

	// Cancellation drops back to free.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/billing/webhook", strings.NewReader(`{"type":"subscription.deleted","client_reference_id":"u1"}`))
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	profile, err = repos.Profiles.GetProfile(req.Context(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, internal.TierFree, profile.Subscription.Tier)

	// Unknown event types are acknowledged, not failed.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/billing/webhook", strings.NewReader(`{"type":"invoice.paid","client_reference_id":"u1"}`))
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
}
