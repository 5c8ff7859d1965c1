package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/fasttrack/internal"
)

func TestTierForEvent(t *testing.T) {
	tier, ok := TierForEvent(&WebhookEvent{Type: "subscription.created", Plan: "pro"})
	assert.True(t, ok)
	assert.Equal(t, internal.TierPro, tier)

	tier, ok = TierForEvent(&WebhookEvent{Type: "subscription.updated", Plan: "lifetime"})
	assert.True(t, ok)
	assert.Equal(t, internal.TierInfinite, tier)

	tier, ok = TierForEvent(&WebhookEvent{Type: "subscription.created", Plan: "infinite"})
	assert.True(t, ok)
	assert.Equal(t, internal.TierInfinite, tier)

	tier, ok = TierForEvent(&WebhookEvent{Type: "subscription.deleted"})
	assert.True(t, ok)
	assert.Equal(t, internal.TierFree, tier)

	tier, ok = TierForEvent(&WebhookEvent{Type: "subscription.expired"})
	assert.True(t, ok)
	assert.Equal(t, internal.TierFree, tier)

	_, ok = TierForEvent(&WebhookEvent{Type: "invoice.paid"})
	assert.False(t, ok)
}

func TestClientEnabled(t *testing.T) {
	assert.False(t, NewClient("", "", internal.NewNopLogger()).Enabled())
	assert.True(t, NewClient("https://billing.example.com", "s", internal.NewNopLogger()).Enabled())
}
