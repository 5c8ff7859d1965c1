package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/fasttrack/internal"
)

func TestZoneForElapsed(t *testing.T) {
	assert.Equal(t, "anabolic", ZoneForElapsed(0).ID)
	assert.Equal(t, "catabolic", ZoneForElapsed(4).ID)
	assert.Equal(t, "fat-burning", ZoneForElapsed(12.5).ID)
	assert.Equal(t, "ketosis", ZoneForElapsed(16).ID)
	assert.Equal(t, "deep-ketosis", ZoneForElapsed(24).ID)
	assert.Equal(t, "deep-ketosis", ZoneForElapsed(70).ID)
}

func TestLookupProtocol(t *testing.T) {
	p, ok := LookupProtocol("16:8", nil)
	assert.True(t, ok)
	assert.Equal(t, 16, p.FastingHours)
	assert.Equal(t, 8, p.EatingHours)

	_, ok = LookupProtocol("nope", nil)
	assert.False(t, ok)

	profile := &internal.UserProfile{
		CustomProtocols: []internal.Protocol{{ID: "c1", Name: "My 19:5", FastingHours: 19, EatingHours: 5, Custom: true}},
	}
	p, ok = LookupProtocol("c1", profile)
	assert.True(t, ok)
	assert.True(t, p.Custom)
}

func TestCreateCustomProtocol_DerivesEatingHours(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile := &internal.UserProfile{UserID: "u1"}

	p := CreateCustomProtocol(profile, &CustomProtocolRequest{Name: "My 20:4", FastingHours: 20}, now)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 4, p.EatingHours)
	assert.True(t, p.Custom)
	assert.Len(t, profile.CustomProtocols, 1)

	// Fasts longer than a day leave no eating window.
	p = CreateCustomProtocol(profile, &CustomProtocolRequest{Name: "Long", FastingHours: 48}, now)
	assert.Equal(t, 0, p.EatingHours)
}

func TestDeleteCustomProtocol_FallsBackToDefault(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile := &internal.UserProfile{UserID: "u1"}
	p := CreateCustomProtocol(profile, &CustomProtocolRequest{Name: "Mine", FastingHours: 19}, now)
	profile.PreferredProtocolID = p.ID

	assert.NoError(t, DeleteCustomProtocol(profile, p.ID, now))
	assert.Empty(t, profile.CustomProtocols)
	assert.Equal(t, DefaultProtocolID, profile.PreferredProtocolID)
}

func TestDeleteCustomProtocol_KeepsUnrelatedSelection(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile := &internal.UserProfile{UserID: "u1", PreferredProtocolID: "omad"}
	p := CreateCustomProtocol(profile, &CustomProtocolRequest{Name: "Mine", FastingHours: 19}, now)

	assert.NoError(t, DeleteCustomProtocol(profile, p.ID, now))
	assert.Equal(t, "omad", profile.PreferredProtocolID)
}

func TestDeleteCustomProtocol_Unknown(t *testing.T) {
	profile := &internal.UserProfile{UserID: "u1"}
	err := DeleteCustomProtocol(profile, "nope", time.Now())
	assert.ErrorIs(t, err, internal.ErrProtocolNotFound)
}

func TestValidateCustomProtocolRequest(t *testing.T) {
	assert.NoError(t, ValidateCustomProtocolRequest(&CustomProtocolRequest{Name: "My", FastingHours: 18}))
	assert.Error(t, ValidateCustomProtocolRequest(&CustomProtocolRequest{FastingHours: 18}))
	assert.Error(t, ValidateCustomProtocolRequest(&CustomProtocolRequest{Name: "My", FastingHours: 80}))
}

func TestFeaturesForTier(t *testing.T) {
	assert.False(t, FeaturesForTier(internal.TierFree).CustomProtocols)
	assert.Equal(t, 10, FeaturesForTier(internal.TierPro).MaxCustomProtocols)
	assert.Equal(t, 100, FeaturesForTier(internal.TierInfinite).MaxCustomProtocols)
	// Unknown tiers degrade to free.
	assert.False(t, FeaturesForTier("mystery").CustomProtocols)
}
