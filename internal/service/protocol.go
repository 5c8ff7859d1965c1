package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourname/fasttrack/internal"
)

// DefaultProtocolID is the fallback whenever a selected protocol goes away.
const DefaultProtocolID = "16:8"

var builtinProtocols = []internal.Protocol{
	{ID: "16:8", Name: "16:8", FastingHours: 16, EatingHours: 8},
	{ID: "18:6", Name: "18:6", FastingHours: 18, EatingHours: 6},
	{ID: "20:4", Name: "20:4 Warrior", FastingHours: 20, EatingHours: 4},
	{ID: "omad", Name: "OMAD", FastingHours: 23, EatingHours: 1},
	{ID: "36h", Name: "36h Monk Fast", FastingHours: 36, EatingHours: 0},
}

// FastingZone is a named metabolic phase keyed by elapsed fasting hours.
// Purely presentational; EndHour 0 means open-ended.
type FastingZone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Tip       string `json:"tip"`
}

var fastingZones = []FastingZone{
	{ID: "anabolic", Name: "Anabolic", StartHour: 0, EndHour: 4, Tip: "Your body is still digesting the last meal."},
	{ID: "catabolic", Name: "Catabolic", StartHour: 4, EndHour: 12, Tip: "Blood sugar drops and stored glycogen takes over."},
	{ID: "fat-burning", Name: "Fat Burning", StartHour: 12, EndHour: 16, Tip: "Glycogen is running out; fat becomes the main fuel."},
	{ID: "ketosis", Name: "Ketosis", StartHour: 16, EndHour: 24, Tip: "Ketone production ramps up. Stay hydrated."},
	{ID: "deep-ketosis", Name: "Deep Ketosis", StartHour: 24, EndHour: 0, Tip: "Autophagy increases. Break the fast gently."},
}

func BuiltinProtocols() []internal.Protocol {
	out := make([]internal.Protocol, len(builtinProtocols))
	copy(out, builtinProtocols)
	return out
}

func FastingZones() []FastingZone {
	out := make([]FastingZone, len(fastingZones))
	copy(out, fastingZones)
	return out
}

// ZoneForElapsed returns the zone matching the elapsed fasting hours.
func ZoneForElapsed(hours float64) FastingZone {
	for _, z := range fastingZones {
		if hours >= float64(z.StartHour) && (z.EndHour == 0 || hours < float64(z.EndHour)) {
			return z
		}
	}
	return fastingZones[0]
}

// LookupProtocol resolves a protocol id against built-ins and the
// profile's custom protocols.
func LookupProtocol(id string, profile *internal.UserProfile) (internal.Protocol, bool) {
	for _, p := range builtinProtocols {
		if p.ID == id {
			return p, true
		}
	}
	if profile != nil {
		for _, p := range profile.CustomProtocols {
			if p.ID == id {
				return p, true
			}
		}
	}
	return internal.Protocol{}, false
}

type CustomProtocolRequest struct {
	Name         string `json:"name" validate:"required,max=60"`
	FastingHours int    `json:"fasting_hours" validate:"required,gte=1,lte=72"`
}

func ValidateCustomProtocolRequest(req *CustomProtocolRequest) error {
	return validate.Struct(req)
}

// CreateCustomProtocol appends a user-defined protocol to the profile.
// Eating hours are derived; a fast longer than a day leaves no window.
func CreateCustomProtocol(profile *internal.UserProfile, req *CustomProtocolRequest, now time.Time) internal.Protocol {
	eating := 24 - req.FastingHours
	if eating < 0 {
		eating = 0
	}
	p := internal.Protocol{
		ID:           uuid.NewString(),
		Name:         req.Name,
		FastingHours: req.FastingHours,
		EatingHours:  eating,
		Custom:       true,
	}
	profile.CustomProtocols = append(profile.CustomProtocols, p)
	profile.UpdatedAt = now
	return p
}

// DeleteCustomProtocol removes a custom protocol. If it was the
// preferred one, selection falls back to the default protocol.
func DeleteCustomProtocol(profile *internal.UserProfile, id string, now time.Time) error {
	idx := -1
	for i, p := range profile.CustomProtocols {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return internal.ErrProtocolNotFound
	}
	profile.CustomProtocols = append(profile.CustomProtocols[:idx], profile.CustomProtocols[idx+1:]...)
	if profile.PreferredProtocolID == id {
		profile.PreferredProtocolID = DefaultProtocolID
	}
	profile.UpdatedAt = now
	return nil
}
