package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/storage"
)

var validate = validator.New()

type StartFastRequest struct {
	ProtocolID  string  `json:"protocol_id" validate:"omitempty,max=64"`
	TargetHours float64 `json:"target_hours" validate:"omitempty,gt=0,lte=168"`
	Notes       string  `json:"notes" validate:"omitempty,max=500"`
}

type EndFastRequest struct {
	Mood        *int `json:"mood" validate:"omitempty,gte=1,lte=5"`
	EnergyLevel *int `json:"energy_level" validate:"omitempty,gte=1,lte=5"`
}

type EditFastRequest struct {
	Mood        *int    `json:"mood" validate:"omitempty,gte=1,lte=5"`
	EnergyLevel *int    `json:"energy_level" validate:"omitempty,gte=1,lte=5"`
	Notes       *string `json:"notes" validate:"omitempty,max=500"`
}

func ValidateStartFastRequest(req *StartFastRequest) error { return validate.Struct(req) }
func ValidateEndFastRequest(req *EndFastRequest) error     { return validate.Struct(req) }
func ValidateEditFastRequest(req *EditFastRequest) error   { return validate.Struct(req) }

// StartFast creates an active fast. At most one fast per user may be
// active; a second start is a precondition violation, not a merge.
func StartFast(ctx context.Context, repo storage.FastRepository, user *internal.User, req *StartFastRequest, now time.Time) (*internal.Fast, error) {
	active, err := repo.ActiveFast(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, internal.ErrFastAlreadyActive
	}
	fast := &internal.Fast{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		StartTime:   now,
		Status:      internal.FastActive,
		ProtocolID:  req.ProtocolID,
		TargetHours: req.TargetHours,
		Notes:       req.Notes,
		CreatedAt:   now,
	}
	if err := repo.SaveFast(ctx, fast); err != nil {
		return nil, err
	}
	return fast, nil
}

// EndFast completes an active fast, fixing its duration in rounded
// minutes. Mood and energy are optional here and editable later.
func EndFast(ctx context.Context, repo storage.FastRepository, user *internal.User, fastID string, req *EndFastRequest, now time.Time) (*internal.Fast, error) {
	fast, err := repo.GetFast(ctx, user.ID, fastID)
	if err != nil {
		return nil, err
	}
	if fast.Status != internal.FastActive {
		return nil, internal.ErrFastNotActive
	}
	end := now
	fast.EndTime = &end
	fast.Duration = int(math.Round(now.Sub(fast.StartTime).Minutes()))
	fast.Status = internal.FastCompleted
	if req.Mood != nil {
		fast.Mood = req.Mood
	}
	if req.EnergyLevel != nil {
		fast.EnergyLevel = req.EnergyLevel
	}
	if err := repo.SaveFast(ctx, fast); err != nil {
		return nil, err
	}
	return fast, nil
}

// EditFast applies a partial update to a completed fast. Absent fields
// are left unchanged; start/end/duration are immutable after completion.
func EditFast(ctx context.Context, repo storage.FastRepository, user *internal.User, fastID string, req *EditFastRequest) (*internal.Fast, error) {
	fast, err := repo.GetFast(ctx, user.ID, fastID)
	if err != nil {
		return nil, err
	}
	if fast.Status != internal.FastCompleted {
		return nil, internal.ErrFastNotCompleted
	}
	if req.Mood != nil {
		fast.Mood = req.Mood
	}
	if req.EnergyLevel != nil {
		fast.EnergyLevel = req.EnergyLevel
	}
	if req.Notes != nil {
		fast.Notes = *req.Notes
	}
	if err := repo.SaveFast(ctx, fast); err != nil {
		return nil, err
	}
	return fast, nil
}

// DeleteFast removes a completed fast. Active fasts must be ended first.
func DeleteFast(ctx context.Context, repo storage.FastRepository, user *internal.User, fastID string) error {
	fast, err := repo.GetFast(ctx, user.ID, fastID)
	if err != nil {
		return err
	}
	if fast.Status != internal.FastCompleted {
		return internal.ErrFastNotCompleted
	}
	return repo.DeleteFast(ctx, user.ID, fastID)
}
