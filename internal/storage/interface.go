package storage

import (
	"context"

	"github.com/yourname/fasttrack/internal"
)

type FastRepository interface {
	SaveFast(ctx context.Context, fast *internal.Fast) error
	GetFast(ctx context.Context, userID, fastID string) (*internal.Fast, error)
	DeleteFast(ctx context.Context, userID, fastID string) error
	// ListFasts returns the user's fasts sorted by start time descending.
	ListFasts(ctx context.Context, userID string) ([]internal.Fast, error)
	// ActiveFast returns (nil, nil) when the user has no active fast.
	ActiveFast(ctx context.Context, userID string) (*internal.Fast, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error)
	SaveProfile(ctx context.Context, profile *internal.UserProfile) error
	// ListScheduledProfiles returns every profile carrying an enabled
	// fasting schedule, for the auto-start poller.
	ListScheduledProfiles(ctx context.Context) ([]internal.UserProfile, error)
}

type LeaderboardRepository interface {
	UpsertEntry(ctx context.Context, entry *internal.LeaderboardEntry) error
	// TopEntries returns up to limit public entries ordered descending
	// by the given stat field.
	TopEntries(ctx context.Context, field string, limit int) ([]internal.LeaderboardEntry, error)
}
