package scheduler

import (
	"context"
	"time"

	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/service"
	"github.com/yourname/fasttrack/internal/storage"
)

// Scheduler polls enabled fasting schedules and auto-starts fasts when
// the pure evaluator says so. The evaluator itself is side-effect-free;
// this is the host loop that persists lastAutoStartDate synchronously
// after acting, so the next tick cannot double-start.
type Scheduler struct {
	fasts    storage.FastRepository
	profiles storage.ProfileRepository
	interval time.Duration
	logger   internal.Logger
	shutdown chan struct{}
	done     chan struct{}
}

func New(fasts storage.FastRepository, profiles storage.ProfileRepository, interval time.Duration, logger internal.Logger) *Scheduler {
	return &Scheduler{
		fasts:    fasts,
		profiles: profiles,
		interval: interval,
		logger:   logger,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Scheduler) Run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(context.Background(), time.Now())
		case <-s.shutdown:
			return
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.shutdown)
	<-s.done
}

// Tick runs one evaluation pass over every scheduled profile.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	profiles, err := s.profiles.ListScheduledProfiles(ctx)
	if err != nil {
		s.logger.Errorf("scheduler: failed to list scheduled profiles: %v", err)
		return
	}

	for i := range profiles {
		profile := &profiles[i]
		if err := s.evaluateProfile(ctx, profile, now); err != nil {
			s.logger.Errorf("scheduler: auto-start failed for %s: %v", profile.UserID, err)
		}
	}
}

func (s *Scheduler) evaluateProfile(ctx context.Context, profile *internal.UserProfile, now time.Time) error {
	active, err := s.fasts.ActiveFast(ctx, profile.UserID)
	if err != nil {
		return err
	}
	if !service.ShouldAutoStart(profile.Schedule, active != nil, now) {
		return nil
	}

	fast := service.NewAutoStartedFast(profile.Schedule, profile.UserID, profile.PreferredProtocolID, now)
	if err := s.fasts.SaveFast(ctx, fast); err != nil {
		return err
	}

	started := now
	profile.Schedule.LastAutoStartDate = &started
	profile.UpdatedAt = now
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return err
	}

	s.logger.Infof("scheduler: auto-started fast %s for user %s (target %.1fh)", fast.ID, profile.UserID, fast.TargetHours)
	return nil
}
