package api

import (
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/billing"
	"github.com/yourname/fasttrack/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Fasts() storage.FastRepository
	Profiles() storage.ProfileRepository
	Leaderboard() storage.LeaderboardRepository
	Billing() *billing.Client
}

type app struct {
	logger  internal.Logger
	repos   *storage.Repositories
	billing *billing.Client
}

func NewApp(logger internal.Logger, repos *storage.Repositories, billingClient *billing.Client) App {
	return &app{logger: logger, repos: repos, billing: billingClient}
}

func (a *app) Logger() internal.Logger                    { return a.logger }
func (a *app) Fasts() storage.FastRepository              { return a.repos.Fasts }
func (a *app) Profiles() storage.ProfileRepository        { return a.repos.Profiles }
func (a *app) Leaderboard() storage.LeaderboardRepository { return a.repos.Leaderboard }
func (a *app) Billing() *billing.Client                   { return a.billing }
