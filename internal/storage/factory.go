package storage

import "github.com/yourname/fasttrack/internal"

// Repositories bundles the three stores a single backend implements.
type Repositories struct {
	Fasts       FastRepository
	Profiles    ProfileRepository
	Leaderboard LeaderboardRepository
	Closer      interface{ Close() error }
}

func NewFileRepositories(fastsFile, profilesFile, leaderboardFile string, logger internal.Logger) (*Repositories, error) {
	s, err := NewFileStorage(fastsFile, profilesFile, leaderboardFile, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Fasts: s, Profiles: s, Leaderboard: s, Closer: s}, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (*Repositories, error) {
	s, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Fasts: s, Profiles: s, Leaderboard: s, Closer: s}, nil
}
