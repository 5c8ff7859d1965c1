package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/yourname/fasttrack/internal"
)

// FileStorage keeps everything in memory and persists to JSON files via
// debounced background workers with atomic rename writes.
type FileStorage struct {
	fasts         map[string]*internal.Fast        // id -> Fast
	userFastIndex map[string][]*internal.Fast      // userID -> fasts sorted descending
	profiles      map[string]*internal.UserProfile // userID -> profile
	leaderboard   map[string]*internal.LeaderboardEntry

	mu sync.RWMutex

	fastsFile       string
	profilesFile    string
	leaderboardFile string

	saveFastsChan       chan struct{}
	saveProfilesChan    chan struct{}
	saveLeaderboardChan chan struct{}
	shutdownChan        chan struct{}
	saveDelay           time.Duration

	logger internal.Logger
}

func NewFileStorage(fastsFile, profilesFile, leaderboardFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		fasts:               make(map[string]*internal.Fast),
		userFastIndex:       make(map[string][]*internal.Fast),
		profiles:            make(map[string]*internal.UserProfile),
		leaderboard:         make(map[string]*internal.LeaderboardEntry),
		fastsFile:           fastsFile,
		profilesFile:        profilesFile,
		leaderboardFile:     leaderboardFile,
		saveFastsChan:       make(chan struct{}, 1),
		saveProfilesChan:    make(chan struct{}, 1),
		saveLeaderboardChan: make(chan struct{}, 1),
		shutdownChan:        make(chan struct{}),
		saveDelay:           500 * time.Millisecond,
		logger:              logger,
	}

	if err := s.loadFasts(); err != nil {
		logger.Errorf("storage: failed to load fasts: %v", err)
		return nil, err
	}
	if err := s.loadProfiles(); err != nil {
		logger.Errorf("storage: failed to load profiles: %v", err)
		return nil, err
	}
	if err := s.loadLeaderboard(); err != nil {
		logger.Errorf("storage: failed to load leaderboard: %v", err)
		return nil, err
	}

	go s.saveWorker(s.saveFastsChan, s.saveFasts, "fasts")
	go s.saveWorker(s.saveProfilesChan, s.saveProfiles, "profiles")
	go s.saveWorker(s.saveLeaderboardChan, s.saveLeaderboard, "leaderboard")

	return s, nil
}

func decodeJSONFile[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var items []T
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *FileStorage) loadFasts() error {
	fasts, err := decodeJSONFile[*internal.Fast](s.fastsFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fasts {
		s.fasts[f.ID] = f
		s.userFastIndex[f.UserID] = append(s.userFastIndex[f.UserID], f)
	}
	for userID := range s.userFastIndex {
		sort.Slice(s.userFastIndex[userID], func(i, j int) bool {
			return s.userFastIndex[userID][i].StartTime.After(s.userFastIndex[userID][j].StartTime)
		})
	}
	return nil
}

func (s *FileStorage) loadProfiles() error {
	profiles, err := decodeJSONFile[*internal.UserProfile](s.profilesFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return nil
}

func (s *FileStorage) loadLeaderboard() error {
	entries, err := decodeJSONFile[*internal.LeaderboardEntry](s.leaderboardFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.leaderboard[e.UserID] = e
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveFasts() error {
	s.mu.RLock()
	fasts := make([]*internal.Fast, 0, len(s.fasts))
	for _, f := range s.fasts {
		fasts = append(fasts, f)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.fastsFile, fasts)
}

func (s *FileStorage) saveProfiles() error {
	s.mu.RLock()
	profiles := make([]*internal.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.profilesFile, profiles)
}

func (s *FileStorage) saveLeaderboard() error {
	s.mu.RLock()
	entries := make([]*internal.LeaderboardEntry, 0, len(s.leaderboard))
	for _, e := range s.leaderboard {
		entries = append(entries, e)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.leaderboardFile, entries)
}

func (s *FileStorage) saveWorker(trigger chan struct{}, save func() error, what string) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-trigger:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", what, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func notify(trigger chan struct{}) {
	select {
	case trigger <- struct{}{}:
	default:
	}
}

// Close stops the workers and flushes pending data synchronously.
func (s *FileStorage) Close() error {
	close(s.shutdownChan)

	if err := s.saveFasts(); err != nil {
		return err
	}
	if err := s.saveProfiles(); err != nil {
		return err
	}
	return s.saveLeaderboard()
}

// --- FastRepository ---

func (s *FileStorage) SaveFast(ctx context.Context, fast *internal.Fast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *fast
	if _, exists := s.fasts[cp.ID]; exists {
		s.fasts[cp.ID] = &cp
		idx := s.userFastIndex[cp.UserID]
		for i, existing := range idx {
			if existing.ID == cp.ID {
				idx[i] = &cp
				break
			}
		}
	} else {
		s.fasts[cp.ID] = &cp
		idx := s.userFastIndex[cp.UserID]
		inserted := false
		for i, existing := range idx {
			if existing.StartTime.Before(cp.StartTime) {
				idx = append(idx[:i], append([]*internal.Fast{&cp}, idx[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			idx = append(idx, &cp)
		}
		s.userFastIndex[cp.UserID] = idx
	}

	notify(s.saveFastsChan)
	return nil
}

func (s *FileStorage) GetFast(ctx context.Context, userID, fastID string) (*internal.Fast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fasts[fastID]
	if !ok || f.UserID != userID {
		return nil, internal.ErrFastNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *FileStorage) DeleteFast(ctx context.Context, userID, fastID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fasts[fastID]
	if !ok || f.UserID != userID {
		return internal.ErrFastNotFound
	}
	delete(s.fasts, fastID)
	idx := s.userFastIndex[userID]
	for i, existing := range idx {
		if existing.ID == fastID {
			s.userFastIndex[userID] = append(idx[:i], idx[i+1:]...)
			break
		}
	}
	notify(s.saveFastsChan)
	return nil
}

func (s *FileStorage) ListFasts(ctx context.Context, userID string) ([]internal.Fast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.userFastIndex[userID]
	if !ok {
		return []internal.Fast{}, nil
	}
	fasts := make([]internal.Fast, len(idx))
	for i, f := range idx {
		fasts[i] = *f
	}
	return fasts, nil
}

func (s *FileStorage) ActiveFast(ctx context.Context, userID string) (*internal.Fast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.userFastIndex[userID] {
		if f.Status == internal.FastActive {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

// --- ProfileRepository ---

func (s *FileStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, internal.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *FileStorage) SaveProfile(ctx context.Context, profile *internal.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *profile
	s.profiles[cp.UserID] = &cp
	notify(s.saveProfilesChan)
	return nil
}

func (s *FileStorage) ListScheduledProfiles(ctx context.Context) ([]internal.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []internal.UserProfile
	for _, p := range s.profiles {
		if p.Schedule != nil && p.Schedule.Enabled {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- LeaderboardRepository ---

func (s *FileStorage) UpsertEntry(ctx context.Context, entry *internal.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	if prev, ok := s.leaderboard[cp.UserID]; ok {
		cp.CreatedAt = prev.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}
	s.leaderboard[cp.UserID] = &cp
	notify(s.saveLeaderboardChan)
	return nil
}

func leaderboardField(e *internal.LeaderboardEntry, field string) int {
	switch field {
	case "total_fasts":
		return e.TotalFasts
	case "current_streak":
		return e.CurrentStreak
	case "best_streak":
		return e.BestStreak
	case "longest_fast":
		return e.LongestFast
	default:
		return e.TotalHours
	}
}

func (s *FileStorage) TopEntries(ctx context.Context, field string, limit int) ([]internal.LeaderboardEntry, error) {
	s.mu.RLock()
	var entries []internal.LeaderboardEntry
	for _, e := range s.leaderboard {
		if e.IsPublic {
			entries = append(entries, *e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return leaderboardField(&entries[i], field) > leaderboardField(&entries[j], field)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// --- Compile-time assertions ---
var _ FastRepository = (*FileStorage)(nil)
var _ ProfileRepository = (*FileStorage)(nil)
var _ LeaderboardRepository = (*FileStorage)(nil)
