package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/fasttrack/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- FastRepository ---

func (p *PostgresStorage) SaveFast(ctx context.Context, f *internal.Fast) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO fasts (id, user_id, start_time, end_time, duration, status, protocol_id, target_hours, schedule_started, notes, mood, energy_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			duration = EXCLUDED.duration,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			mood = EXCLUDED.mood,
			energy_level = EXCLUDED.energy_level`,
		f.ID, f.UserID, f.StartTime, f.EndTime, f.Duration, f.Status, f.ProtocolID,
		f.TargetHours, f.ScheduleStarted, f.Notes, f.Mood, f.EnergyLevel, f.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to save fast: %v", err)
		return err
	}
	return nil
}

func scanFast(row pgx.Row) (*internal.Fast, error) {
	var f internal.Fast
	err := row.Scan(&f.ID, &f.UserID, &f.StartTime, &f.EndTime, &f.Duration, &f.Status,
		&f.ProtocolID, &f.TargetHours, &f.ScheduleStarted, &f.Notes, &f.Mood, &f.EnergyLevel, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

const fastColumns = `id, user_id, start_time, end_time, duration, status, protocol_id, target_hours, schedule_started, notes, mood, energy_level, created_at`

func (p *PostgresStorage) GetFast(ctx context.Context, userID, fastID string) (*internal.Fast, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+fastColumns+` FROM fasts WHERE id = $1 AND user_id = $2`, fastID, userID)
	f, err := scanFast(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrFastNotFound
		}
		p.logger.Errorf("failed to get fast: %v", err)
		return nil, err
	}
	return f, nil
}

func (p *PostgresStorage) DeleteFast(ctx context.Context, userID, fastID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM fasts WHERE id = $1 AND user_id = $2`, fastID, userID)
	if err != nil {
		p.logger.Errorf("failed to delete fast: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrFastNotFound
	}
	return nil
}

func (p *PostgresStorage) ListFasts(ctx context.Context, userID string) ([]internal.Fast, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+fastColumns+` FROM fasts WHERE user_id = $1 ORDER BY start_time DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query fasts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var fasts []internal.Fast
	for rows.Next() {
		f, err := scanFast(rows)
		if err != nil {
			p.logger.Errorf("failed to scan fast: %v", err)
			return nil, err
		}
		fasts = append(fasts, *f)
	}
	return fasts, rows.Err()
}

func (p *PostgresStorage) ActiveFast(ctx context.Context, userID string) (*internal.Fast, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+fastColumns+` FROM fasts WHERE user_id = $1 AND status = 'active' LIMIT 1`, userID)
	f, err := scanFast(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		p.logger.Errorf("failed to get active fast: %v", err)
		return nil, err
	}
	return f, nil
}

// --- ProfileRepository ---
// Profiles are stored as a single JSONB document per user; the schema
// stays stable while optional profile fields evolve.

func (p *PostgresStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM profiles WHERE user_id = $1`, userID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrProfileNotFound
		}
		p.logger.Errorf("failed to get profile: %v", err)
		return nil, err
	}
	var profile internal.UserProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("corrupt profile document for %s: %w", userID, err)
	}
	return &profile, nil
}

func (p *PostgresStorage) SaveProfile(ctx context.Context, profile *internal.UserProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, doc) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc`,
		profile.UserID, doc)
	if err != nil {
		p.logger.Errorf("failed to save profile: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListScheduledProfiles(ctx context.Context) ([]internal.UserProfile, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT doc FROM profiles WHERE doc -> 'schedule' ->> 'enabled' = 'true'`)
	if err != nil {
		p.logger.Errorf("failed to query scheduled profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []internal.UserProfile
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var profile internal.UserProfile
		if err := json.Unmarshal(doc, &profile); err != nil {
			p.logger.Errorf("skipping corrupt profile document: %v", err)
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// --- LeaderboardRepository ---

func (p *PostgresStorage) UpsertEntry(ctx context.Context, e *internal.LeaderboardEntry) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO leaderboard (user_id, display_name, total_fasts, total_hours, current_streak, best_streak, longest_fast, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			total_fasts = EXCLUDED.total_fasts,
			total_hours = EXCLUDED.total_hours,
			current_streak = EXCLUDED.current_streak,
			best_streak = EXCLUDED.best_streak,
			longest_fast = EXCLUDED.longest_fast,
			is_public = EXCLUDED.is_public,
			updated_at = EXCLUDED.updated_at`,
		e.UserID, e.DisplayName, e.TotalFasts, e.TotalHours, e.CurrentStreak,
		e.BestStreak, e.LongestFast, e.IsPublic, e.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert leaderboard entry: %v", err)
		return err
	}
	return nil
}

var leaderboardColumns = map[string]string{
	"total_hours":    "total_hours",
	"total_fasts":    "total_fasts",
	"current_streak": "current_streak",
	"best_streak":    "best_streak",
	"longest_fast":   "longest_fast",
}

func (p *PostgresStorage) TopEntries(ctx context.Context, field string, limit int) ([]internal.LeaderboardEntry, error) {
	col, ok := leaderboardColumns[field]
	if !ok {
		col = "total_hours"
	}
	rows, err := p.pool.Query(ctx, `
		SELECT user_id, display_name, total_fasts, total_hours, current_streak, best_streak, longest_fast, is_public, created_at, updated_at
		FROM leaderboard WHERE is_public ORDER BY `+col+` DESC LIMIT $1`, limit)
	if err != nil {
		p.logger.Errorf("failed to query leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []internal.LeaderboardEntry
	for rows.Next() {
		var e internal.LeaderboardEntry
		err := rows.Scan(&e.UserID, &e.DisplayName, &e.TotalFasts, &e.TotalHours,
			&e.CurrentStreak, &e.BestStreak, &e.LongestFast, &e.IsPublic, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Compile-time assertions ---
var _ FastRepository = (*PostgresStorage)(nil)
var _ ProfileRepository = (*PostgresStorage)(nil)
var _ LeaderboardRepository = (*PostgresStorage)(nil)
