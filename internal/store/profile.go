package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Social season identifiers.
const (
	SeasonResting  = "resting"
	SeasonBalanced = "balanced"
	SeasonBlooming = "blooming"
)

// ValidSeason reports whether s names a known season.
func ValidSeason(s string) bool {
	return s == SeasonResting || s == SeasonBalanced || s == SeasonBlooming
}

// Profile is the singleton user profile row.
type Profile struct {
	DisplayName         string
	Season              string
	SeasonScore         float64
	SeasonSince         int64
	SeasonOverride      string // "" when no override is active
	SeasonOverrideUntil *int64
	Onboarded           bool
	CreatedAt           int64
	UpdatedAt           int64
}

// SeasonLog is one recorded season transition with the analytics counters
// that produced it.
type SeasonLog struct {
	ID             int64
	FromSeason     string
	ToSeason       string
	Score          float64
	Reason         string // computed, override, override_expired
	WeaveCount7d   int
	AvgFriendScore float64
	BatteryAvg     float64
	CreatedAt      int64
}

// GetProfile returns the user profile, creating the default row on first use.
func (db *DB) GetProfile() (*Profile, error) {
	p, err := db.readProfile()
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	now := time.Now().UnixMilli()
	_, err = db.Exec(`
		INSERT INTO user_profile (id, season, season_score, season_since, created_at, updated_at)
		VALUES (1, 'balanced', 50, ?, ?, ?)
	`, now, now, now)
	if err != nil {
		return nil, fmt.Errorf("init profile: %w", err)
	}
	return db.readProfile()
}

func (db *DB) readProfile() (*Profile, error) {
	var p Profile
	var overrideUntil sql.NullInt64
	var onboarded int
	err := db.QueryRow(`
		SELECT display_name, season, season_score, season_since, season_override,
			season_override_until, onboarded, created_at, updated_at
		FROM user_profile WHERE id = 1
	`).Scan(&p.DisplayName, &p.Season, &p.SeasonScore, &p.SeasonSince, &p.SeasonOverride,
		&overrideUntil, &onboarded, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if overrideUntil.Valid {
		p.SeasonOverrideUntil = &overrideUntil.Int64
	}
	p.Onboarded = onboarded != 0
	return &p, nil
}

// UpdateProfileName sets the display name and marks onboarding done.
func (db *DB) UpdateProfileName(name string) error {
	if _, err := db.GetProfile(); err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		UPDATE user_profile SET display_name = ?, onboarded = 1, updated_at = ? WHERE id = 1
	`, name, now)
	if err != nil {
		return fmt.Errorf("update profile name: %w", err)
	}
	return nil
}

// SetSeasonScore records the latest computed score without changing season.
func (db *DB) SetSeasonScore(score float64) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		UPDATE user_profile SET season_score = ?, updated_at = ? WHERE id = 1
	`, score, now)
	if err != nil {
		return fmt.Errorf("set season score: %w", err)
	}
	return nil
}

// TransitionSeason updates the profile's season and appends a season log.
// Runs in a single transaction so history never disagrees with the profile.
func (db *DB) TransitionSeason(entry *SeasonLog) error {
	if !ValidSeason(entry.ToSeason) {
		return fmt.Errorf("unknown season %q", entry.ToSeason)
	}
	now := time.Now().UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE user_profile SET season = ?, season_score = ?, season_since = ?, updated_at = ? WHERE id = 1
	`, entry.ToSeason, entry.Score, now, now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update season: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO season_logs (from_season, to_season, score, reason, weave_count_7d, avg_friend_score, battery_avg, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.FromSeason, entry.ToSeason, entry.Score, entry.Reason,
		entry.WeaveCount7d, entry.AvgFriendScore, entry.BatteryAvg, now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert season log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}

	id, _ := result.LastInsertId()
	entry.ID = id
	entry.CreatedAt = now
	return nil
}

// SetSeasonOverride pins the season until the given time, appending a
// season log so the transition history records the pin. Pass an empty
// season to clear an active override; clearing is not logged (expiry and
// recompute handle their own entries).
func (db *DB) SetSeasonOverride(season string, until int64) error {
	if season != "" && !ValidSeason(season) {
		return fmt.Errorf("unknown season %q", season)
	}
	p, err := db.GetProfile()
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()

	if season == "" {
		_, err := db.Exec(`
			UPDATE user_profile SET season_override = '', season_override_until = NULL, updated_at = ? WHERE id = 1
		`, now)
		if err != nil {
			return fmt.Errorf("clear season override: %w", err)
		}
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin override: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE user_profile SET season_override = ?, season_override_until = ?, updated_at = ? WHERE id = 1
	`, season, until, now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("set season override: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO season_logs (from_season, to_season, score, reason, created_at)
		VALUES (?, ?, ?, 'override', ?)
	`, p.Season, season, p.SeasonScore, now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("log season override: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit override: %w", err)
	}
	return nil
}

// ListSeasonLogs returns transition history, newest first.
func (db *DB) ListSeasonLogs(limit int) ([]SeasonLog, error) {
	rows, err := db.Query(`
		SELECT id, from_season, to_season, score, reason, weave_count_7d, avg_friend_score, battery_avg, created_at
		FROM season_logs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list season logs: %w", err)
	}
	defer rows.Close()

	var logs []SeasonLog
	for rows.Next() {
		var l SeasonLog
		if err := rows.Scan(&l.ID, &l.FromSeason, &l.ToSeason, &l.Score, &l.Reason,
			&l.WeaveCount7d, &l.AvgFriendScore, &l.BatteryAvg, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan season log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
