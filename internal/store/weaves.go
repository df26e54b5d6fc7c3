package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weave categories and vibes.
var validWeaveCategories = map[string]bool{
	"call":        true,
	"message":     true,
	"hangout":     true,
	"activity":    true,
	"favor":       true,
	"celebration": true,
}

var validVibes = map[string]bool{
	"drained":    true,
	"neutral":    true,
	"good":       true,
	"energizing": true,
}

// Weave represents a logged interaction with one or more friends.
type Weave struct {
	ID         string
	Category   string
	HappenedAt int64
	Vibe       string
	Note       string
	CreatedAt  int64
	FriendIDs  []string
}

// CreateWeave inserts a weave and its friend links in one transaction.
func (db *DB) CreateWeave(w *Weave) error {
	if !validWeaveCategories[w.Category] {
		return fmt.Errorf("unknown weave category %q", w.Category)
	}
	if w.Vibe == "" {
		w.Vibe = "neutral"
	}
	if !validVibes[w.Vibe] {
		return fmt.Errorf("unknown vibe %q", w.Vibe)
	}
	if len(w.FriendIDs) == 0 {
		return fmt.Errorf("weave needs at least one friend")
	}

	now := time.Now().UnixMilli()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.HappenedAt == 0 {
		w.HappenedAt = now
	}
	w.CreatedAt = now

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin weave: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO weaves (id, category, happened_at, vibe, note, created_at)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?)
	`, w.ID, w.Category, w.HappenedAt, w.Vibe, w.Note, w.CreatedAt)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert weave: %w", err)
	}

	for _, fid := range w.FriendIDs {
		if _, err := tx.Exec(`INSERT INTO weave_friends (weave_id, friend_id) VALUES (?, ?)`, w.ID, fid); err != nil {
			tx.Rollback()
			return fmt.Errorf("link friend %s: %w", fid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit weave: %w", err)
	}
	return nil
}

// GetWeave returns a weave with its linked friend ids, or nil if not found.
func (db *DB) GetWeave(id string) (*Weave, error) {
	var w Weave
	var note sql.NullString
	err := db.QueryRow(`
		SELECT id, category, happened_at, vibe, note, created_at FROM weaves WHERE id = ?
	`, id).Scan(&w.ID, &w.Category, &w.HappenedAt, &w.Vibe, &note, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get weave: %w", err)
	}
	w.Note = note.String

	rows, err := db.Query(`SELECT friend_id FROM weave_friends WHERE weave_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get weave friends: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fid string
		if err := rows.Scan(&fid); err != nil {
			return nil, fmt.Errorf("scan weave friend: %w", err)
		}
		w.FriendIDs = append(w.FriendIDs, fid)
	}
	return &w, rows.Err()
}

// ListWeaves returns weaves since the given time, newest first, optionally
// filtered to a single friend.
func (db *DB) ListWeaves(friendID string, since int64) ([]Weave, error) {
	query := `SELECT w.id, w.category, w.happened_at, w.vibe, w.note, w.created_at FROM weaves w`
	args := []any{}
	if friendID != "" {
		query += ` JOIN weave_friends wf ON wf.weave_id = w.id AND wf.friend_id = ?`
		args = append(args, friendID)
	}
	query += ` WHERE w.happened_at >= ? ORDER BY w.happened_at DESC`
	args = append(args, since)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weaves: %w", err)
	}
	defer rows.Close()

	var weaves []Weave
	for rows.Next() {
		var w Weave
		var note sql.NullString
		if err := rows.Scan(&w.ID, &w.Category, &w.HappenedAt, &w.Vibe, &note, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan weave: %w", err)
		}
		w.Note = note.String
		weaves = append(weaves, w)
	}
	return weaves, rows.Err()
}

// CountWeavesSince returns the number of weaves at or after the given time.
func (db *DB) CountWeavesSince(since int64) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM weaves WHERE happened_at >= ?`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count weaves: %w", err)
	}
	return n, nil
}

// DistinctWeaveDaysSince returns how many distinct calendar days since the
// given time have at least one weave. Feeds the season momentum term.
func (db *DB) DistinctWeaveDaysSince(since int64) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(DISTINCT date(happened_at / 1000, 'unixepoch'))
		FROM weaves WHERE happened_at >= ?
	`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("distinct weave days: %w", err)
	}
	return n, nil
}

// LastWeaveAt returns the most recent interaction time for a friend,
// or nil if none is recorded.
func (db *DB) LastWeaveAt(friendID string) (*int64, error) {
	var at sql.NullInt64
	err := db.QueryRow(`
		SELECT MAX(w.happened_at) FROM weaves w
		JOIN weave_friends wf ON wf.weave_id = w.id
		WHERE wf.friend_id = ?
	`, friendID).Scan(&at)
	if err != nil {
		return nil, fmt.Errorf("last weave at: %w", err)
	}
	if !at.Valid {
		return nil, nil
	}
	return &at.Int64, nil
}
