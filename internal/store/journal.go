package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JournalEntry is a dated free-form entry. Body is markdown.
type JournalEntry struct {
	ID        string
	Title     string
	Body      string
	Mood      string
	EntryDate string // YYYY-MM-DD
	CreatedAt int64
	UpdatedAt int64
}

// WeeklyReflection is a structured end-of-week review, one per week.
type WeeklyReflection struct {
	ID        string
	WeekStart string // YYYY-MM-DD, Monday
	Highlight string
	Challenge string
	Intention string
	Gratitude string
	CreatedAt int64
}

// CreateJournalEntry inserts a journal entry. EntryDate defaults to today.
func (db *DB) CreateJournalEntry(e *JournalEntry) error {
	now := time.Now().UnixMilli()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EntryDate == "" {
		e.EntryDate = time.Now().Format("2006-01-02")
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO journal_entries (id, title, body, mood, entry_date, created_at, updated_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?)
	`, e.ID, e.Title, e.Body, e.Mood, e.EntryDate, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

// GetJournalEntry returns an entry by id, or nil if not found.
func (db *DB) GetJournalEntry(id string) (*JournalEntry, error) {
	var e JournalEntry
	var mood sql.NullString
	err := db.QueryRow(`
		SELECT id, title, body, mood, entry_date, created_at, updated_at
		FROM journal_entries WHERE id = ?
	`, id).Scan(&e.ID, &e.Title, &e.Body, &mood, &e.EntryDate, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	e.Mood = mood.String
	return &e, nil
}

// ListJournalEntries returns the most recent entries, newest first.
func (db *DB) ListJournalEntries(limit int) ([]JournalEntry, error) {
	rows, err := db.Query(`
		SELECT id, title, body, mood, entry_date, created_at, updated_at
		FROM journal_entries ORDER BY entry_date DESC, created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var mood sql.NullString
		if err := rows.Scan(&e.ID, &e.Title, &e.Body, &mood, &e.EntryDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Mood = mood.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertReflection creates or replaces the reflection for a week.
func (db *DB) UpsertReflection(r *WeeklyReflection) error {
	now := time.Now().UnixMilli()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = now

	_, err := db.Exec(`
		INSERT INTO weekly_reflections (id, week_start, highlight, challenge, intention, gratitude, created_at)
		VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?)
		ON CONFLICT(week_start) DO UPDATE SET
			highlight = excluded.highlight,
			challenge = excluded.challenge,
			intention = excluded.intention,
			gratitude = excluded.gratitude
	`, r.ID, r.WeekStart, r.Highlight, r.Challenge, r.Intention, r.Gratitude, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert reflection: %w", err)
	}
	return nil
}

// GetReflection returns the reflection for a week, or nil if not found.
func (db *DB) GetReflection(weekStart string) (*WeeklyReflection, error) {
	var r WeeklyReflection
	var highlight, challenge, intention, gratitude sql.NullString
	err := db.QueryRow(`
		SELECT id, week_start, highlight, challenge, intention, gratitude, created_at
		FROM weekly_reflections WHERE week_start = ?
	`, weekStart).Scan(&r.ID, &r.WeekStart, &highlight, &challenge, &intention, &gratitude, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reflection: %w", err)
	}
	r.Highlight = highlight.String
	r.Challenge = challenge.String
	r.Intention = intention.String
	r.Gratitude = gratitude.String
	return &r, nil
}

// ListReflections returns reflections, newest week first.
func (db *DB) ListReflections(limit int) ([]WeeklyReflection, error) {
	rows, err := db.Query(`
		SELECT id, week_start, highlight, challenge, intention, gratitude, created_at
		FROM weekly_reflections ORDER BY week_start DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}
	defer rows.Close()

	var reflections []WeeklyReflection
	for rows.Next() {
		var r WeeklyReflection
		var highlight, challenge, intention, gratitude sql.NullString
		if err := rows.Scan(&r.ID, &r.WeekStart, &highlight, &challenge, &intention, &gratitude, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reflection: %w", err)
		}
		r.Highlight = highlight.String
		r.Challenge = challenge.String
		r.Intention = intention.String
		r.Gratitude = gratitude.String
		reflections = append(reflections, r)
	}
	return reflections, rows.Err()
}
