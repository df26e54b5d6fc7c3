package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Intention is a self-set prompt to reach out, optionally tied to a friend.
type Intention struct {
	ID          string
	FriendID    string
	Text        string
	DueDate     string // YYYY-MM-DD, optional
	Status      string // open, done, dropped
	CreatedAt   int64
	CompletedAt *int64
}

// LifeEvent is a dated event in a friend's life worth showing up for.
type LifeEvent struct {
	ID           string
	FriendID     string
	Kind         string // birthday, anniversary, milestone, hard_time
	Title        string
	EventDate    string // YYYY-MM-DD
	Acknowledged bool
	CreatedAt    int64
}

var validLifeEventKinds = map[string]bool{
	"birthday":    true,
	"anniversary": true,
	"milestone":   true,
	"hard_time":   true,
}

// CreateIntention inserts a new open intention.
func (db *DB) CreateIntention(in *Intention) error {
	if in.Text == "" {
		return fmt.Errorf("intention text required")
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	now := time.Now().UnixMilli()
	in.Status = "open"
	in.CreatedAt = now

	_, err := db.Exec(`
		INSERT INTO intentions (id, friend_id, text, due_date, status, created_at)
		VALUES (?, NULLIF(?, ''), ?, NULLIF(?, ''), 'open', ?)
	`, in.ID, in.FriendID, in.Text, in.DueDate, now)
	if err != nil {
		return fmt.Errorf("create intention: %w", err)
	}
	return nil
}

// CompleteIntention marks an open intention done.
func (db *DB) CompleteIntention(id string) error {
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		UPDATE intentions SET status = 'done', completed_at = ?
		WHERE id = ? AND status = 'open'
	`, now, id)
	if err != nil {
		return fmt.Errorf("complete intention: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("no open intention found for %s", id)
	}
	return nil
}

// DropIntention marks an open intention dropped.
func (db *DB) DropIntention(id string) error {
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		UPDATE intentions SET status = 'dropped', completed_at = ?
		WHERE id = ? AND status = 'open'
	`, now, id)
	if err != nil {
		return fmt.Errorf("drop intention: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("no open intention found for %s", id)
	}
	return nil
}

// ListIntentions returns intentions, optionally filtered by status,
// ordered by due date (undated last), then creation time.
func (db *DB) ListIntentions(status string) ([]Intention, error) {
	query := `
		SELECT id, friend_id, text, due_date, status, created_at, completed_at
		FROM intentions`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY due_date IS NULL, due_date ASC, created_at ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list intentions: %w", err)
	}
	defer rows.Close()

	var intentions []Intention
	for rows.Next() {
		var in Intention
		var friendID, dueDate sql.NullString
		var completedAt sql.NullInt64
		if err := rows.Scan(&in.ID, &friendID, &in.Text, &dueDate, &in.Status, &in.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan intention: %w", err)
		}
		in.FriendID = friendID.String
		in.DueDate = dueDate.String
		if completedAt.Valid {
			in.CompletedAt = &completedAt.Int64
		}
		intentions = append(intentions, in)
	}
	return intentions, rows.Err()
}

// CreateLifeEvent inserts a life event for a friend.
func (db *DB) CreateLifeEvent(ev *LifeEvent) error {
	if !validLifeEventKinds[ev.Kind] {
		return fmt.Errorf("unknown life event kind %q", ev.Kind)
	}
	if ev.FriendID == "" {
		return fmt.Errorf("life event needs a friend")
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	now := time.Now().UnixMilli()
	ev.CreatedAt = now

	_, err := db.Exec(`
		INSERT INTO life_events (id, friend_id, kind, title, event_date, acknowledged, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, ev.ID, ev.FriendID, ev.Kind, ev.Title, ev.EventDate, now)
	if err != nil {
		return fmt.Errorf("create life event: %w", err)
	}
	return nil
}

// AcknowledgeLifeEvent marks an event as acted on, removing it from the
// suggestion pool.
func (db *DB) AcknowledgeLifeEvent(id string) error {
	result, err := db.Exec(`UPDATE life_events SET acknowledged = 1 WHERE id = ? AND acknowledged = 0`, id)
	if err != nil {
		return fmt.Errorf("acknowledge life event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("no unacknowledged life event found for %s", id)
	}
	return nil
}

// ListLifeEvents returns events in a date window, earliest first.
// Pass acknowledged=false to see only pending events.
func (db *DB) ListLifeEvents(from, to string, includeAcknowledged bool) ([]LifeEvent, error) {
	query := `
		SELECT id, friend_id, kind, title, event_date, acknowledged, created_at
		FROM life_events WHERE event_date >= ? AND event_date <= ?`
	args := []any{from, to}
	if !includeAcknowledged {
		query += ` AND acknowledged = 0`
	}
	query += ` ORDER BY event_date ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list life events: %w", err)
	}
	defer rows.Close()

	var events []LifeEvent
	for rows.Next() {
		var ev LifeEvent
		var ack int
		if err := rows.Scan(&ev.ID, &ev.FriendID, &ev.Kind, &ev.Title, &ev.EventDate, &ack, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan life event: %w", err)
		}
		ev.Acknowledged = ack != 0
		events = append(events, ev)
	}
	return events, rows.Err()
}
