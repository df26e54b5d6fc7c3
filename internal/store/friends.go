package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dunbar tier identifiers.
const (
	TierInner     = "inner"
	TierClose     = "close"
	TierCommunity = "community"
)

// tierCapacity caps how many active friends each tier can hold.
var tierCapacity = map[string]int{
	TierInner:     5,
	TierClose:     15,
	TierCommunity: 150,
}

// archetypes a friend can be tagged with. Flavors suggestion copy.
var validArchetypes = map[string]bool{
	"anchor":   true,
	"spark":    true,
	"mirror":   true,
	"compass":  true,
	"wildcard": true,
}

// Friend represents a tracked relationship.
type Friend struct {
	ID             string
	Name           string
	Archetype      string
	Tier           string
	WeaveScore     float64
	ScoreUpdatedAt int64
	LastWeaveAt    *int64
	Birthday       string // MM-DD
	Anniversary    string // MM-DD
	Notes          string
	Archived       bool
	CreatedAt      int64
	UpdatedAt      int64
}

// ErrTierFull is returned when a tier is at capacity.
type ErrTierFull struct {
	Tier     string
	Capacity int
}

func (e *ErrTierFull) Error() string {
	return fmt.Sprintf("tier %q is full (capacity %d)", e.Tier, e.Capacity)
}

// TierCount returns the number of active (non-archived) friends in a tier.
func (db *DB) TierCount(tier string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM friends WHERE tier = ? AND archived = 0`, tier).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("tier count: %w", err)
	}
	return n, nil
}

// CreateFriend inserts a new friend. New friends start at the neutral
// base score of 50. Enforces tier capacity.
func (db *DB) CreateFriend(f *Friend) error {
	if f.Tier == "" {
		f.Tier = TierCommunity
	}
	capacity, ok := tierCapacity[f.Tier]
	if !ok {
		return fmt.Errorf("unknown tier %q", f.Tier)
	}
	if f.Archetype == "" {
		f.Archetype = "anchor"
	}
	if !validArchetypes[f.Archetype] {
		return fmt.Errorf("unknown archetype %q", f.Archetype)
	}

	count, err := db.TierCount(f.Tier)
	if err != nil {
		return err
	}
	if count >= capacity {
		return &ErrTierFull{Tier: f.Tier, Capacity: capacity}
	}

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UnixMilli()
	f.WeaveScore = 50
	f.ScoreUpdatedAt = now
	f.CreatedAt = now
	f.UpdatedAt = now

	_, err = db.Exec(`
		INSERT INTO friends (id, name, archetype, tier, weave_score, score_updated_at, last_weave_at,
			birthday, anniversary, notes, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), 0, ?, ?)
	`, f.ID, f.Name, f.Archetype, f.Tier, f.WeaveScore, f.ScoreUpdatedAt, f.LastWeaveAt,
		f.Birthday, f.Anniversary, f.Notes, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create friend: %w", err)
	}
	return nil
}

const friendCols = `id, name, archetype, tier, weave_score, score_updated_at, last_weave_at,
	birthday, anniversary, notes, archived, created_at, updated_at`

func scanFriend(row interface{ Scan(...any) error }) (*Friend, error) {
	var f Friend
	var lastWeave sql.NullInt64
	var birthday, anniversary, notes sql.NullString
	var archived int
	err := row.Scan(&f.ID, &f.Name, &f.Archetype, &f.Tier, &f.WeaveScore, &f.ScoreUpdatedAt,
		&lastWeave, &birthday, &anniversary, &notes, &archived, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastWeave.Valid {
		f.LastWeaveAt = &lastWeave.Int64
	}
	f.Birthday = birthday.String
	f.Anniversary = anniversary.String
	f.Notes = notes.String
	f.Archived = archived != 0
	return &f, nil
}

// GetFriend returns a friend by id, or nil if not found.
func (db *DB) GetFriend(id string) (*Friend, error) {
	row := db.QueryRow(`SELECT `+friendCols+` FROM friends WHERE id = ?`, id)
	f, err := scanFriend(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get friend: %w", err)
	}
	return f, nil
}

// ListFriends returns active friends, optionally filtered by tier,
// ordered by weave score ascending (most neglected first).
func (db *DB) ListFriends(tier string) ([]Friend, error) {
	query := `SELECT ` + friendCols + ` FROM friends WHERE archived = 0`
	args := []any{}
	if tier != "" {
		query += ` AND tier = ?`
		args = append(args, tier)
	}
	query += ` ORDER BY weave_score ASC, name ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var friends []Friend
	for rows.Next() {
		f, err := scanFriend(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, *f)
	}
	return friends, rows.Err()
}

// UpdateFriend updates mutable friend fields. A tier move re-checks the
// destination tier's capacity.
func (db *DB) UpdateFriend(f *Friend) error {
	existing, err := db.GetFriend(f.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("friend %s not found", f.ID)
	}

	if f.Tier != existing.Tier {
		capacity, ok := tierCapacity[f.Tier]
		if !ok {
			return fmt.Errorf("unknown tier %q", f.Tier)
		}
		count, err := db.TierCount(f.Tier)
		if err != nil {
			return err
		}
		if count >= capacity {
			return &ErrTierFull{Tier: f.Tier, Capacity: capacity}
		}
	}
	if !validArchetypes[f.Archetype] {
		return fmt.Errorf("unknown archetype %q", f.Archetype)
	}

	now := time.Now().UnixMilli()
	_, err = db.Exec(`
		UPDATE friends SET name = ?, archetype = ?, tier = ?, birthday = NULLIF(?, ''),
			anniversary = NULLIF(?, ''), notes = NULLIF(?, ''), updated_at = ?
		WHERE id = ?
	`, f.Name, f.Archetype, f.Tier, f.Birthday, f.Anniversary, f.Notes, now, f.ID)
	if err != nil {
		return fmt.Errorf("update friend: %w", err)
	}
	f.UpdatedAt = now
	return nil
}

// ArchiveFriend hides a friend from scoring, suggestions, and tier counts.
func (db *DB) ArchiveFriend(id string) error {
	now := time.Now().UnixMilli()
	result, err := db.Exec(`UPDATE friends SET archived = 1, updated_at = ? WHERE id = ? AND archived = 0`, now, id)
	if err != nil {
		return fmt.Errorf("archive friend: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("no active friend found for %s", id)
	}
	return nil
}

// SetScore persists a recomputed weave score for a friend.
func (db *DB) SetScore(id string, score float64, at int64) error {
	_, err := db.Exec(`UPDATE friends SET weave_score = ?, score_updated_at = ? WHERE id = ?`, score, at, id)
	if err != nil {
		return fmt.Errorf("set score: %w", err)
	}
	return nil
}

// BoostScore applies a weave bonus to a friend's score (capped at 100)
// and records the interaction time.
func (db *DB) BoostScore(id string, bonus float64, weaveAt int64) error {
	_, err := db.Exec(`
		UPDATE friends SET weave_score = MIN(100, weave_score + ?),
			score_updated_at = ?, last_weave_at = ?
		WHERE id = ?
	`, bonus, weaveAt, weaveAt, id)
	if err != nil {
		return fmt.Errorf("boost score: %w", err)
	}
	return nil
}
