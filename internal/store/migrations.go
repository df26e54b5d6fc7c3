package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "friends: tracked relationships with decaying weave scores",
		SQL: `
CREATE TABLE friends (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    archetype        TEXT NOT NULL DEFAULT 'anchor' CHECK (archetype IN ('anchor', 'spark', 'mirror', 'compass', 'wildcard')),
    tier             TEXT NOT NULL DEFAULT 'community' CHECK (tier IN ('inner', 'close', 'community')),
    weave_score      REAL NOT NULL DEFAULT 50,
    score_updated_at INTEGER NOT NULL,
    last_weave_at    INTEGER,

    -- Recurring dates, stored as MM-DD
    birthday         TEXT,
    anniversary      TEXT,

    notes            TEXT,
    archived         INTEGER NOT NULL DEFAULT 0,
    created_at       INTEGER NOT NULL,
    updated_at       INTEGER NOT NULL
);

CREATE INDEX idx_friends_tier     ON friends(tier);
CREATE INDEX idx_friends_archived ON friends(archived);
CREATE INDEX idx_friends_score    ON friends(weave_score);
`,
	},
	{
		Version:     2,
		Description: "weaves: logged interactions, linked to friends via join table",
		SQL: `
CREATE TABLE weaves (
    id          TEXT PRIMARY KEY,
    category    TEXT NOT NULL CHECK (category IN ('call', 'message', 'hangout', 'activity', 'favor', 'celebration')),
    happened_at INTEGER NOT NULL,
    vibe        TEXT NOT NULL DEFAULT 'neutral' CHECK (vibe IN ('drained', 'neutral', 'good', 'energizing')),
    note        TEXT,
    created_at  INTEGER NOT NULL
);

CREATE INDEX idx_weaves_happened ON weaves(happened_at DESC);

CREATE TABLE weave_friends (
    weave_id  TEXT NOT NULL,
    friend_id TEXT NOT NULL,
    PRIMARY KEY (weave_id, friend_id),
    FOREIGN KEY (weave_id)  REFERENCES weaves(id)  ON DELETE CASCADE,
    FOREIGN KEY (friend_id) REFERENCES friends(id) ON DELETE CASCADE
);

CREATE INDEX idx_weave_friends_friend ON weave_friends(friend_id);
`,
	},
	{
		Version:     3,
		Description: "battery_logs: self-reported social energy time series",
		SQL: `
CREATE TABLE battery_logs (
    id        INTEGER PRIMARY KEY,
    level     INTEGER NOT NULL CHECK (level BETWEEN 0 AND 100),
    note      TEXT,
    logged_at INTEGER NOT NULL
);

CREATE INDEX idx_battery_logged ON battery_logs(logged_at DESC);
`,
	},
	{
		Version:     4,
		Description: "journal_entries + weekly_reflections",
		SQL: `
CREATE TABLE journal_entries (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    body       TEXT NOT NULL,
    mood       TEXT,
    entry_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX idx_journal_date ON journal_entries(entry_date DESC);

CREATE TABLE weekly_reflections (
    id         TEXT PRIMARY KEY,
    week_start TEXT NOT NULL UNIQUE,
    highlight  TEXT,
    challenge  TEXT,
    intention  TEXT,
    gratitude  TEXT,
    created_at INTEGER NOT NULL
);
`,
	},
	{
		Version:     5,
		Description: "user_profile singleton + season_logs transition history",
		SQL: `
CREATE TABLE user_profile (
    id                    INTEGER PRIMARY KEY CHECK (id = 1),
    display_name          TEXT NOT NULL DEFAULT '',
    season                TEXT NOT NULL DEFAULT 'balanced' CHECK (season IN ('resting', 'balanced', 'blooming')),
    season_score          REAL NOT NULL DEFAULT 50,
    season_since          INTEGER NOT NULL,
    season_override       TEXT NOT NULL DEFAULT '',
    season_override_until INTEGER,
    onboarded             INTEGER NOT NULL DEFAULT 0,
    created_at            INTEGER NOT NULL,
    updated_at            INTEGER NOT NULL
);

CREATE TABLE season_logs (
    id               INTEGER PRIMARY KEY,
    from_season      TEXT NOT NULL,
    to_season        TEXT NOT NULL,
    score            REAL NOT NULL,
    reason           TEXT NOT NULL CHECK (reason IN ('computed', 'override', 'override_expired')),
    weave_count_7d   INTEGER NOT NULL DEFAULT 0,
    avg_friend_score REAL NOT NULL DEFAULT 0,
    battery_avg      REAL NOT NULL DEFAULT 0,
    created_at       INTEGER NOT NULL
);

CREATE INDEX idx_season_logs_created ON season_logs(created_at DESC);
`,
	},
	{
		Version:     6,
		Description: "intentions + life_events",
		SQL: `
CREATE TABLE intentions (
    id           TEXT PRIMARY KEY,
    friend_id    TEXT,
    text         TEXT NOT NULL,
    due_date     TEXT,
    status       TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'done', 'dropped')),
    created_at   INTEGER NOT NULL,
    completed_at INTEGER,
    FOREIGN KEY (friend_id) REFERENCES friends(id) ON DELETE SET NULL
);

CREATE INDEX idx_intentions_status ON intentions(status);

CREATE TABLE life_events (
    id           TEXT PRIMARY KEY,
    friend_id    TEXT NOT NULL,
    kind         TEXT NOT NULL CHECK (kind IN ('birthday', 'anniversary', 'milestone', 'hard_time')),
    title        TEXT NOT NULL,
    event_date   TEXT NOT NULL,
    acknowledged INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL,
    FOREIGN KEY (friend_id) REFERENCES friends(id) ON DELETE CASCADE
);

CREATE INDEX idx_life_events_date ON life_events(event_date);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
