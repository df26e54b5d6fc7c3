package store

import (
	"database/sql"
	"fmt"
	"time"
)

// BatteryLog is one self-reported social energy reading, 0-100.
type BatteryLog struct {
	ID       int64
	Level    int
	Note     string
	LoggedAt int64
}

// AddBatteryLog records a battery reading.
func (db *DB) AddBatteryLog(level int, note string) (*BatteryLog, error) {
	if level < 0 || level > 100 {
		return nil, fmt.Errorf("battery level %d out of range 0-100", level)
	}
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		INSERT INTO battery_logs (level, note, logged_at) VALUES (?, NULLIF(?, ''), ?)
	`, level, note, now)
	if err != nil {
		return nil, fmt.Errorf("add battery log: %w", err)
	}
	id, _ := result.LastInsertId()
	return &BatteryLog{ID: id, Level: level, Note: note, LoggedAt: now}, nil
}

// ListBatteryLogs returns readings at or after the given time, newest first.
func (db *DB) ListBatteryLogs(since int64) ([]BatteryLog, error) {
	rows, err := db.Query(`
		SELECT id, level, note, logged_at FROM battery_logs
		WHERE logged_at >= ? ORDER BY logged_at DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("list battery logs: %w", err)
	}
	defer rows.Close()

	var logs []BatteryLog
	for rows.Next() {
		var l BatteryLog
		var note sql.NullString
		if err := rows.Scan(&l.ID, &l.Level, &note, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan battery log: %w", err)
		}
		l.Note = note.String
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// RecentBatteryLevels returns up to n most recent readings, oldest first.
// Ordered for trend fitting.
func (db *DB) RecentBatteryLevels(n int) ([]int, error) {
	rows, err := db.Query(`
		SELECT level FROM (
			SELECT level, logged_at FROM battery_logs ORDER BY logged_at DESC LIMIT ?
		) ORDER BY logged_at ASC
	`, n)
	if err != nil {
		return nil, fmt.Errorf("recent battery levels: %w", err)
	}
	defer rows.Close()

	var levels []int
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("scan battery level: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}
