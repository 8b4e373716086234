// Package store persists conversations, reminders and sheet snapshots
// in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"shiftbot/backend/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversation_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	user_message TEXT NOT NULL,
	bot_response TEXT NOT NULL,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversation_user_channel
	ON conversation_history(user_id, channel_id, timestamp);

CREATE TABLE IF NOT EXISTS reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	creator_user_id TEXT NOT NULL,
	creator_username TEXT NOT NULL,
	target_user_id TEXT,
	target_username TEXT NOT NULL,
	reminder_text TEXT NOT NULL,
	reminder_time DATETIME NOT NULL,
	channel_id TEXT NOT NULL,
	guild_id TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL,
	sent_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_reminders_status_time
	ON reminders(status, reminder_time);

CREATE TABLE IF NOT EXISTS sheet_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_username TEXT NOT NULL,
	worksheet_name TEXT NOT NULL,
	snapshot_data TEXT NOT NULL,
	is_baseline INTEGER NOT NULL DEFAULT 0,
	notes TEXT,
	snapshot_time DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_employee
	ON sheet_snapshots(employee_username, worksheet_name, is_baseline, snapshot_time);
`

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite tolerates exactly one writer; a bigger pool just trades
	// errors for lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, logger: logger.Get()}
	s.logger.Info("SQLite store opened", zap.String("path", path))
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
