package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens (creating if needed) the SQLite history database.
// WAL keeps concurrent readers working while a turn is being saved.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func initSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			conversation_id TEXT    NOT NULL,
			id              TEXT    NOT NULL,
			role            TEXT    NOT NULL,
			content         TEXT    NOT NULL,
			timestamp       INTEGER NOT NULL,
			metadata_json   TEXT,
			PRIMARY KEY (conversation_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_ts
			ON messages (conversation_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS tool_executions (
			conversation_id TEXT    NOT NULL,
			message_id      TEXT    NOT NULL,
			tool_id         TEXT    NOT NULL,
			seq             INTEGER NOT NULL,
			execution_json  TEXT    NOT NULL,
			PRIMARY KEY (conversation_id, message_id, tool_id)
		)`,
		`CREATE TABLE IF NOT EXISTS thoughts (
			conversation_id TEXT NOT NULL,
			message_id      TEXT NOT NULL,
			content         TEXT NOT NULL,
			PRIMARY KEY (conversation_id, message_id)
		)`,
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
