package internal

import (
	"path/filepath"
	"testing"
)

func TestOpenDatabaseCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	for _, table := range []string{"conversations", "messages", "tool_executions", "thoughts"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenDatabaseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("first OpenDatabase() error = %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO conversations (id, title, created_at, updated_at) VALUES ('c1', '', 0, 0)",
	); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	db.Close()

	db, err = OpenDatabase(path)
	if err != nil {
		t.Fatalf("second OpenDatabase() error = %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (reopen must not drop data)", count)
	}
}
