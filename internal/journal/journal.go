// Package journal keeps a local SQLite history of ingestion runs, one row
// per processed ticket, backing the history command.
package journal

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Run is one recorded ingestion run.
type Run struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Pipeline  string `json:"pipeline"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

// Open initializes the journal database at baseDir/vault.db.
// The baseDir parameter allows tests to use t.TempDir().
func Open(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "vault.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0o600)

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: initial schema
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS runs (
		  id         TEXT PRIMARY KEY,
		  title      TEXT NOT NULL,
		  pipeline   TEXT NOT NULL,
		  success    INTEGER NOT NULL,
		  message    TEXT NOT NULL,
		  created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// Record inserts one run, generating its ULID. Returns the run id.
func Record(db *sql.DB, title, pipeline string, success bool, message string) (string, error) {
	id, err := newRunID()
	if err != nil {
		return "", err
	}

	successInt := 0
	if success {
		successInt = 1
	}

	_, err = db.Exec(
		`INSERT INTO runs (id, title, pipeline, success, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, pipeline, successInt, message, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// Recent returns the most recent runs, newest first.
func Recent(db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(
		`SELECT id, title, pipeline, success, message, created_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var successInt int
		if err := rows.Scan(&r.ID, &r.Title, &r.Pipeline, &successInt, &r.Message, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Success = successInt != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// newRunID generates a new ULID.
func newRunID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
