// Package storage implements the SQLite-based submission history.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds SQLite configuration options.
type Config struct {
	Path        string
	JournalMode string // WAL, DELETE, TRUNCATE
	BusyTimeout int    // in milliseconds
}

// DefaultConfig returns the default SQLite configuration. The history
// database is small and written once per run, so WAL with a short busy
// timeout is plenty.
func DefaultConfig(dataDir string) Config {
	return Config{
		Path:        filepath.Join(dataDir, "history.db"),
		JournalMode: "WAL",
		BusyTimeout: 5000,
	}
}

// DB wraps the SQLite database connection.
type DB struct {
	conn   *sql.DB
	config Config
}

// New opens the history database, creating the file and schema on first
// use.
func New(config Config) (*DB, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=%s&_busy_timeout=%d",
		config.Path,
		config.JournalMode,
		config.BusyTimeout,
	)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		config: config,
	}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id BLOB(16) PRIMARY KEY,
		work_item_id TEXT NOT NULL,
		activity_id TEXT NOT NULL,
		script_file TEXT NOT NULL DEFAULT '',
		parameters JSON NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_work_item ON submissions(work_item_id);
	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
