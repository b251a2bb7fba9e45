package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// OpenSQLite opens (creating if needed) the database that backs SQLite slots.
// One database can hold many slots, one row per key.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("store: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: init sqlite: %w", err)
		}
	}
	return db, nil
}

// SQLiteSlot is one row of the slots table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// NewSQLiteSlot returns the slot stored under key in db.
func NewSQLiteSlot(db *sql.DB, key string) *SQLiteSlot {
	return &SQLiteSlot{db: db, key: key}
}

func (s *SQLiteSlot) Read() ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", s.key, err)
	}
	return value, nil
}

func (s *SQLiteSlot) Write(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: write %q: %w", s.key, err)
	}
	return nil
}

func (s *SQLiteSlot) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("store: clear %q: %w", s.key, err)
	}
	return nil
}
