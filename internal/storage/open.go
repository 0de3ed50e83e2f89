package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// dsnOptions enables foreign keys, waits up to five seconds on a locked
// database and takes the write lock at BEGIN so concurrent writers queue
// instead of failing on lock upgrade.
const dsnOptions = "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

// Open opens the SQLite database at path, runs migrations and returns a
// ready-to-use store and the underlying *sql.DB. The caller closes both.
func Open(path, journalMode string) (*SQLiteStore, *sql.DB, error) {
	dsn := path + dsnOptions
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	runner := NewMigrationRunner(db).WithJournalMode(journalMode)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}
