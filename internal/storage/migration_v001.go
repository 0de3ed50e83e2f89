package storage

import (
	"database/sql"

	"github.com/runnerr0/wordsmith/internal/config"
)

// migrateV001 creates the initial catalog schema and seeds the default
// category set. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS categories (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS texts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			body        TEXT NOT NULL,
			category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			byte_size   INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS text_tags (
			text_id  INTEGER NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
			tag_id   INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (text_id, tag_id)
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_texts_category   ON texts(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_texts_title      ON texts(title)`,
		`CREATE INDEX IF NOT EXISTS idx_texts_created_at ON texts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_text_tags_tag    ON text_tags(tag_id)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return seedDefaultCategories(tx)
}

// seedDefaultCategories inserts the enumerated category set. Uses INSERT OR
// IGNORE so re-running is safe.
func seedDefaultCategories(tx *sql.Tx) error {
	for _, name := range config.DefaultCategories() {
		if _, err := tx.Exec(insertCategorySQL, name, categoryDescription(name)); err != nil {
			return err
		}
	}
	return nil
}

const insertCategorySQL = `INSERT OR IGNORE INTO categories (name, description) VALUES (?, ?)`

func categoryDescription(name string) string {
	return "Texts related to " + name
}
