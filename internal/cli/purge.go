package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/runnerr0/wordsmith/internal/storage"
)

const purgeWarning = `WARNING: This will permanently delete ALL wordsmith texts.
  - All texts and their bodies
  - All tags
Categories are kept.

This action cannot be undone.

Type "PURGE" to confirm: `

// setDB allows tests to inject a database connection.
func (c *PurgeCommand) setDB(db *sql.DB) {
	c.db = db
}

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	if !c.Force {
		if err := confirm(c.in, purgeWarning, "PURGE"); err != nil {
			return err
		}
	}

	if c.db != nil {
		store, err := storage.NewSQLiteStore(c.db)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer store.Close()
		return c.executeWithStore(store)
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *PurgeCommand) executeWithStore(store storage.Store) error {
	if err := store.PurgeAll(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if wantJSON(c.globals) {
		return printJSON(map[string]interface{}{
			"purged":  true,
			"message": "all texts deleted",
		})
	}

	fmt.Println("Purged all texts. The catalog is empty.")
	return nil
}
