package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/storage"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	if c.ID <= 0 {
		return fmt.Errorf("--id is required for delete command")
	}
	return withStore(c.globals, func(_ *config.Config, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(store)
	})
}

// executeWithStore deletes against a provided store (for testing).
func (c *DeleteCommand) executeWithStore(store storage.Store) error {
	if c.ID <= 0 {
		return fmt.Errorf("--id is required for delete command")
	}
	ctx := context.Background()

	text, err := store.GetText(ctx, c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("text %d: %w", c.ID, err)
	}
	if err != nil {
		return fmt.Errorf("get text: %w", err)
	}

	if !c.Force {
		prompt := fmt.Sprintf("Delete text %d %q? Type \"yes\" to confirm: ", text.ID, text.Title)
		if err := confirm(c.in, prompt, "yes"); err != nil {
			return err
		}
	}

	if err := store.DeleteText(ctx, c.ID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if wantJSON(c.globals) {
		return printJSON(map[string]interface{}{
			"deleted": true,
			"id":      text.ID,
			"title":   text.Title,
		})
	}

	fmt.Printf("Deleted text %d (%s)\n", text.ID, text.Title)
	return nil
}
