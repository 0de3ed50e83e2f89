package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/seed"
	"github.com/runnerr0/wordsmith/internal/storage"
	"go.uber.org/zap"
)

// Execute implements the go-flags Commander interface for SeedCommand.
func (c *SeedCommand) Execute(args []string) error {
	return withStore(c.globals, func(cfg *config.Config, store *storage.SQLiteStore, _ *sql.DB) error {
		logger, err := newLogger(c.globals, cfg.Logging)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		return c.executeWithStore(store, logger)
	})
}

// executeWithStore seeds a provided store (for testing).
func (c *SeedCommand) executeWithStore(store storage.Store, logger *zap.Logger) error {
	created, skipped, err := seed.Run(context.Background(), store, logger)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	if wantJSON(c.globals) {
		return printJSON(map[string]int{
			"created": created,
			"skipped": skipped,
		})
	}

	fmt.Printf("Seeding completed: %d created, %d already present\n", created, skipped)
	return nil
}
