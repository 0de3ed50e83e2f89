package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/logging"
	"github.com/runnerr0/wordsmith/internal/storage"
	"go.uber.org/zap"
)

// loadConfig reads --config when given, otherwise the default path, creating
// it with defaults on first use.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		cfg, err := config.LoadOrCreateAt(globals.Config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured database, runs migrations and makes sure
// every configured category exists.
func openStore(cfg *config.Config) (*storage.SQLiteStore, *sql.DB, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, nil, err
	}

	store, db, err := storage.Open(dbPath, cfg.Storage.SQLiteJournalMode)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	if err := store.EnsureCategories(context.Background(), cfg.Catalog.Categories); err != nil {
		store.Close()
		db.Close()
		return nil, nil, err
	}

	return store, db, nil
}

// withStore loads config, opens the store and hands both to fn.
func withStore(globals *GlobalFlags, fn func(cfg *config.Config, store *storage.SQLiteStore, db *sql.DB) error) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return fn(cfg, store, db)
}

// newLogger builds the zap logger, forcing debug level under --verbose.
func newLogger(globals *GlobalFlags, cfg config.LoggingConfig) (*zap.Logger, error) {
	if globals != nil && globals.Verbose {
		cfg.Level = "debug"
	}
	return logging.New(cfg)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wantJSON(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}

// confirm prints prompt and reads one line from in (os.Stdin when nil),
// succeeding only when it equals expected.
func confirm(in io.Reader, prompt, expected string) error {
	if in == nil {
		in = os.Stdin
	}
	fmt.Print(prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != expected {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
