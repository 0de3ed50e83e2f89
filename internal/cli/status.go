package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string              `json:"version"`
	DatabasePath      string              `json:"database_path"`
	DatabaseSizeBytes int64               `json:"database_size_bytes"`
	TotalTexts        int64               `json:"total_texts"`
	TotalCategories   int64               `json:"total_categories"`
	TotalTags         int64               `json:"total_tags"`
	TotalBodyBytes    int64               `json:"total_body_bytes"`
	OldestText        string              `json:"oldest_text,omitempty"`
	NewestText        string              `json:"newest_text,omitempty"`
	Categories        []categoryCountJSON `json:"categories"`
	ServerAddr        string              `json:"server_addr"`
	ServerRunning     bool                `json:"server_running"`
	LogLevel          string              `json:"log_level"`
}

type categoryCountJSON struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withStore(c.globals, func(cfg *config.Config, store *storage.SQLiteStore, db *sql.DB) error {
		return c.executeWithStore(store, db, cfg)
	})
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(store storage.Store, db *sql.DB, cfg *config.Config) error {
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	dbSize := getDatabaseSize(db, dbPath)
	running := checkServer("http://" + cfg.Server.Addr())

	if wantJSON(c.globals) {
		return c.printStatusJSON(stats, cfg, dbPath, dbSize, running)
	}
	c.printStatusHuman(stats, cfg, dbPath, dbSize, running)
	return nil
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, cfg *config.Config, dbPath string, dbSize int64, running bool) {
	fmt.Println("wordsmith status")
	fmt.Println("================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Texts:         %s (%s of text)\n", formatNumber(stats.TotalTexts), formatBytes(stats.TotalBytes))
	fmt.Printf("Categories:    %s\n", formatNumber(stats.TotalCategories))
	fmt.Printf("Tags:          %s\n", formatNumber(stats.TotalTags))

	if stats.TotalTexts > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestText.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestText.Local().Format("2006-01-02"))
	}

	if len(stats.Categories) > 0 {
		fmt.Println()
		fmt.Println("By category:")
		for _, cc := range stats.Categories {
			fmt.Printf("  %-20s %s\n", cc.Category, formatNumber(cc.Count))
		}
	}

	fmt.Println()
	if running {
		fmt.Printf("Server:        running at http://%s\n", cfg.Server.Addr())
	} else {
		fmt.Printf("Server:        not running (%s)\n", cfg.Server.Addr())
	}
	fmt.Printf("Log level:     %s\n", cfg.Logging.Level)
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, cfg *config.Config, dbPath string, dbSize int64, running bool) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		TotalTexts:        stats.TotalTexts,
		TotalCategories:   stats.TotalCategories,
		TotalTags:         stats.TotalTags,
		TotalBodyBytes:    stats.TotalBytes,
		Categories:        make([]categoryCountJSON, len(stats.Categories)),
		ServerAddr:        cfg.Server.Addr(),
		ServerRunning:     running,
		LogLevel:          cfg.Logging.Level,
	}

	if stats.TotalTexts > 0 {
		out.OldestText = stats.OldestText.UTC().Format(time.RFC3339)
		out.NewestText = stats.NewestText.UTC().Format(time.RFC3339)
	}

	for i, cc := range stats.Categories {
		out.Categories[i] = categoryCountJSON{Category: cc.Category, Count: cc.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}
	if db == nil {
		return 0
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// checkServer reports whether a wordsmith server answers /health at baseURL
// within one second.
func checkServer(baseURL string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
