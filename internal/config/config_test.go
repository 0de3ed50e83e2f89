package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "~/.config/wordsmith", cfg.Storage.Path)
	assert.Equal(t, "wordsmith.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "wal", cfg.Storage.SQLiteJournalMode)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, 60, cfg.Server.WriteTimeoutSeconds)
	assert.Equal(t, 120, cfg.Server.IdleTimeoutSeconds)
	assert.Equal(t, int64(1048576), cfg.Server.MaxFormBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, 10.0, cfg.Chart.WidthInches)
	assert.Equal(t, 6.0, cfg.Chart.HeightInches)
	assert.Equal(t, "#198754", cfg.Chart.BarColor)
	assert.Equal(t, "Word Length Distribution", cfg.Chart.Title)
	assert.Equal(t, 50, cfg.Catalog.PageSize)
	assert.Equal(t, DefaultCategories(), cfg.Catalog.Categories)

	require.NoError(t, cfg.Validate())
}

func TestDefaultCategoriesIncludeFiction(t *testing.T) {
	cats := DefaultCategories()
	assert.Len(t, cats, 6)
	assert.Contains(t, cats, "Fiction")
	assert.Contains(t, cats, "Science")
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 9000}
	assert.Equal(t, "0.0.0.0:9000", s.Addr())
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
server:
  port: 9999
logging:
  level: "debug"
  json: false
chart:
  bar_color: "#ff0000"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
	assert.Equal(t, "#ff0000", cfg.Chart.BarColor)

	// Non-overridden values remain defaults
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 10.0, cfg.Chart.WidthInches)
	assert.Equal(t, "~/.config/wordsmith", cfg.Storage.Path)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"log level", "logging:\n  level: loud\n", "logging.level"},
		{"port", "server:\n  port: 70000\n", "server.port"},
		{"chart size", "chart:\n  width_inches: 0\n", "chart size"},
		{"journal mode", "storage:\n  sqlite_journal_mode: bogus\n", "sqlite_journal_mode"},
		{"page size", "catalog:\n  page_size: -1\n", "page_size"},
		{"max form bytes", "server:\n  max_form_bytes: 0\n", "server.max_form_bytes"},
		{"read timeout", "server:\n  read_timeout_seconds: 0\n", "server timeouts"},
		{"write timeout", "server:\n  write_timeout_seconds: -5\n", "server timeouts"},
		{"idle timeout", "server:\n  idle_timeout_seconds: 0\n", "server timeouts"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tc.yaml), 0644))

			_, err := Load(cfgPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	// Should return defaults
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.Port, cfg2.Server.Port)
	assert.Equal(t, cfg.Catalog.Categories, cfg2.Catalog.Categories)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
catalog:
  categories: ["Poetry", "Fiction"]
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Poetry", "Fiction"}, cfg.Catalog.Categories)
	// Other fields remain defaults
	assert.Equal(t, 50, cfg.Catalog.PageSize)
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/wordsmith"

	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/lib/wordsmith", "wordsmith.db"), path)
}

func TestDatabasePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := DefaultConfig()
	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "wordsmith", "wordsmith.db"), path)
}
