package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("0.1.0-test", []string{"--version"})
	})

	assert.NoError(t, err)
	assert.Equal(t, "wordsmith 0.1.0-test", strings.TrimSpace(output))
}

func TestAllSubcommandsExist(t *testing.T) {
	expected := []string{"serve", "add", "list", "show", "delete", "seed", "status", "purge"}
	parser, _, _ := buildParser("test")

	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestUnknownSubcommandFails(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"nonexistent"})
	require.Error(t, err)
}

func TestHelpFlagDoesNotError(t *testing.T) {
	var err error
	captureOutput(t, func() {
		err = RunWithArgs("test", []string{"--help"})
	})
	assert.NoError(t, err)
}

func TestShowRequiresID(t *testing.T) {
	err := RunWithArgs("test", []string{"show"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id is required")
}

func TestDeleteRequiresID(t *testing.T) {
	err := RunWithArgs("test", []string{"delete", "--force"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id is required")
}

func TestAddRequiresCategory(t *testing.T) {
	err := RunWithArgs("test", []string{"add", "--title", "Test", "--body", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--category is required")
}

func TestPurgeRequiresAll(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestListFlags(t *testing.T) {
	isolateHome(t)
	p, globals, c := buildParser("test")

	captureOutput(t, func() {
		_, err := p.ParseArgs([]string{"--json", "list", "--category", "Fiction", "--tag", "Classic", "-q", "gatsby", "--limit", "5"})
		require.NoError(t, err)
	})

	assert.True(t, globals.JSON)
	assert.Equal(t, "Fiction", c.List.Category)
	assert.Equal(t, "Classic", c.List.Tag)
	assert.Equal(t, "gatsby", c.List.Query)
	assert.Equal(t, 5, c.List.Limit)
	assert.Equal(t, 0, c.List.Offset)
}

func TestAddRepeatableTag(t *testing.T) {
	isolateHome(t)
	p, _, c := buildParser("test")

	captureOutput(t, func() {
		_, err := p.ParseArgs([]string{"add", "--title", "T", "--category", "Fiction", "--body", "Hi.", "--tag", "a", "--tag", "b"})
		require.NoError(t, err)
	})
	assert.Equal(t, []string{"a", "b"}, c.Add.Tags)
}

func TestGlobalConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := "storage:\n  path: " + dir + "\n  sqlite_file: custom.db\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0644))

	var err error
	captureOutput(t, func() {
		err = RunWithArgs("test", []string{"--config", cfgPath, "list"})
	})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "custom.db"))
	assert.NoError(t, statErr, "database should be created at the configured path")
}

func TestEndToEnd(t *testing.T) {
	home := isolateHome(t)

	run := func(args ...string) (string, error) {
		var err error
		out := captureOutput(t, func() {
			err = RunWithArgs("e2e", args)
		})
		return out, err
	}

	out, err := run("--json", "add", "--title", "Fox", "--category", "Fiction", "--tag", "Short", "--body", "The quick brown fox.")
	require.NoError(t, err)
	var added map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.EqualValues(t, 1, added["id"])
	assert.EqualValues(t, 4, added["word_count"])

	_, err = os.Stat(filepath.Join(home, ".config", "wordsmith", "config.yaml"))
	assert.NoError(t, err, "default config should be created on first use")

	out, err = run("list", "--category", "Fiction")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 text")
	assert.Contains(t, out, "Fox")

	out, err = run("list", "--category", "NonexistentCategory")
	require.NoError(t, err)
	assert.Contains(t, out, "No texts found")

	out, err = run("show", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Words:      4")
	assert.Contains(t, out, "Sentences:  1")

	_, err = run("delete", "--id", "1", "--force")
	require.NoError(t, err)

	_, err = run("show", "--id", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text 1: not found")
}
