package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"

	"github.com/runnerr0/wordsmith/internal/storage"
	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-done
}

// openTestStore creates a migrated in-memory store.
func openTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	store, db, err := storage.Open(storage.MemoryPath, "wal")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		db.Close()
	})
	return store, db
}

func addTestText(t *testing.T, store storage.Store, title, category, body string, tags ...string) *storage.Text {
	t.Helper()
	text := &storage.Text{Title: title, Category: category, Body: body, Tags: tags}
	require.NoError(t, store.AddText(context.Background(), text))
	return text
}

// isolateHome points $HOME at a temp dir so default config and database
// paths stay inside the test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}
