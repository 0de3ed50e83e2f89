package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/runnerr0/wordsmith/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurge_WithoutAllFlag_Errors(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestPurge_WithAllAndForce_Succeeds(t *testing.T) {
	store, db := openTestStore(t)
	addTestText(t, store, "Gatsby", "Fiction", "A novel.", "Classic")
	addTestText(t, store, "Atoms", "Science", "Small things.")

	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{}}
	cmd.setDB(db)

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Purged all texts")

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalTexts)
	assert.Equal(t, int64(0), stats.TotalTags)
	assert.Equal(t, int64(6), stats.TotalCategories, "categories survive a purge")
}

func TestPurge_JSONOutput(t *testing.T) {
	_, db := openTestStore(t)

	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{JSON: true}}
	cmd.setDB(db)

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output should be valid JSON: %s", output)
	assert.Equal(t, true, result["purged"])
	assert.Equal(t, "all texts deleted", result["message"])
}

func TestPurge_ConfirmationAccepted(t *testing.T) {
	store, db := openTestStore(t)
	addTestText(t, store, "Gatsby", "Fiction", "A novel.")

	cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, in: strings.NewReader("PURGE\n")}
	cmd.setDB(db)

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)
	assert.Contains(t, output, `Type "PURGE" to confirm`)

	texts, err := store.ListTexts(context.Background(), storage.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestPurge_ConfirmationRejected(t *testing.T) {
	store, db := openTestStore(t)
	addTestText(t, store, "Gatsby", "Fiction", "A novel.")

	for _, input := range []string{"purge\n", "no\n", ""} {
		cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, in: strings.NewReader(input)}
		cmd.setDB(db)

		var err error
		captureOutput(t, func() {
			err = cmd.Execute(nil)
		})
		require.Error(t, err, "input %q", input)
		assert.Contains(t, err.Error(), "aborted")
	}

	texts, err := store.ListTexts(context.Background(), storage.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, texts, 1)
}
