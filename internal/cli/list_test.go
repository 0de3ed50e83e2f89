package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListCommand(t *testing.T) *ListCommand {
	t.Helper()
	return &ListCommand{Limit: 20, globals: &GlobalFlags{}}
}

func TestList_Empty(t *testing.T) {
	store, _ := openTestStore(t)
	cmd := newListCommand(t)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})
	assert.Contains(t, output, "No texts found")
}

func TestList_NewestFirst(t *testing.T) {
	store, _ := openTestStore(t)
	addTestText(t, store, "Gatsby", "Fiction", "A novel.", "Classic")
	addTestText(t, store, "Atoms", "Science", "Small things.")

	cmd := newListCommand(t)
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	assert.Contains(t, output, "Found 2 texts")
	assert.Contains(t, output, "1. [2] Atoms")
	assert.Contains(t, output, "2. [1] Gatsby")
	assert.Contains(t, output, "Fiction · Classic")
}

func TestList_Filters(t *testing.T) {
	store, _ := openTestStore(t)
	addTestText(t, store, "Gatsby", "Fiction", "A novel about parties.", "Classic")
	addTestText(t, store, "Atoms", "Science", "Small things.", "Physics")
	addTestText(t, store, "Dune", "Fiction", "Sand and spice.")

	tests := []struct {
		name string
		cmd  ListCommand
		args []string
		want []string
	}{
		{"category", ListCommand{Category: "Fiction"}, nil, []string{"Dune", "Gatsby"}},
		{"unknown category", ListCommand{Category: "NonexistentCategory"}, nil, []string{}},
		{"tag", ListCommand{Tag: "Physics"}, nil, []string{"Atoms"}},
		{"query flag", ListCommand{Query: "spice"}, nil, []string{"Dune"}},
		{"query args", ListCommand{}, []string{"about", "parties"}, []string{"Gatsby"}},
		{"limit", ListCommand{Limit: 1}, nil, []string{"Dune"}},
		{"offset", ListCommand{Limit: 1, Offset: 1}, nil, []string{"Atoms"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := tc.cmd
			cmd.globals = &GlobalFlags{JSON: true}

			output := captureOutput(t, func() {
				require.NoError(t, cmd.executeWithStore(store, tc.args))
			})

			var out jsonListOutput
			require.NoError(t, json.Unmarshal([]byte(output), &out))

			titles := make([]string, 0, len(out.Texts))
			for _, text := range out.Texts {
				titles = append(titles, text.Title)
			}
			assert.Equal(t, tc.want, titles)
			assert.Equal(t, len(tc.want), out.Count)
		})
	}
}

func TestList_JSONFields(t *testing.T) {
	store, _ := openTestStore(t)
	text := addTestText(t, store, "Gatsby", "Fiction", "A novel.", "Classic", "Long Read")

	cmd := &ListCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	var out jsonListOutput
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.Len(t, out.Texts, 1)
	got := out.Texts[0]
	assert.Equal(t, text.ID, got.ID)
	assert.Equal(t, []string{"Classic", "Long Read"}, got.Tags)
	assert.Equal(t, 8, got.Bytes)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestList_NegativeLimit(t *testing.T) {
	store, _ := openTestStore(t)
	cmd := &ListCommand{Limit: -1, globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}
