package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runnerr0/wordsmith/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_InlineBody(t *testing.T) {
	store, _ := openTestStore(t)
	cmd := &AddCommand{
		Title:    "Fox",
		Category: "Fiction",
		Tags:     []string{"Short", "Animals"},
		Body:     "The quick brown fox.",
		globals:  &GlobalFlags{},
	}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	assert.Contains(t, output, "Added text 1")
	assert.Contains(t, output, "Title:     Fox")
	assert.Contains(t, output, "Tags:      Short, Animals")
	assert.Contains(t, output, "Words:     4")
	assert.Contains(t, output, "Sentences: 1")

	text, err := store.GetText(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox.", text.Body)
	assert.Equal(t, []string{"Short", "Animals"}, text.Tags)
}

func TestAdd_BodyFile(t *testing.T) {
	store, _ := openTestStore(t)
	path := filepath.Join(t.TempDir(), "body.txt")
	require.NoError(t, os.WriteFile(path, []byte("One. Two. Three."), 0644))

	cmd := &AddCommand{Title: "Counting", Category: "Science", BodyFile: path, globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.EqualValues(t, 3, out["sentence_count"])
	assert.Equal(t, "Science", out["category"])
}

func TestAdd_BodyFromStdin(t *testing.T) {
	store, _ := openTestStore(t)
	cmd := &AddCommand{
		Title:    "Piped",
		Category: "History",
		BodyFile: "-",
		globals:  &GlobalFlags{},
		in:       strings.NewReader("Piped in from stdin."),
	}

	captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	texts, err := store.ListTexts(context.Background(), storage.ListQuery{Title: "Piped"})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "Piped in from stdin.", texts[0].Body)
}

func TestAdd_MissingBodyFile(t *testing.T) {
	store, _ := openTestStore(t)
	cmd := &AddCommand{Title: "X", Category: "Science", BodyFile: "/nonexistent/body.txt", globals: &GlobalFlags{}}

	err := cmd.executeWithStore(store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading body file")
}

func TestAdd_FromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Stoicism</title></head><body><article>
			<h1>Stoicism</h1>
			<p>Stoicism is a school of Hellenistic philosophy founded by Zeno of Citium in Athens in the early 3rd century BC.
			It is a philosophy of personal ethics informed by its system of logic and its views on the natural world.</p>
			<p>The Stoics were especially known for teaching that virtue is the only good for human beings, and that
			external things such as health, wealth, and pleasure are not good or bad in themselves.</p>
		</article></body></html>`)
	}))
	defer srv.Close()

	store, _ := openTestStore(t)
	cmd := &AddCommand{
		Category: "Philosophy",
		FromURL:  srv.URL + "/stoicism",
		globals:  &GlobalFlags{},
		client:   srv.Client(),
	}

	captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	texts, err := store.ListTexts(context.Background(), storage.ListQuery{Category: "Philosophy"})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.NotEmpty(t, texts[0].Title, "title should default to the page title")
	assert.Contains(t, texts[0].Body, "Zeno of Citium")
}

func TestAdd_FlagValidation(t *testing.T) {
	store, _ := openTestStore(t)

	tests := []struct {
		name string
		cmd  AddCommand
		want string
	}{
		{"no category", AddCommand{Title: "T", Body: "b"}, "--category is required"},
		{"no body source", AddCommand{Title: "T", Category: "Fiction"}, "one of --body, --body-file or --from-url is required"},
		{"two body sources", AddCommand{Title: "T", Category: "Fiction", Body: "b", BodyFile: "f"}, "mutually exclusive"},
		{"no title", AddCommand{Category: "Fiction", Body: "b"}, "--title is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := tc.cmd
			cmd.globals = &GlobalFlags{}
			err := cmd.executeWithStore(store)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestAdd_StoreValidationError(t *testing.T) {
	store, _ := openTestStore(t)
	cmd := &AddCommand{Title: "Poem", Category: "Poetry", Body: "Roses are red.", globals: &GlobalFlags{}}

	err := cmd.executeWithStore(store)
	require.Error(t, err)
	v, ok := storage.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, v.Fields, "category")
}
