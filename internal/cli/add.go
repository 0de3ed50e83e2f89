package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/wordsmith/internal/analyzer"
	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/importer"
	"github.com/runnerr0/wordsmith/internal/storage"
)

const fetchTimeout = 30 * time.Second

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if err := c.validateFlags(); err != nil {
		return err
	}
	return withStore(c.globals, func(_ *config.Config, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(store)
	})
}

func (c *AddCommand) validateFlags() error {
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("--category is required for add command")
	}

	sources := 0
	for _, s := range []string{c.Body, c.BodyFile, c.FromURL} {
		if s != "" {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("one of --body, --body-file or --from-url is required")
	}
	if sources > 1 {
		return fmt.Errorf("--body, --body-file and --from-url are mutually exclusive")
	}

	if c.FromURL == "" && strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("--title is required for add command")
	}
	return nil
}

// resolveBody returns the title and body from whichever source was given.
func (c *AddCommand) resolveBody(ctx context.Context) (title, body string, err error) {
	title = c.Title

	switch {
	case c.BodyFile == "-":
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return "", "", fmt.Errorf("reading body from stdin: %w", err)
		}
		body = string(data)
	case c.BodyFile != "":
		data, err := os.ReadFile(c.BodyFile)
		if err != nil {
			return "", "", fmt.Errorf("reading body file: %w", err)
		}
		body = string(data)
	case c.FromURL != "":
		client := c.client
		if client == nil {
			client = &http.Client{Timeout: fetchTimeout}
		}
		article, err := importer.Fetch(ctx, client, c.FromURL)
		if err != nil {
			return "", "", fmt.Errorf("importing %s: %w", c.FromURL, err)
		}
		body = article.Body
		if strings.TrimSpace(title) == "" {
			title = article.Title
		}
	default:
		body = c.Body
	}

	return title, body, nil
}

// executeWithStore runs the add logic against a provided store (used by tests).
func (c *AddCommand) executeWithStore(store storage.Store) error {
	if err := c.validateFlags(); err != nil {
		return err
	}

	ctx := context.Background()
	title, body, err := c.resolveBody(ctx)
	if err != nil {
		return err
	}

	text := &storage.Text{
		Title:    title,
		Category: c.Category,
		Tags:     c.Tags,
		Body:     body,
	}
	if err := store.AddText(ctx, text); err != nil {
		return fmt.Errorf("storing text: %w", err)
	}

	res := analyzer.Analyze(text.Body)

	if wantJSON(c.globals) {
		return printJSON(map[string]interface{}{
			"id":             text.ID,
			"title":          text.Title,
			"category":       text.Category,
			"tags":           text.Tags,
			"created_at":     text.CreatedAt.UTC().Format(time.RFC3339),
			"word_count":     res.WordCount,
			"sentence_count": res.SentenceCount,
		})
	}

	fmt.Printf("Added text %d (%s)\n", text.ID, text.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Title:     %s\n", text.Title)
	fmt.Printf("  Category:  %s\n", text.Category)
	if len(text.Tags) > 0 {
		fmt.Printf("  Tags:      %s\n", strings.Join(text.Tags, ", "))
	}
	fmt.Printf("  Words:     %d\n", res.WordCount)
	fmt.Printf("  Sentences: %d\n", res.SentenceCount)

	return nil
}
