package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/storage"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	return withStore(c.globals, func(_ *config.Config, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(store, args)
	})
}

// executeWithStore runs the listing against a provided store (for testing).
// Positional args are joined into the query when --query is not set.
func (c *ListCommand) executeWithStore(store storage.Store, args []string) error {
	query := c.Query
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if c.Limit < 0 || c.Offset < 0 {
		return fmt.Errorf("--limit and --offset must not be negative")
	}

	texts, err := store.ListTexts(context.Background(), storage.ListQuery{
		Category: c.Category,
		Tag:      c.Tag,
		Query:    query,
		Limit:    c.Limit,
		Offset:   c.Offset,
	})
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if wantJSON(c.globals) {
		return c.printJSON(query, texts)
	}
	c.printHuman(texts)
	return nil
}

func (c *ListCommand) printHuman(texts []storage.Text) {
	if len(texts) == 0 {
		fmt.Println("No texts found")
		return
	}

	noun := "texts"
	if len(texts) == 1 {
		noun = "text"
	}
	fmt.Printf("Found %d %s\n\n", len(texts), noun)

	for i, t := range texts {
		fmt.Printf("%d. [%d] %s\n", i+1+c.Offset, t.ID, t.Title)

		meta := t.CreatedAt.Local().Format("2006-01-02 15:04") + " · " + t.Category
		if len(t.Tags) > 0 {
			meta += " · " + strings.Join(t.Tags, ", ")
		}
		fmt.Printf("   %s\n", meta)

		if i < len(texts)-1 {
			fmt.Println()
		}
	}
}

type jsonText struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	Bytes     int      `json:"bytes"`
}

type jsonListOutput struct {
	Count int        `json:"count"`
	Query string     `json:"query,omitempty"`
	Texts []jsonText `json:"texts"`
}

func (c *ListCommand) printJSON(query string, texts []storage.Text) error {
	out := jsonListOutput{
		Count: len(texts),
		Query: query,
		Texts: make([]jsonText, len(texts)),
	}

	for i, t := range texts {
		out.Texts[i] = jsonText{
			ID:        t.ID,
			Title:     t.Title,
			Category:  t.Category,
			Tags:      t.Tags,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
			Bytes:     len(t.Body),
		}
	}

	return printJSON(out)
}
