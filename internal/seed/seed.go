// Package seed loads the bundled sample catalog into a store.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/runnerr0/wordsmith/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed texts.yaml
var fixtureData []byte

type fixtureFile struct {
	Texts []fixture `yaml:"texts"`
}

type fixture struct {
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Body     string   `yaml:"body"`
}

// Fixtures returns the bundled sample texts, unsaved.
func Fixtures() ([]storage.Text, error) {
	return parse(fixtureData)
}

func parse(data []byte) ([]storage.Text, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}

	texts := make([]storage.Text, 0, len(f.Texts))
	for _, fx := range f.Texts {
		texts = append(texts, storage.Text{
			Title:    fx.Title,
			Category: fx.Category,
			Tags:     fx.Tags,
			Body:     fx.Body,
		})
	}
	return texts, nil
}

// Run adds every fixture whose title is not already in the catalog and
// returns how many were created and skipped.
func Run(ctx context.Context, store storage.Store, logger *zap.Logger) (created, skipped int, err error) {
	texts, err := Fixtures()
	if err != nil {
		return 0, 0, err
	}
	return load(ctx, store, logger, texts)
}

func load(ctx context.Context, store storage.Store, logger *zap.Logger, texts []storage.Text) (created, skipped int, err error) {
	categories := make([]string, 0, len(texts))
	for _, t := range texts {
		categories = append(categories, t.Category)
	}
	if err := store.EnsureCategories(ctx, categories); err != nil {
		return 0, 0, err
	}

	for i := range texts {
		text := texts[i]

		existing, err := store.ListTexts(ctx, storage.ListQuery{Title: text.Title, Limit: 1})
		if err != nil {
			return created, skipped, fmt.Errorf("checking %q: %w", text.Title, err)
		}
		if len(existing) > 0 {
			logger.Info("text already exists", zap.String("title", text.Title), zap.Int64("id", existing[0].ID))
			skipped++
			continue
		}

		if err := store.AddText(ctx, &text); err != nil {
			return created, skipped, fmt.Errorf("adding %q: %w", text.Title, err)
		}
		logger.Info("text created",
			zap.String("title", text.Title),
			zap.Int64("id", text.ID),
			zap.Int("chars", len(text.Body)),
		)
		created++
	}

	return created, skipped, nil
}
