package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/wordsmith/internal/analyzer"
	"github.com/runnerr0/wordsmith/internal/chart"
	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/storage"
)

// maxBarWidth caps the '#' run of the widest text histogram bar.
const maxBarWidth = 40

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID <= 0 {
		return fmt.Errorf("--id is required for show command")
	}
	return withStore(c.globals, func(cfg *config.Config, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(store, chart.OptionsFromConfig(cfg.Chart))
	})
}

// executeWithStore prints the text against a provided store (for testing).
func (c *ShowCommand) executeWithStore(store storage.Store, opts chart.Options) error {
	if c.ID <= 0 {
		return fmt.Errorf("--id is required for show command")
	}

	text, err := store.GetText(context.Background(), c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("text %d: %w", c.ID, err)
	}
	if err != nil {
		return fmt.Errorf("get text: %w", err)
	}

	res := analyzer.Analyze(text.Body)

	if c.Chart != "" {
		png, err := chart.Histogram(res.Histogram, opts)
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if err := os.WriteFile(c.Chart, png, 0644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}

	if wantJSON(c.globals) {
		return c.outputJSON(text, res)
	}
	c.outputHuman(text, res)
	return nil
}

func (c *ShowCommand) outputHuman(text *storage.Text, res *analyzer.Result) {
	fmt.Printf("[%d] %s\n", text.ID, text.Title)
	fmt.Printf("Category:   %s\n", text.Category)
	if len(text.Tags) > 0 {
		fmt.Printf("Tags:       %s\n", strings.Join(text.Tags, ", "))
	}
	fmt.Printf("Created:    %s\n", text.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Printf("Words:      %d\n", res.WordCount)
	fmt.Printf("Sentences:  %d (%d hard)\n", res.SentenceCount, res.HardSentences())
	fmt.Printf("Unique:     %d (diversity %.2f)\n", res.UniqueWords, res.LexicalDiversity)
	fmt.Printf("Avg length: %.2f\n", res.AverageWordLength)
	if res.LongestWord != "" {
		fmt.Printf("Longest:    %s\n", res.LongestWord)
	}
	fmt.Printf("Rare words: %.2f\n", res.RareWordRatio)
	fmt.Printf("Consonants: %.2f per word\n", res.AverageConsonants)
	fmt.Printf("Cohesion:   %.3f\n", res.Cohesion)

	if bars := res.Lengths(); len(bars) > 0 {
		fmt.Println()
		fmt.Println("Word lengths:")
		printBars(bars)
	}

	if len(res.RepeatedBigrams) > 0 || len(res.RepeatedTrigrams) > 0 {
		fmt.Println()
		fmt.Println("Repeated phrases:")
		for _, b := range res.RepeatedBigrams {
			fmt.Printf("  %s %s (%d)\n", b.First, b.Second, b.Count)
		}
		for _, tg := range res.RepeatedTrigrams {
			fmt.Printf("  %s %s %s (%d)\n", tg.First, tg.Second, tg.Third, tg.Count)
		}
	}

	if c.Chart != "" {
		fmt.Println()
		fmt.Printf("Chart written to %s\n", c.Chart)
	}

	if c.Body {
		fmt.Println()
		fmt.Println("--- Body ---")
		fmt.Println(text.Body)
	}
}

// phrases flattens repeated bigrams and trigrams into "w1 w2 (n)" strings.
func phrases(res *analyzer.Result) []string {
	out := make([]string, 0, len(res.RepeatedBigrams)+len(res.RepeatedTrigrams))
	for _, b := range res.RepeatedBigrams {
		out = append(out, fmt.Sprintf("%s %s (%d)", b.First, b.Second, b.Count))
	}
	for _, tg := range res.RepeatedTrigrams {
		out = append(out, fmt.Sprintf("%s %s %s (%d)", tg.First, tg.Second, tg.Third, tg.Count))
	}
	return out
}

// printBars renders the histogram as rows of '#', scaled to maxBarWidth.
func printBars(bars []analyzer.LengthCount) {
	peak := 0
	for _, b := range bars {
		if b.Count > peak {
			peak = b.Count
		}
	}
	for _, b := range bars {
		width := b.Count
		if peak > maxBarWidth {
			width = b.Count * maxBarWidth / peak
			if width == 0 {
				width = 1
			}
		}
		fmt.Printf("  %3d | %-*s %d\n", b.Length, maxBarWidth, strings.Repeat("#", width), b.Count)
	}
}

func (c *ShowCommand) outputJSON(text *storage.Text, res *analyzer.Result) error {
	histogram := make(map[string]int, len(res.Histogram))
	for length, count := range res.Histogram {
		histogram[fmt.Sprintf("%d", length)] = count
	}

	out := map[string]interface{}{
		"id":                  text.ID,
		"title":               text.Title,
		"category":            text.Category,
		"tags":                text.Tags,
		"created_at":          text.CreatedAt.UTC().Format(time.RFC3339),
		"word_count":          res.WordCount,
		"sentence_count":      res.SentenceCount,
		"histogram":           histogram,
		"unique_words":        res.UniqueWords,
		"lexical_diversity":   res.LexicalDiversity,
		"average_word_length": res.AverageWordLength,
		"longest_word":        res.LongestWord,
		"rare_word_ratio":     res.RareWordRatio,
		"average_consonants":  res.AverageConsonants,
		"cohesion":            res.Cohesion,
		"hard_sentences":      res.HardSentences(),
		"repeated_phrases":    phrases(res),
	}
	if c.Chart != "" {
		out["chart"] = c.Chart
	}
	if c.Body {
		out["body"] = text.Body
	}

	return printJSON(out)
}
