package storage

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleRunes = 200
	maxTagRunes   = 50
)

// Text is a single catalog entry.
type Text struct {
	ID        int64
	Title     string
	Category  string
	Tags      []string // ordered, duplicates removed
	Body      string
	CreatedAt time.Time
}

// Category is one member of the enumerated category set.
type Category struct {
	ID          int64
	Name        string
	Description string
	TextCount   int64
}

// Tag is a free-form label attached to texts.
type Tag struct {
	ID        int64
	Name      string
	TextCount int64
}

// ListQuery defines filters for listing texts. Category, Tag and Title are
// exact matches; Query is a case-insensitive substring match over title and
// body.
type ListQuery struct {
	Category string
	Tag      string
	Title    string
	Query    string
	Limit    int
	Offset   int
}

// Stats holds aggregate statistics about the catalog.
type Stats struct {
	TotalTexts      int64
	TotalCategories int64
	TotalTags       int64
	TotalBytes      int64
	OldestText      time.Time
	NewestText      time.Time
	Categories      []CategoryCount
}

// CategoryCount pairs a category with its text count.
type CategoryCount struct {
	Category string
	Count    int64
}

// Normalize trims whitespace from the scalar fields and cleans the tag list:
// blank tags are dropped and duplicates removed, keeping first occurrence.
func (t *Text) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Category = strings.TrimSpace(t.Category)

	seen := make(map[string]bool, len(t.Tags))
	tags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	t.Tags = tags
}

// Validate reports missing or oversized fields. It does not check that the
// category exists; the store does that against the categories table.
func (t *Text) Validate() error {
	v := &ValidationError{}

	switch {
	case t.Title == "":
		v.Add("title", "title is required")
	case utf8.RuneCountInString(t.Title) > maxTitleRunes:
		v.Add("title", fmt.Sprintf("title must be at most %d characters", maxTitleRunes))
	}

	if t.Category == "" {
		v.Add("category", "category is required")
	}

	if strings.TrimSpace(t.Body) == "" {
		v.Add("body", "body is required")
	}

	for _, tag := range t.Tags {
		if utf8.RuneCountInString(tag) > maxTagRunes {
			v.Add("tags", fmt.Sprintf("tag %q must be at most %d characters", tag, maxTagRunes))
			break
		}
	}

	if v.Empty() {
		return nil
	}
	return v
}
