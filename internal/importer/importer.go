// Package importer turns a web page into a plain-text body suitable for the
// catalog.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	maxPageBytes = 5 << 20
	userAgent    = "wordsmith/1.0 (+https://github.com/runnerr0/wordsmith)"
)

var (
	// ErrUnsupportedURL is returned for anything other than http(s) URLs.
	ErrUnsupportedURL = errors.New("unsupported url")
	// ErrNoContent is returned when no readable text could be extracted.
	ErrNoContent = errors.New("no readable content")

	reWhitespace = regexp.MustCompile(`\s+`)
)

// Article is the readable part of a fetched page.
type Article struct {
	URL     string
	Title   string
	Excerpt string
	Body    string
}

// Fetch downloads rawURL and extracts its main article as plain text.
// A nil client uses http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (*Article, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", parsedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", parsedURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", parsedURL, err)
	}

	return Extract(string(raw), parsedURL)
}

// Extract runs readability over rawHTML and flattens the article to text.
func Extract(rawHTML string, pageURL *url.URL) (*Article, error) {
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing article html: %w", err)
	}
	doc.Find("figure, aside, script, style, noscript, sup.reference, .mw-editsection").Remove()

	body := strings.TrimSpace(reWhitespace.ReplaceAllString(doc.Text(), " "))
	if body == "" {
		return nil, ErrNoContent
	}

	return &Article{
		URL:     pageURL.String(),
		Title:   strings.TrimSpace(article.Title),
		Excerpt: strings.TrimSpace(article.Excerpt),
		Body:    body,
	}, nil
}
