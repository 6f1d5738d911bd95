package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
)

const (
	articleBodyLimit   = 3000
	articleUnavailable = "article body unavailable"
)

// ArticleFetcher extracts the plain-text body of a linked news article to
// give the model real context instead of a bare headline. Best effort only.
type ArticleFetcher struct {
	client *http.Client
}

// NewArticleFetcher wires an HTTP client; nil selects a 10s-timeout default.
func NewArticleFetcher(client *http.Client) *ArticleFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ArticleFetcher{client: client}
}

// Fetch downloads the page and runs readability extraction, returning a
// bounded plain-text body. Any failure degrades to a placeholder string so
// the assessment can still proceed.
func (f *ArticleFetcher) Fetch(ctx context.Context, rawURL string) string {
	body, err := f.fetch(ctx, rawURL)
	if err != nil {
		return articleUnavailable
	}
	return body
}

func (f *ArticleFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http") {
		return "", fmt.Errorf("invalid article url %q", rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse article url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; StockRadar/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article returned %s", resp.Status)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("article %s has no extractable text", rawURL)
	}

	if len(text) > articleBodyLimit {
		text = clipRunes(text, articleBodyLimit) + "..."
	}
	return text, nil
}

// clipRunes caps text at limit bytes, backing up so a multibyte rune is
// never split.
func clipRunes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
