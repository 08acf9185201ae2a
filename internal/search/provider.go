package search

import (
	"context"
	"time"
)

// Snippet and content caps, in runes.
const (
	SnippetMax     = 500
	FullContentMax = 1500
	FragmentMax    = 800
)

// Result is one normalized search result from any source.
type Result struct {
	Title   string
	Snippet string
	URL     string // may be empty
	Source  string
	// FullContent holds scraped page text when content enrichment ran for
	// this result. It supersedes Snippet for formatting but both are kept.
	FullContent string
}

// Budget bounds a single aggregation call.
type Budget struct {
	MaxResults       int
	FetchContent     bool
	PerSourceTimeout time.Duration
	OverallTimeout   time.Duration
}

// Source is the interface all search sources implement. Fetch never fails:
// network errors, timeouts and malformed payloads degrade to an empty slice
// with a logged diagnostic.
type Source interface {
	// Name returns the source identifier (e.g. "duckduckgo-api")
	Name() string

	// Fetch returns up to maxResults normalized results, or nil
	Fetch(ctx context.Context, query string, maxResults int) []Result
}
