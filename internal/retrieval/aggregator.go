package retrieval

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/asemenov/chatground/internal/duckduck"
	"github.com/asemenov/chatground/internal/query"
	"github.com/asemenov/chatground/internal/scraper"
	"github.com/asemenov/chatground/internal/search"
	"github.com/asemenov/chatground/internal/wikipedia"
)

// Aggregator runs the multi-source retrieval chain: instant answers first,
// the rendered results page when those come back empty, then encyclopedia
// lookups, then any registered supplemental sources. Sources degrade to
// empty on failure, so the chain always produces a (possibly empty) slice.
type Aggregator struct {
	instant  *duckduck.InstantClient
	html     *duckduck.HTMLClient
	wiki     *wikipedia.Client
	registry *search.Registry
	scraper  *scraper.Scraper
}

// NewAggregator wires the retrieval chain together. registry may be empty;
// supplemental sources are consulted only while the budget has room.
func NewAggregator(instant *duckduck.InstantClient, html *duckduck.HTMLClient, wiki *wikipedia.Client, registry *search.Registry, sc *scraper.Scraper) *Aggregator {
	return &Aggregator{
		instant:  instant,
		html:     html,
		wiki:     wiki,
		registry: registry,
		scraper:  sc,
	}
}

// Aggregate collects up to budget.MaxResults results for the query. The
// overall budget bounds the whole chain; each source gets its own slice of
// it. A cancelled context yields whatever was collected so far.
func (a *Aggregator) Aggregate(ctx context.Context, q query.Query, budget search.Budget) []search.Result {
	if budget.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget.OverallTimeout)
		defer cancel()
	}

	log.Printf("[Retrieval] Starting search: %q (max %d)", q.Text, budget.MaxResults)

	results := a.fetchSource(ctx, q.Text, budget, a.instant.Fetch)

	// The instant answer API covers only curated topics; fall back to
	// scraping the rendered results page when it returns nothing.
	if len(results) == 0 {
		results = a.fetchSource(ctx, q.Text, budget, a.html.Fetch)
	}

	// Encyclopedia lookups run even when web results exist, but only while
	// the budget has room. Queries with Cyrillic text consult the Russian
	// edition first.
	langs := []string{"en"}
	if q.Lang == query.LangCyrillic {
		langs = []string{"ru", "en"}
	}
	for _, lang := range langs {
		if len(results) >= budget.MaxResults || ctx.Err() != nil {
			break
		}
		sctx, cancel := a.sourceContext(ctx, budget)
		if r := a.wiki.FetchLang(sctx, q.Text, lang); r != nil {
			results = append(results, *r)
		}
		cancel()
	}

	// Supplemental sources fill remaining budget only.
	if a.registry != nil {
		for _, src := range a.registry.GetAll() {
			if len(results) >= budget.MaxResults || ctx.Err() != nil {
				break
			}
			sctx, cancel := a.sourceContext(ctx, budget)
			results = append(results, src.Fetch(sctx, q.Text, budget.MaxResults-len(results))...)
			cancel()
		}
	}

	if len(results) > budget.MaxResults {
		results = results[:budget.MaxResults]
	}

	if budget.FetchContent && len(results) > 0 {
		a.enrich(ctx, results)
	}

	log.Printf("[Retrieval] Collected %d results", len(results))
	return results
}

func (a *Aggregator) fetchSource(ctx context.Context, text string, budget search.Budget, fetch func(context.Context, string, int) []search.Result) []search.Result {
	if ctx.Err() != nil {
		return nil
	}
	sctx, cancel := a.sourceContext(ctx, budget)
	defer cancel()
	return fetch(sctx, text, budget.MaxResults)
}

func (a *Aggregator) sourceContext(ctx context.Context, budget search.Budget) (context.Context, context.CancelFunc) {
	if budget.PerSourceTimeout > 0 {
		return context.WithTimeout(ctx, budget.PerSourceTimeout)
	}
	return context.WithCancel(ctx)
}

// enrich fetches full page content for each result concurrently, writing
// back by index so ordering is preserved. Encyclopedia pages are skipped:
// their extract already is the article text.
func (a *Aggregator) enrich(ctx context.Context, results []search.Result) {
	var wg sync.WaitGroup
	for i := range results {
		if results[i].URL == "" || isEncyclopediaURL(results[i].URL) {
			continue
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			content, ok := a.scraper.Extract(ctx, results[idx].URL, search.FullContentMax)
			if !ok || content == "" {
				return
			}
			results[idx].FullContent = content
			results[idx].Snippet = search.Ellipsize(content, search.SnippetMax)
		}(i)
	}
	wg.Wait()
}

func isEncyclopediaURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Hostname(), "wikipedia.org")
}
