package retrieval

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asemenov/chatground/internal/duckduck"
	"github.com/asemenov/chatground/internal/httpclient"
	"github.com/asemenov/chatground/internal/query"
	"github.com/asemenov/chatground/internal/scraper"
	"github.com/asemenov/chatground/internal/search"
	"github.com/asemenov/chatground/internal/wikipedia"
)

type fixture struct {
	instantStatus int
	instantBody   string
	htmlBody      string
	htmlHits      atomic.Int32
	wikiLangs     []string
	wikiBody      string
}

// newAggregator builds a chain whose sources all point at one test server.
func (f *fixture) newAggregator(t *testing.T, registry *search.Registry) (*Aggregator, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/instant", func(w http.ResponseWriter, r *http.Request) {
		if f.instantStatus != 0 {
			w.WriteHeader(f.instantStatus)
			return
		}
		w.Write([]byte(f.instantBody))
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		f.htmlHits.Add(1)
		w.Write([]byte(f.htmlBody))
	})
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list") == "search" {
			lang := strings.TrimPrefix(strings.TrimSuffix(r.URL.Path, "/api.php"), "/wiki/")
			f.wikiLangs = append(f.wikiLangs, lang)
			w.Write([]byte(f.wikiBody))
			return
		}
		w.Write([]byte(`{"query": {"pages": {"1": {"extract": "Extract text."}}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	hc, err := httpclient.New("")
	require.NoError(t, err)

	if registry == nil {
		registry = search.NewRegistry()
	}
	agg := NewAggregator(
		duckduck.NewInstantClient(hc, srv.URL+"/instant"),
		duckduck.NewHTMLClient(hc, srv.URL+"/html", "ru-ru"),
		wikipedia.NewClient(hc, srv.URL+"/wiki/%s/api.php"),
		registry,
		scraper.NewScraper(hc),
	)
	return agg, srv
}

func budget(max int, fetchContent bool) search.Budget {
	return search.Budget{
		MaxResults:       max,
		FetchContent:     fetchContent,
		PerSourceTimeout: 5 * time.Second,
		OverallTimeout:   15 * time.Second,
	}
}

const instantTwoResults = `{
	"AbstractText": "Answer text.",
	"AbstractURL": "https://a.test/answer",
	"AbstractSource": "Source",
	"Heading": "Answer",
	"RelatedTopics": [{"Text": "Topic text", "FirstURL": "https://a.test/topic"}]
}`

const serpOneResult = `<div class="result">
	<a class="result__a" href="https://web.test/page">Web Result</a>
	<a class="result__snippet">Web snippet.</a>
</div>`

func TestAggregateInstantSkipsHTMLStep(t *testing.T) {
	f := &fixture{instantBody: instantTwoResults, htmlBody: serpOneResult}
	agg, _ := f.newAggregator(t, nil)

	results := agg.Aggregate(context.Background(), query.Detect("test"), budget(2, false))

	require.Len(t, results, 2)
	assert.Equal(t, "Answer", results[0].Title)
	assert.Equal(t, int32(0), f.htmlHits.Load(), "html step must be skipped when instant answered")
	assert.Empty(t, f.wikiLangs, "budget full, encyclopedia must not be consulted")
}

func TestAggregateFallsBackToHTMLOnAccepted(t *testing.T) {
	f := &fixture{
		instantStatus: http.StatusAccepted,
		htmlBody:      serpOneResult,
		wikiBody:      `{"query": {"search": []}}`,
	}
	agg, _ := f.newAggregator(t, nil)

	results := agg.Aggregate(context.Background(), query.Detect("test"), budget(3, false))

	require.Len(t, results, 1)
	assert.Equal(t, "Web Result", results[0].Title)
	assert.Equal(t, int32(1), f.htmlHits.Load())
}

func TestAggregateWikipediaLanguageOrder(t *testing.T) {
	f := &fixture{
		instantStatus: http.StatusAccepted,
		htmlBody:      "",
		wikiBody:      `{"query": {"search": [{"pageid": 1, "title": "Статья"}]}}`,
	}
	agg, _ := f.newAggregator(t, nil)

	results := agg.Aggregate(context.Background(), query.Detect("что это такое"), budget(5, false))

	require.Len(t, results, 2)
	assert.Equal(t, []string{"ru", "en"}, f.wikiLangs)
	assert.Equal(t, "Wikipedia (RU)", results[0].Source)
	assert.Equal(t, "Wikipedia (EN)", results[1].Source)
}

func TestAggregateLatinQueryEnglishOnly(t *testing.T) {
	f := &fixture{
		instantStatus: http.StatusAccepted,
		wikiBody:      `{"query": {"search": [{"pageid": 1, "title": "Article"}]}}`,
	}
	agg, _ := f.newAggregator(t, nil)

	results := agg.Aggregate(context.Background(), query.Detect("plain question"), budget(5, false))

	require.Len(t, results, 1)
	assert.Equal(t, []string{"en"}, f.wikiLangs)
}

type stubSource struct {
	name    string
	results []search.Result
	calls   atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, q string, maxResults int) []search.Result {
	s.calls.Add(1)
	if len(s.results) > maxResults {
		return s.results[:maxResults]
	}
	return s.results
}

func TestAggregateSupplementalSourcesFillRemainingBudget(t *testing.T) {
	extra := &stubSource{name: "extra", results: []search.Result{
		{Title: "Extra 1", Source: "extra"},
		{Title: "Extra 2", Source: "extra"},
	}}
	registry := search.NewRegistry()
	registry.Register(extra)

	f := &fixture{
		instantStatus: http.StatusAccepted,
		htmlBody:      serpOneResult,
		wikiBody:      `{"query": {"search": []}}`,
	}
	agg, _ := f.newAggregator(t, registry)

	results := agg.Aggregate(context.Background(), query.Detect("test"), budget(2, false))

	require.Len(t, results, 2)
	assert.Equal(t, "Web Result", results[0].Title)
	assert.Equal(t, "Extra 1", results[1].Title)
	assert.Equal(t, int32(1), extra.calls.Load())
}

func TestAggregateSupplementalSkippedWhenBudgetFull(t *testing.T) {
	extra := &stubSource{name: "extra", results: []search.Result{{Title: "Extra"}}}
	registry := search.NewRegistry()
	registry.Register(extra)

	f := &fixture{instantBody: instantTwoResults}
	agg, _ := f.newAggregator(t, registry)

	results := agg.Aggregate(context.Background(), query.Detect("test"), budget(2, false))

	require.Len(t, results, 2)
	assert.Equal(t, int32(0), extra.calls.Load())
}

func TestAggregateAllSourcesEmpty(t *testing.T) {
	f := &fixture{
		instantStatus: http.StatusInternalServerError,
		htmlBody:      "",
		wikiBody:      `{"query": {"search": []}}`,
	}
	agg, _ := f.newAggregator(t, nil)

	results := agg.Aggregate(context.Background(), query.Detect("test"), budget(3, false))
	assert.Empty(t, results)
}

func TestAggregateEnrichment(t *testing.T) {
	longText := strings.Repeat("слово ", 400) // well past the full-content cap

	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", longText)
	}))
	defer pageSrv.Close()

	f := &fixture{
		instantBody: fmt.Sprintf(`{
			"AbstractText": "Answer text.",
			"AbstractURL": "%s/page",
			"AbstractSource": "Source",
			"Heading": "Answer",
			"RelatedTopics": []
		}`, pageSrv.URL),
		wikiBody: `{"query": {"search": []}}`,
	}
	agg, _ := f.newAggregator(t, nil)

	results := agg.Aggregate(context.Background(), query.Detect("test"), budget(3, true))

	require.Len(t, results, 1)
	assert.Equal(t, search.FullContentMax, len([]rune(results[0].FullContent)))
	assert.True(t, strings.HasSuffix(results[0].Snippet, "..."))
	assert.Equal(t, search.SnippetMax+3, len([]rune(results[0].Snippet)))
}

func TestAggregateEnrichmentSkipsEncyclopedia(t *testing.T) {
	f := &fixture{
		instantStatus: http.StatusAccepted,
		wikiBody:      `{"query": {"search": [{"pageid": 1, "title": "Article"}]}}`,
	}
	agg, _ := f.newAggregator(t, nil)

	results := agg.Aggregate(context.Background(), query.Detect("plain"), budget(3, true))

	require.Len(t, results, 1)
	// Encyclopedia URLs are never re-fetched; the extract stays as is.
	assert.Empty(t, results[0].FullContent)
	assert.Equal(t, "Extract text.", results[0].Snippet)
}
