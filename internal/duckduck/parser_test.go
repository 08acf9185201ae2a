package duckduck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serpFixture = `
<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.example.com%2Fpage&rut=abc">Example Page</a>
  <a class="result__snippet">A snippet about the example page.</a>
</div>
<div class="result">
  <a class="result__a" href="https://news.site.org/article">Direct Link</a>
</div>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?rut=broken">No Target</a>
</div>
<div class="result">
  <a class="result__a" href="https://another.example/item">Another</a>
  <a class="result__snippet">Another snippet.</a>
</div>
</body></html>`

func TestStructuredParser(t *testing.T) {
	results := NewStructuredParser().Parse(serpFixture, "пример", 10)

	require.Len(t, results, 3)

	// Redirect wrapper resolved via uddg, source derived from the domain.
	assert.Equal(t, "Example Page", results[0].Title)
	assert.Equal(t, "https://www.example.com/page", results[0].URL)
	assert.Equal(t, "example.com", results[0].Source)
	assert.Equal(t, "A snippet about the example page.", results[0].Snippet)

	// Missing snippet gets the synthesized one.
	assert.Equal(t, "https://news.site.org/article", results[1].URL)
	assert.Equal(t, `Результат поиска для "пример"`, results[1].Snippet)
	assert.Equal(t, "news.site.org", results[1].Source)

	// Unresolvable redirect wrapper was dropped.
	assert.Equal(t, "Another", results[2].Title)
}

func TestStructuredParserMaxResults(t *testing.T) {
	results := NewStructuredParser().Parse(serpFixture, "q", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "Example Page", results[0].Title)
}

func TestStructuredParserNoResults(t *testing.T) {
	assert.Empty(t, NewStructuredParser().Parse("<html><body></body></html>", "q", 5))
}

func TestFallbackParser(t *testing.T) {
	results := NewFallbackParser().Parse(serpFixture, "пример", 10)

	// Regex mode cannot unwrap redirects, so only direct links survive.
	require.Len(t, results, 2)
	assert.Equal(t, "Direct Link", results[0].Title)
	assert.Equal(t, "https://news.site.org/article", results[0].URL)
	assert.Equal(t, "Web", results[0].Source)
	assert.Equal(t, `Результат поиска для "пример"`, results[0].Snippet)
	assert.Equal(t, "Another", results[1].Title)
}

func TestResolveRedirect(t *testing.T) {
	assert.Equal(t, "https://x.test/a b", resolveRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fx.test%2Fa%20b"))
	assert.Equal(t, "https://plain.test/", resolveRedirect("https://plain.test/"))
	assert.Equal(t, "", resolveRedirect("//duckduckgo.com/l/?rut=only"))
	assert.Equal(t, "", resolveRedirect(""))
}
