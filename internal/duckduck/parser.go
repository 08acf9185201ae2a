package duckduck

import (
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/asemenov/chatground/internal/search"
)

const redirectPrefix = "//duckduckgo.com/l/?"

// SERPParser extracts result entries from a rendered search results page.
// The parser is chosen once at client construction: StructuredParser when
// available, FallbackParser otherwise.
type SERPParser interface {
	Parse(html, query string, maxResults int) []search.Result
}

// StructuredParser selects result blocks by class via goquery.
type StructuredParser struct{}

// NewStructuredParser creates the preferred class-based parser.
func NewStructuredParser() *StructuredParser {
	return &StructuredParser{}
}

// Parse walks div.result blocks, resolving redirect-wrapper URLs and
// deriving the source from the target domain.
func (p *StructuredParser) Parse(html, query string, maxResults int) []search.Result {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("[DuckDuckGo.HTML] Failed to parse document: %v", err)
		return nil
	}

	var results []search.Result
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}

		titleLink := sel.Find("a.result__a").First()
		if titleLink.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(titleLink.Text())
		href, _ := titleLink.Attr("href")

		target := resolveRedirect(href)
		if target == "" {
			return true
		}

		snippet := strings.TrimSpace(sel.Find("a.result__snippet").First().Text())
		if snippet == "" {
			snippet = syntheticSnippet(query)
		}

		results = append(results, search.Result{
			Title:   title,
			Snippet: search.TruncateRunes(snippet, search.SnippetMax),
			URL:     target,
			Source:  domainSource(target),
		})
		return true
	})

	return results
}

// FallbackParser is the degraded mode: a regular-expression extraction of
// anchor tags with a synthesized generic snippet. Used only when the
// structured parser is not selected.
type FallbackParser struct{}

var anchorPattern = regexp.MustCompile(`<a class="result__a"[^>]*href="([^"]*)"[^>]*>([^<]*)</a>`)

// NewFallbackParser creates the degraded regex parser.
func NewFallbackParser() *FallbackParser {
	return &FallbackParser{}
}

func (p *FallbackParser) Parse(html, query string, maxResults int) []search.Result {
	var results []search.Result
	for _, match := range anchorPattern.FindAllStringSubmatch(html, -1) {
		if len(results) >= maxResults {
			break
		}
		href, title := match[1], strings.TrimSpace(match[2])
		if href == "" || title == "" {
			continue
		}
		// Redirect wrappers cannot be resolved without structured parsing.
		if strings.HasPrefix(href, redirectPrefix) {
			continue
		}
		results = append(results, search.Result{
			Title:   title,
			Snippet: syntheticSnippet(query),
			URL:     href,
			Source:  "Web",
		})
	}
	return results
}

// resolveRedirect extracts the real target from DuckDuckGo's redirect
// wrapper. Returns "" when the link cannot be resolved.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if !strings.HasPrefix(href, redirectPrefix) {
		return href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	target := parsed.Query().Get("uddg")
	if target == "" {
		return ""
	}
	if decoded, err := url.QueryUnescape(target); err == nil {
		return decoded
	}
	return target
}

// domainSource derives a source label from the result's domain name.
func domainSource(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "Web"
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

func syntheticSnippet(query string) string {
	return fmt.Sprintf("Результат поиска для \"%s\"", query)
}
