package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/asemenov/chatground/internal/httpclient"
	"github.com/asemenov/chatground/internal/search"
)

const fetchTimeout = 20 * time.Second

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	spaceRuns  = regexp.MustCompile(` +`)
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// extractFunc turns raw HTML into plain text.
type extractFunc func(html string) string

// Scraper fetches a URL and extracts readable text content for the
// retrieval pipeline. Extraction is best-effort: any failure yields
// (_, false) and never an error.
type Scraper struct {
	hc      *httpclient.Client
	extract extractFunc
}

// NewScraper creates a scraper using structured goquery extraction.
func NewScraper(hc *httpclient.Client) *Scraper {
	return &Scraper{hc: hc, extract: extractStructured}
}

// NewNaiveScraper creates a scraper in degraded mode: naive tag stripping
// via pattern matching, for environments without the structured parser.
func NewNaiveScraper(hc *httpclient.Client) *Scraper {
	return &Scraper{hc: hc, extract: extractNaive}
}

// Extract fetches the URL and returns up to maxLength runes of page text.
// Returns ok=false on any fetch or non-200 failure.
func (s *Scraper) Extract(ctx context.Context, rawURL string, maxLength int) (string, bool) {
	log.Printf("[Scraper] Fetching URL: %s", rawURL)

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	resp, err := s.hc.Get(ctx, rawURL)
	if err != nil {
		log.Printf("[Scraper] Request failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Scraper] Status code error: %d", resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Scraper] Failed to read body: %v", err)
		return "", false
	}

	text := s.extract(string(body))
	if text == "" {
		return "", false
	}

	log.Printf("[Scraper] Extracted %d characters", len(text))
	return search.TruncateRunes(text, maxLength), true
}

// extractStructured removes non-content markup and prefers text from an
// article or main container, falling back to whole-document text.
func extractStructured(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("[Scraper] Failed to parse html, using naive extraction: %v", err)
		return extractNaive(html)
	}

	doc.Find("script, style, nav, footer, header").Remove()

	var text string
	for _, selector := range []string{"article", "main", "body"} {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		var parts []string
		container.Find("p, h1, h2, h3, li").Each(func(i int, sel *goquery.Selection) {
			if t := strings.TrimSpace(sel.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		if len(parts) > 0 {
			text = strings.Join(parts, "\n")
		}
		break
	}

	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}

	text = blankLines.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// extractNaive is the degraded mode: strip tags, collapse whitespace.
func extractNaive(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
