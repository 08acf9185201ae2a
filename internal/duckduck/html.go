package duckduck

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/asemenov/chatground/internal/httpclient"
	"github.com/asemenov/chatground/internal/search"
)

const defaultHTMLSearchURL = "https://html.duckduckgo.com/html/"

// HTMLClient scrapes the rendered DuckDuckGo search results page. Used when
// the instant answer API delivers nothing; it returns organic results from
// across the web rather than curated abstracts.
type HTMLClient struct {
	hc      *httpclient.Client
	baseURL string
	region  string
	parser  SERPParser
}

// NewHTMLClient creates an HTML search client with the structured parser.
// baseURL may be empty to use the public endpoint; region is the kl
// locale parameter (e.g. "ru-ru").
func NewHTMLClient(hc *httpclient.Client, baseURL, region string) *HTMLClient {
	return NewHTMLClientWithParser(hc, baseURL, region, NewStructuredParser())
}

// NewHTMLClientWithParser allows selecting the degraded FallbackParser for
// environments where structured parsing is unavailable.
func NewHTMLClientWithParser(hc *httpclient.Client, baseURL, region string, parser SERPParser) *HTMLClient {
	if baseURL == "" {
		baseURL = defaultHTMLSearchURL
	}
	return &HTMLClient{hc: hc, baseURL: baseURL, region: region, parser: parser}
}

// Name returns the source identifier
func (c *HTMLClient) Name() string {
	return "duckduckgo-html"
}

// Fetch downloads and parses one results page. Failures degrade to an
// empty slice.
func (c *HTMLClient) Fetch(ctx context.Context, query string, maxResults int) []search.Result {
	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", c.region)

	log.Printf("[DuckDuckGo.HTML] Searching for: %q (region=%s)", query, c.region)

	resp, err := c.hc.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		log.Printf("[DuckDuckGo.HTML] Request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[DuckDuckGo.HTML] Unexpected status: %d", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[DuckDuckGo.HTML] Failed to read response: %v", err)
		return nil
	}

	results := c.parser.Parse(string(body), query, maxResults)
	log.Printf("[DuckDuckGo.HTML] Found %d results", len(results))
	return results
}
