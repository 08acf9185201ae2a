package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/asemenov/chatground/internal/httpclient"
	"github.com/asemenov/chatground/internal/search"
)

const defaultAPIURLPattern = "https://%s.wikipedia.org/w/api.php"

// Client queries a MediaWiki API: one search call limited to a single hit,
// then a plain-text introductory extract for that page.
type Client struct {
	hc            *httpclient.Client
	apiURLPattern string
}

// NewClient creates an encyclopedia client. apiURLPattern must contain one
// %s placeholder for the language code; empty uses the public endpoint.
func NewClient(hc *httpclient.Client, apiURLPattern string) *Client {
	if apiURLPattern == "" {
		apiURLPattern = defaultAPIURLPattern
	}
	return &Client{hc: hc, apiURLPattern: apiURLPattern}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			PageID int    `json:"pageid"`
			Title  string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// FetchLang returns at most one result for the given language code, or nil
// when nothing was found or a call failed.
func (c *Client) FetchLang(ctx context.Context, query, lang string) *search.Result {
	apiURL := fmt.Sprintf(c.apiURLPattern, lang)

	log.Printf("[Wikipedia] Searching (%s): %q", lang, query)

	searchParams := url.Values{}
	searchParams.Set("action", "query")
	searchParams.Set("format", "json")
	searchParams.Set("list", "search")
	searchParams.Set("srsearch", query)
	searchParams.Set("srlimit", "1")

	var searchData searchResponse
	if !c.getJSON(ctx, apiURL+"?"+searchParams.Encode(), &searchData) {
		return nil
	}
	if len(searchData.Query.Search) == 0 {
		log.Printf("[Wikipedia] Nothing found (%s)", lang)
		return nil
	}

	pageID := searchData.Query.Search[0].PageID
	title := searchData.Query.Search[0].Title

	extractParams := url.Values{}
	extractParams.Set("action", "query")
	extractParams.Set("format", "json")
	extractParams.Set("prop", "extracts")
	extractParams.Set("exintro", "true")
	extractParams.Set("explaintext", "true")
	extractParams.Set("pageids", strconv.Itoa(pageID))

	var extractData extractResponse
	if !c.getJSON(ctx, apiURL+"?"+extractParams.Encode(), &extractData) {
		return nil
	}

	page, ok := extractData.Query.Pages[strconv.Itoa(pageID)]
	if !ok {
		log.Printf("[Wikipedia] Page %d missing from extract response", pageID)
		return nil
	}

	log.Printf("[Wikipedia] Found article %q (%s)", title, lang)

	return &search.Result{
		Title:   title,
		Snippet: search.Ellipsize(page.Extract, search.SnippetMax),
		URL:     fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, strings.ReplaceAll(title, " ", "_")),
		Source:  fmt.Sprintf("Wikipedia (%s)", strings.ToUpper(lang)),
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) bool {
	resp, err := c.hc.Get(ctx, rawURL)
	if err != nil {
		log.Printf("[Wikipedia] Request failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Wikipedia] Unexpected status: %d", resp.StatusCode)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[Wikipedia] Failed to decode response: %v", err)
		return false
	}
	return true
}
