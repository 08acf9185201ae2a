package serpapi

import (
	"context"
	"log"

	g "github.com/serpapi/google-search-results-golang"

	"github.com/asemenov/chatground/internal/search"
)

// Client is a supplemental search source backed by the SerpApi Google
// search service. It is registered only when an API key is configured.
type Client struct {
	apiKey string
}

// NewClient creates a new SerpApi client
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey}
}

// Name returns the source identifier
func (c *Client) Name() string {
	return "serpapi"
}

// Fetch performs a Google search via SerpApi and maps organic results.
// Failures degrade to an empty slice.
func (c *Client) Fetch(ctx context.Context, query string, maxResults int) []search.Result {
	if c.apiKey == "" {
		return nil
	}

	parameter := map[string]string{
		"engine": "google",
		"q":      query,
	}

	log.Printf("[SerpApi] Searching for: %q", query)
	s := g.NewGoogleSearch(parameter, c.apiKey)
	data, err := s.GetJSON()
	if err != nil {
		log.Printf("[SerpApi] Search failed: %v", err)
		return nil
	}

	// Focus on organic_results node
	organicResults, ok := data["organic_results"].([]interface{})
	if !ok {
		log.Printf("[SerpApi] No organic_results found in response")
		return nil
	}

	var results []search.Result
	for _, item := range organicResults {
		if len(results) >= maxResults {
			break
		}
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := res["title"].(string)
		link, _ := res["link"].(string)
		snippet, _ := res["snippet"].(string)

		if title == "" || link == "" {
			continue
		}

		results = append(results, search.Result{
			Title:   title,
			Snippet: search.TruncateRunes(snippet, search.SnippetMax),
			URL:     link,
			Source:  "Google",
		})
	}

	log.Printf("[SerpApi] Found %d organic results", len(results))
	return results
}
