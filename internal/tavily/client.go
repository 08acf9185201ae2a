package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/asemenov/chatground/internal/search"
)

const apiURL = "https://api.tavily.com/search"

// Client is a supplemental search source backed by the Tavily Search API.
// It is registered only when an API key is configured.
type Client struct {
	apiKey string
	client *http.Client
}

// NewClient creates a new Tavily API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// searchRequest represents the Tavily search request payload
type searchRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth,omitempty"` // "basic" or "advanced"
	MaxResults  int    `json:"max_results,omitempty"`
}

// searchResult represents a single search result from Tavily
type searchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"` // Snippet
	Score   float64 `json:"score"`
}

// searchResponse represents the Tavily search response
type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

// Name returns the source identifier
func (c *Client) Name() string {
	return "tavily"
}

// Fetch performs a basic-depth search. Failures degrade to an empty slice.
func (c *Client) Fetch(ctx context.Context, query string, maxResults int) []search.Result {
	if c.apiKey == "" {
		return nil
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	reqBody := searchRequest{
		Query:       query,
		APIKey:      c.apiKey,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		log.Printf("[Tavily] Failed to marshal request: %v", err)
		return nil
	}

	log.Printf("[Tavily] Searching for: %q (max %d results)", query, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Printf("[Tavily] Failed to create request: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[Tavily] Request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("[Tavily] API error: %d %s", resp.StatusCode, string(bodyBytes))
		return nil
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("[Tavily] Failed to decode response: %v", err)
		return nil
	}

	var results []search.Result
	for _, r := range data.Results {
		if len(results) >= maxResults {
			break
		}
		if r.Title == "" || r.URL == "" {
			continue
		}
		results = append(results, search.Result{
			Title:   r.Title,
			Snippet: search.TruncateRunes(r.Content, search.SnippetMax),
			URL:     r.URL,
			Source:  "Tavily",
		})
	}

	log.Printf("[Tavily] Found %d results for query: %s", len(results), query)
	return results
}
