package duckduck

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/asemenov/chatground/internal/httpclient"
	"github.com/asemenov/chatground/internal/search"
)

const defaultInstantAPIURL = "https://api.duckduckgo.com/"

// InstantClient queries the DuckDuckGo instant answer API: a structured
// endpoint returning a direct factual abstract plus related topic entries.
type InstantClient struct {
	hc      *httpclient.Client
	baseURL string
}

// NewInstantClient creates an instant answer client. baseURL may be empty
// to use the public endpoint.
func NewInstantClient(hc *httpclient.Client, baseURL string) *InstantClient {
	if baseURL == "" {
		baseURL = defaultInstantAPIURL
	}
	return &InstantClient{hc: hc, baseURL: baseURL}
}

// Name returns the source identifier
func (c *InstantClient) Name() string {
	return "duckduckgo-api"
}

type instantResponse struct {
	Heading        string         `json:"Heading"`
	AbstractText   string         `json:"AbstractText"`
	AbstractURL    string         `json:"AbstractURL"`
	AbstractSource string         `json:"AbstractSource"`
	RelatedTopics  []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// Fetch maps the abstract answer (if any) to one result, then related
// topics up to maxResults. Failures degrade to an empty slice.
func (c *InstantClient) Fetch(ctx context.Context, query string, maxResults int) []search.Result {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	log.Printf("[DuckDuckGo.API] Searching for: %q", query)

	resp, err := c.hc.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		log.Printf("[DuckDuckGo.API] Request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	// 202 means "accepted, no instant answer available" - an empty
	// success, not a failure.
	if resp.StatusCode == http.StatusAccepted {
		log.Printf("[DuckDuckGo.API] Got 202 (accepted, no instant results)")
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[DuckDuckGo.API] Unexpected status: %d", resp.StatusCode)
		return nil
	}

	var data instantResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("[DuckDuckGo.API] Failed to decode response: %v", err)
		return nil
	}

	var results []search.Result

	if data.AbstractText != "" {
		title := data.Heading
		if title == "" {
			title = "DuckDuckGo Answer"
		}
		source := data.AbstractSource
		if source == "" {
			source = "DuckDuckGo"
		}
		results = append(results, search.Result{
			Title:   title,
			Snippet: search.TruncateRunes(data.AbstractText, search.SnippetMax),
			URL:     data.AbstractURL,
			Source:  source,
		})
	}

	for _, topic := range data.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		// Nested topic groups carry no Text of their own; skip them.
		if topic.Text == "" {
			continue
		}
		results = append(results, search.Result{
			Title:   topicTitle(topic.FirstURL),
			Snippet: search.TruncateRunes(topic.Text, search.SnippetMax),
			URL:     topic.FirstURL,
			Source:  "DuckDuckGo",
		})
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	log.Printf("[DuckDuckGo.API] Found %d results", len(results))
	return results
}

// topicTitle derives a readable title from the last path segment of a
// related topic link.
func topicTitle(firstURL string) string {
	if firstURL == "" {
		return ""
	}
	segments := strings.Split(firstURL, "/")
	return strings.ReplaceAll(segments[len(segments)-1], "_", " ")
}
