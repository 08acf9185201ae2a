package httpclient

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// UserAgent is the browser-like user agent sent on every outbound request.
// The HTML search endpoint rejects requests without one.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client is the process-wide HTTP client shared by all search sources and
// the scraper. Configuration is immutable after construction; the client is
// safe for concurrent use.
type Client struct {
	client    *http.Client
	userAgent string
}

// New creates the shared client. proxyURL may be empty; when set it is used
// for all outbound requests (http, https and socks5 schemes are supported).
func New(proxyURL string) (*Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(parsed)
		log.Printf("[HTTPClient] Using proxy %s", proxyURL)
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			// Backstop only; every call carries its own context deadline.
			Timeout: 60 * time.Second,
		},
		userAgent: UserAgent,
	}, nil
}

// Get performs a GET request with the shared user agent. The caller owns the
// response body.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// Do forwards a prepared request through the shared client, filling in the
// user agent when the caller has not set one.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.client.Do(req)
}
