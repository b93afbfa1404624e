package yahoo

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// BaseURL for the Yahoo Fantasy Sports API
	BaseURL = "https://fantasysports.yahooapis.com/fantasy/v2"

	// MinRequestInterval to stay under the API rate limit
	MinRequestInterval = 2 * time.Second

	maxBodyPreview = 200
)

// Client fetches league standings feeds with rate limiting
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration
}

// New creates a feed client for baseURL authenticating with an OAuth access token
func New(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	log.Printf("[yahoo-client] New() called with baseURL: %s", baseURL)
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		interval:    MinRequestInterval,
	}
}

// WithInterval overrides the minimum spacing between requests
func (c *Client) WithInterval(interval time.Duration) *Client {
	c.interval = interval
	return c
}

// FetchStandings fetches the raw standings document for a league key (e.g. "nfl.l.12345")
func (c *Client) FetchStandings(ctx context.Context, leagueKey string) (string, error) {
	if strings.TrimSpace(leagueKey) == "" {
		return "", fmt.Errorf("league key is required")
	}
	endpoint := fmt.Sprintf("%s/league/%s/standings", c.baseURL, url.PathEscape(leagueKey))
	return c.fetchWithRateLimit(ctx, endpoint)
}

// fetchWithRateLimit fetches content with automatic rate limiting
func (c *Client) fetchWithRateLimit(ctx context.Context, endpoint string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			waitTime := c.interval - elapsed
			log.Printf("[yahoo-client] Rate limiting: waiting %v before next request", waitTime)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	body, err := c.fetch(ctx, endpoint)
	c.lastRequest = time.Now()

	return body, err
}

// fetch performs the HTTP GET
func (c *Client) fetch(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	log.Printf("[yahoo-client] GET %s", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, preview(body))
	}

	if len(body) == 0 {
		return "", fmt.Errorf("empty standings document returned")
	}

	log.Printf("[yahoo-client] ✓ Response (first %d chars): %s", maxBodyPreview, preview(body))
	return string(body), nil
}

func preview(body []byte) string {
	return string(body[:min(len(body), maxBodyPreview)])
}
