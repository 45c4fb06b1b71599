// Package websearch answers ad-hoc questions with the first snippet from a
// Brave-compatible search API.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nexus-ai/nexus/internal/capability"
)

const braveSearchEndpoint = "https://api.search.brave.com/res/v1/web/search"
const defaultUserAgent = "Nexus"

var _ capability.Searcher = (*Client)(nil)

// Client queries a Brave-compatible web search API.
type Client struct {
	HTTPClient *http.Client
	Provider   string
	APIKey     string

	// Endpoint overrides the API URL, for tests.
	Endpoint string
}

// Search runs the query and returns the most useful one-line snippet from
// the top result. It returns capability.ErrNoAnswer when the API responds
// with no results.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	provider := strings.ToLower(strings.TrimSpace(c.Provider))
	if provider == "" {
		provider = "brave"
	}
	if provider != "brave" {
		return "", fmt.Errorf("unsupported web.search.provider %q", provider)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("web.search.api_key is required")
	}

	client := c.HTTPClient
	if client == nil {
		return "", errors.New("http client is required")
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = braveSearchEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create search request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.APIKey)
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("search request failed: %s", resp.Status)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	for _, result := range payload.Web.Results {
		if snippet := strings.TrimSpace(result.Description); snippet != "" {
			return snippet, nil
		}
		if title := strings.TrimSpace(result.Title); title != "" {
			return title, nil
		}
	}
	return "", capability.ErrNoAnswer
}
