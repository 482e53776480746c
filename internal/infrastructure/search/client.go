// Package search calls an external web-search service to find articles
// related to the one being analyzed.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"linkdigest/internal/config"
	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

// Client implements ports.RelatedSearcher against a Tavily-style API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ ports.RelatedSearcher = (*Client)(nil)

// NewClient builds the search client from configuration.
func NewClient(cfg config.SearchConfig) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: http.DefaultClient,
	}
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs a basic-depth query and maps the hits to domain results.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.RelatedResult, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return nil, domain.ErrNotConfigured
	}

	body, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]domain.RelatedResult, 0, len(parsed.Results))
	for _, hit := range parsed.Results {
		results = append(results, domain.RelatedResult{
			Title:   hit.Title,
			URL:     hit.URL,
			Excerpt: hit.Content,
			Score:   hit.Score,
		})
	}
	return results, nil
}
