// Package reader wraps the external reader proxy, which renders a page
// server-side and returns structured article content.
package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/config"
	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

// Client implements ports.ReaderClient.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ ports.ReaderClient = (*Client)(nil)

// NewClient builds the reader client from configuration.
func NewClient(cfg config.ReaderConfig) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type readerResponse struct {
	Data struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Content     string            `json:"content"`
		Images      map[string]string `json:"images"`
		SiteName    string            `json:"siteName"`
		Author      string            `json:"author"`
	} `json:"data"`
}

// Read asks the proxy to render the target page. The target URL is appended
// to the endpoint path, which is how these services address pages.
func (c *Client) Read(ctx context.Context, targetURL string) (domain.ExtractedContent, error) {
	if c.endpoint == "" {
		return domain.ExtractedContent{}, domain.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+targetURL, nil)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-With-Images-Summary", "true")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("call reader: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.ExtractedContent{}, fmt.Errorf("reader error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed readerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("decode reader response: %w", err)
	}

	body := strings.TrimSpace(parsed.Data.Content)
	if body == "" {
		return domain.ExtractedContent{}, fmt.Errorf("%w: empty reader payload", domain.ErrBadResponseShape)
	}

	images := make([]domain.ImageRef, 0, len(parsed.Data.Images))
	for alt, src := range parsed.Data.Images {
		if src == "" {
			continue
		}
		images = append(images, domain.ImageRef{Src: src, Alt: alt})
	}

	return domain.ExtractedContent{
		Title:       cleaner.DecodeEntities(parsed.Data.Title),
		Description: cleaner.DecodeEntities(parsed.Data.Description),
		BodyText:    cleaner.DecodeEntities(body),
		Images:      images,
		SiteName:    parsed.Data.SiteName,
		Author:      parsed.Data.Author,
	}, nil
}
