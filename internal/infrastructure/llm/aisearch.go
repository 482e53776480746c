package llm

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

// AISearchClient implements ports.SocialSearcher with the web-search tool of
// an OpenAI-compatible responses API. It retrieves posts that a direct fetch
// cannot reach because the platform walls them behind a login page.
type AISearchClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.SocialSearcher = (*AISearchClient)(nil)

// NewAISearchClient builds the client from the shared completion credentials.
func NewAISearchClient(cfg config.CompletionConfig) *AISearchClient {
	return &AISearchClient{
		endpoint: cfg.SearchEndpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Configured reports whether lookups can be attempted.
func (c *AISearchClient) Configured() bool {
	return c != nil && c.apiKey != "" && c.endpoint != "" && c.model != ""
}

type searchToolRequest struct {
	Model string           `json:"model"`
	Tools []map[string]any `json:"tools"`
	Input string           `json:"input"`
}

type searchToolResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// LookupPost asks the search tool for the verbatim text of one post.
func (c *AISearchClient) LookupPost(ctx context.Context, handle, postID, postURL string) (string, error) {
	if !c.Configured() {
		return "", domain.ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"Find the post at %s by @%s (post id %s). Reply with the full verbatim text of the post and nothing else. If the post cannot be found, reply with the single word NOTFOUND.",
		postURL, handle, postID,
	)

	body, err := json.Marshal(searchToolRequest{
		Model: c.model,
		Tools: []map[string]any{{
			"type":            "web_search",
			"allowed_handles": []string{handle},
		}},
		Input: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call search tool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("search tool error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed searchToolResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	text := assistantText(parsed)
	if text == "" || strings.EqualFold(text, "NOTFOUND") {
		return "", fmt.Errorf("%w: no post text in search response", domain.ErrBadResponseShape)
	}
	return text, nil
}

// assistantText collects output_text blocks from assistant messages, skipping
// tool-call bookkeeping items.
func assistantText(parsed searchToolResponse) string {
	var parts []string
	for _, item := range parsed.Output {
		if item.Role != "assistant" {
			continue
		}
		for _, block := range item.Content {
			if block.Type == "output_text" && strings.TrimSpace(block.Text) != "" {
				parts = append(parts, strings.TrimSpace(block.Text))
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
