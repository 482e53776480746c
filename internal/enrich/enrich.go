// Package enrich adds best-effort related-article context keyed by the
// extracted title. It never blocks or fails the pipeline.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

const (
	maxQueryLen = 200
	maxResults  = 5
)

// Enricher performs the related-web search.
type Enricher struct {
	searcher ports.RelatedSearcher
	logger   *slog.Logger
}

// New wires a search client; nil disables enrichment.
func New(searcher ports.RelatedSearcher, logger *slog.Logger) *Enricher {
	return &Enricher{searcher: searcher, logger: logger}
}

// Related searches for articles matching the title. Any failure is
// swallowed and yields an empty list.
func (e *Enricher) Related(ctx context.Context, title string) []domain.RelatedResult {
	if e == nil || e.searcher == nil {
		return nil
	}

	query := strings.TrimSpace(title)
	if query == "" {
		return nil
	}
	if runes := []rune(query); len(runes) > maxQueryLen {
		query = string(runes[:maxQueryLen])
	}

	results, err := e.searcher.Search(ctx, query, maxResults)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("related search failed", "error", err)
		}
		return nil
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}
