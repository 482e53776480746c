// Package analysis turns extracted content into a structured summary via an
// external text-completion service, with a local fallback that keeps the
// result fully populated when the service is unavailable.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

const (
	completionTimeout     = 30 * time.Second
	completionMaxTokens   = 1500
	completionTemperature = 0.4
	minAnalyzableContent  = 100
)

// Generator produces article analyses.
type Generator struct {
	completion ports.CompletionClient
	logger     *slog.Logger
	timeout    time.Duration
}

// NewGenerator wires the completion client. A zero timeout gets the default
// 30 seconds.
func NewGenerator(completion ports.CompletionClient, logger *slog.Logger, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = completionTimeout
	}
	return &Generator{completion: completion, logger: logger, timeout: timeout}
}

// Request carries everything the generator needs for one article.
type Request struct {
	URL      string
	Class    domain.URLClass
	Content  domain.ExtractedContent
	Related  []domain.RelatedResult
	Terminal bool // content is a synthesized terminal-fallback record
}

// Analyze returns a validated analysis, falling back to the local generator
// when the completion call fails or is skipped. It never returns a partial
// record.
func (g *Generator) Analyze(ctx context.Context, req Request) domain.Analysis {
	if g.shouldSkip(req) {
		g.debug("skipping completion call", "url", req.URL, "terminal", req.Terminal)
		return g.withRelated(Fallback(req.Content, req.Class, req.URL), req.Related)
	}

	a, err := g.Generate(ctx, req.Content.Title, req.Content.BodyText, req.Related)
	if err != nil {
		g.warn("completion analysis failed, using local fallback", "url", req.URL, "error", err)
		return g.withRelated(Fallback(req.Content, req.Class, req.URL), req.Related)
	}
	return g.withRelated(a, req.Related)
}

// Generate calls the completion service and parses/validates the response.
func (g *Generator) Generate(ctx context.Context, title, content string, related []domain.RelatedResult) (domain.Analysis, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []ports.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: BuildPrompt(title, content, related)},
	}

	raw, err := g.completion.Complete(callCtx, messages, completionMaxTokens, completionTemperature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Analysis{}, fmt.Errorf("complete: %w", domain.ErrAnalysisTimeout)
		}
		return domain.Analysis{}, fmt.Errorf("complete: %w", err)
	}

	var a domain.Analysis
	if err := ExtractJSON(raw, &a); err != nil {
		return domain.Analysis{}, fmt.Errorf("parse completion: %w", err)
	}

	Validate(&a, len(content))
	return a, nil
}

func (g *Generator) shouldSkip(req Request) bool {
	if g.completion == nil || !g.completion.Configured() {
		return true
	}
	if req.Terminal {
		return true
	}
	return len(req.Content.BodyText) < minAnalyzableContent
}

func (g *Generator) withRelated(a domain.Analysis, related []domain.RelatedResult) domain.Analysis {
	a.RelatedSources = related
	return a
}

func (g *Generator) debug(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}

func (g *Generator) warn(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
