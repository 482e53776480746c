// Package usecase orchestrates the extraction fallback chain and the digest
// aggregation run.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"linkdigest/internal/analysis"
	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
	"linkdigest/internal/extract"
	"linkdigest/internal/ports"
)

const (
	preSuppliedMin    = 50
	failedDescription = 500
)

// strategyOrder maps a URL shape to the tiers attempted, in order. The
// social class is handled separately because its failure is terminal.
func strategyOrder(rawURL string) []string {
	if domain.ReaderFirst(rawURL) {
		return []string{extract.NameReader, extract.NameReadability}
	}
	return []string{extract.NameReadability, extract.NameReader}
}

// softFailRule recognizes a login wall that a strategy returned without
// raising. Relaxed thresholds apply to fallback-tier re-checks.
type softFailRule struct {
	class         domain.URLClass
	phrases       []string
	minLen        int
	relaxedMinLen int
}

var softFailRules = []softFailRule{
	{
		class:         domain.ClassSocial,
		phrases:       []string{"Sign in", "Log in", "Sign up", "See more on X"},
		minLen:        100,
		relaxedMinLen: 50,
	},
	{
		class:         domain.ClassProfessional,
		phrases:       []string{"Sign in", "Join now"},
		minLen:        200,
		relaxedMinLen: 100,
	},
}

// detectSoftFail reports whether a strategy result looks like a login wall
// for the URL's platform, with the reason for logging.
func detectSoftFail(class domain.URLClass, content domain.ExtractedContent, relaxed bool) (string, bool) {
	for _, rule := range softFailRules {
		if rule.class != class {
			continue
		}

		minLen := rule.minLen
		if relaxed {
			minLen = rule.relaxedMinLen
		}
		if len(content.BodyText) < minLen {
			return fmt.Sprintf("body under %d chars", minLen), true
		}
		for _, phrase := range rule.phrases {
			if strings.Contains(content.BodyText, phrase) {
				return fmt.Sprintf("login-wall phrase %q", phrase), true
			}
		}
	}
	return "", false
}

// PipelineDeps wires all driven adapters into the extraction pipeline.
type PipelineDeps struct {
	Store     ports.ArticleStore
	Registry  *extract.Registry
	Enricher  Enricher
	Generator AnalysisGenerator
	Logger    *slog.Logger
}

// Enricher is the related-search phase; best-effort by contract.
type Enricher interface {
	Related(ctx context.Context, title string) []domain.RelatedResult
}

// AnalysisGenerator produces a validated analysis and never fails.
type AnalysisGenerator interface {
	Analyze(ctx context.Context, req analysis.Request) domain.Analysis
}

// Pipeline implements the extraction entry contract: it ends by writing an
// extracted projection, an analysis, and a terminal status to storage.
type Pipeline struct {
	store     ports.ArticleStore
	registry  *extract.Registry
	enricher  Enricher
	generator AnalysisGenerator
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		store:     deps.Store,
		registry:  deps.Registry,
		enricher:  deps.Enricher,
		generator: deps.Generator,
		logger:    deps.Logger,
	}
}

// ProcessArticle runs classify, extraction with ordered fallback, optional
// enrichment, and analysis, writing phase boundaries to storage. Strategy
// and analysis failures never propagate; only storage or input failures do,
// and those mark the article failed best-effort first.
func (p *Pipeline) ProcessArticle(ctx context.Context, req domain.ExtractRequest) error {
	if req.ArticleID == "" || req.URL == "" {
		return fmt.Errorf("extract request requires articleId and url")
	}

	if err := p.setStatus(ctx, req.ArticleID, domain.StatusExtracting); err != nil {
		return fmt.Errorf("mark extracting: %w", err)
	}

	class := domain.ClassifyURL(req.URL)
	content, terminal := p.extract(ctx, req, class)

	content.Title = cleaner.CleanTitle(content.Title, req.URL)
	content.BodyText = cleaner.Clean(cleaner.DecodeEntities(content.BodyText))

	if err := p.writeExtracted(ctx, req, content); err != nil {
		p.markFailed(ctx, req.ArticleID, err)
		return fmt.Errorf("write extracted content: %w", err)
	}

	var related []domain.RelatedResult
	if !terminal && p.enricher != nil {
		related = p.enricher.Related(ctx, content.Title)
	}

	result := p.generator.Analyze(ctx, analysis.Request{
		URL:      req.URL,
		Class:    class,
		Content:  content,
		Related:  related,
		Terminal: terminal,
	})

	ready := domain.StatusReady
	if err := p.store.UpdateArticle(ctx, req.ArticleID, domain.ArticleUpdate{
		Analysis: &result,
		Comments: []string{},
		Status:   &ready,
	}); err != nil {
		p.markFailed(ctx, req.ArticleID, err)
		return fmt.Errorf("write analysis: %w", err)
	}

	p.debug("article processed", "article", req.ArticleID, "class", class, "terminal", terminal)
	return nil
}

// extract runs the fallback chain. The boolean result marks a synthesized
// terminal record, which skips enrichment and the completion call.
func (p *Pipeline) extract(ctx context.Context, req domain.ExtractRequest, class domain.URLClass) (domain.ExtractedContent, bool) {
	// A trusted collaborator already extracted the content: wrap it and
	// skip every network strategy.
	if payload := strings.TrimSpace(req.Content); len(payload) > preSuppliedMin {
		return p.wrapPreSupplied(req, payload), false
	}

	if class == domain.ClassSocial {
		content, err := p.attempt(ctx, extract.NameSocial, req.URL)
		if err == nil {
			return content, false
		}
		p.debug("social strategy failed", "url", req.URL, "error", err)
		return socialTerminal(req.URL, err), true
	}

	relaxed := false
	for _, name := range strategyOrder(req.URL) {
		content, err := p.attempt(ctx, name, req.URL)
		if err != nil {
			p.debug("strategy failed", "strategy", name, "url", req.URL, "error", err)
			relaxed = true
			continue
		}
		if reason, soft := detectSoftFail(class, content, relaxed); soft {
			p.debug("soft failure", "strategy", name, "url", req.URL, "reason", reason)
			relaxed = true
			continue
		}
		return content, false
	}

	if content, err := p.attempt(ctx, extract.NameBasic, req.URL); err == nil {
		if _, soft := detectSoftFail(class, content, true); !soft {
			return content, false
		}
	}

	return terminalContent(req.URL, class), true
}

func (p *Pipeline) attempt(ctx context.Context, name, rawURL string) (domain.ExtractedContent, error) {
	strategy, err := p.registry.Resolve(name)
	if err != nil {
		return domain.ExtractedContent{}, err
	}
	return strategy.Extract(ctx, rawURL)
}

func (p *Pipeline) wrapPreSupplied(req domain.ExtractRequest, payload string) domain.ExtractedContent {
	content := domain.ExtractedContent{
		Title:    req.Title,
		BodyText: payload,
		Author:   req.Author,
	}
	if req.ImageURL != "" {
		content.Images = []domain.ImageRef{{Src: req.ImageURL}}
	}
	return content
}

func (p *Pipeline) writeExtracted(ctx context.Context, req domain.ExtractRequest, content domain.ExtractedContent) error {
	analyzing := domain.StatusAnalyzing
	update := domain.ArticleUpdate{
		Title:       &content.Title,
		Description: &content.Description,
		Content:     &content.BodyText,
		SiteName:    &content.SiteName,
		Author:      &content.Author,
		Images:      content.Images,
		Status:      &analyzing,
	}
	if len(content.Images) > 0 {
		update.ImageURL = &content.Images[0].Src
	} else if req.ImageURL != "" {
		update.ImageURL = &req.ImageURL
	}
	return p.store.UpdateArticle(ctx, req.ArticleID, update)
}

func (p *Pipeline) setStatus(ctx context.Context, id string, status domain.ArticleStatus) error {
	return p.store.UpdateArticle(ctx, id, domain.ArticleUpdate{Status: &status})
}

// markFailed writes the failed status with a truncated error description.
// Best-effort: a secondary write failure is logged, not retried.
func (p *Pipeline) markFailed(ctx context.Context, id string, cause error) {
	failed := domain.StatusFailed
	desc := cause.Error()
	if runes := []rune(desc); len(runes) > failedDescription {
		desc = string(runes[:failedDescription])
	}
	if err := p.store.UpdateArticle(ctx, id, domain.ArticleUpdate{
		Status:      &failed,
		Description: &desc,
	}); err != nil && p.logger != nil {
		p.logger.Error("failed to mark article failed", "article", id, "error", err)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
