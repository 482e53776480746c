// Package app wires configuration into running components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"linkdigest/internal/analysis"
	"linkdigest/internal/config"
	"linkdigest/internal/domain"
	"linkdigest/internal/enrich"
	"linkdigest/internal/extract"
	"linkdigest/internal/infrastructure/llm"
	"linkdigest/internal/infrastructure/push"
	"linkdigest/internal/infrastructure/reader"
	"linkdigest/internal/infrastructure/scheduler"
	"linkdigest/internal/infrastructure/search"
	"linkdigest/internal/infrastructure/storage"
	"linkdigest/internal/server"
	"linkdigest/internal/usecase"
)

// Application owns the wired components and their lifecycle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	server   *server.Server
	digests  *usecase.DigestService
	schedule *scheduler.DailyScheduler
}

// New connects storage, builds the strategy registry and both services, and
// prepares the HTTP server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Application, error) {
	pool, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	repo := storage.NewPostgresRepository(pool)
	if err := repo.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	completion := llm.NewCompletionClient(cfg.Completion)
	aiSearch := llm.NewAISearchClient(cfg.Completion)
	readerClient := reader.NewClient(cfg.Reader)
	related := search.NewClient(cfg.Search)

	fetchClient := &http.Client{Timeout: cfg.FetchTimeout()}
	registry := extract.NewRegistry()
	registry.Register(extract.NewReadabilityStrategy(fetchClient))
	registry.Register(extract.NewReaderStrategy(readerClient))
	registry.Register(extract.NewSocialStrategy(aiSearch))
	registry.Register(extract.NewBasicStrategy(nil))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:     repo,
		Registry:  registry,
		Enricher:  enrich.New(related, logger.With("component", "enrich")),
		Generator: analysis.NewGenerator(completion, logger.With("component", "analysis"), cfg.Completion.Timeout),
		Logger:    logger.With("component", "pipeline"),
	})

	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load digest timezone: %w", err)
	}

	digests := usecase.NewDigestService(usecase.DigestDeps{
		Articles:   repo,
		Digests:    repo,
		Completion: completion,
		Push:       push.NewNotifier(repo, logger.With("component", "push")),
		Location:   loc,
		Logger:     logger.With("component", "digest"),
	})

	var daily *scheduler.DailyScheduler
	if cfg.Digest.DailyAt != "" {
		daily, err = scheduler.NewDailyScheduler(cfg.Digest.DailyAt, cfg.Digest.Timezone)
		if err != nil {
			return nil, fmt.Errorf("configure scheduler: %w", err)
		}
	}

	return &Application{
		cfg:      cfg,
		logger:   logger,
		server:   server.New(pipeline, digests, logger.With("component", "server")),
		digests:  digests,
		schedule: daily,
	}, nil
}

// Run starts the daily trigger and serves HTTP until the context ends.
func (a *Application) Run(ctx context.Context) error {
	if a.schedule != nil {
		a.schedule.Start(ctx, func(date string) {
			outcomes, err := a.digests.Run(ctx, domain.DigestRequest{Date: date})
			if err != nil {
				a.logger.Error("scheduled digest failed", "date", date, "error", err)
				return
			}
			a.logger.Info("scheduled digest finished", "date", date, "users", len(outcomes))
		})
		defer a.schedule.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Listen(a.cfg.Server.Addr)
	}()

	select {
	case <-ctx.Done():
		return a.server.Shutdown()
	case err := <-errCh:
		return err
	}
}
