// Package server exposes the extraction and digest entry points over HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
)

const errBodyCap = 500

// ArticleProcessor runs the extraction pipeline for one submitted URL.
type ArticleProcessor interface {
	ProcessArticle(ctx context.Context, req domain.ExtractRequest) error
}

// DigestRunner executes a digest run and reports per-user outcomes.
type DigestRunner interface {
	Run(ctx context.Context, req domain.DigestRequest) ([]domain.DigestOutcome, error)
}

// Server owns the fiber app and its route handlers.
type Server struct {
	app       *fiber.App
	processor ArticleProcessor
	digests   DigestRunner
	logger    *slog.Logger
}

// New builds the app and registers routes.
func New(processor ArticleProcessor, digests DigestRunner, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
	})

	s := &Server{
		app:       app,
		processor: processor,
		digests:   digests,
		logger:    logger,
	}

	app.Post("/extract", s.handleExtract)
	app.Post("/digest", s.handleDigest)
	app.Get("/health", s.handleHealth)
	return s
}

// Listen blocks serving on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleExtract(c *fiber.Ctx) error {
	var req domain.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, fiber.StatusBadRequest, "invalid request body", err)
	}
	if req.ArticleID == "" || req.URL == "" {
		return s.fail(c, fiber.StatusBadRequest, "articleId and url are required", nil)
	}

	started := time.Now()
	if err := s.processor.ProcessArticle(c.Context(), req); err != nil {
		s.logger.Error("extraction failed",
			"article", req.ArticleID,
			"url", req.URL,
			"elapsed", time.Since(started),
			"error", err,
		)
		return s.fail(c, fiber.StatusInternalServerError, "extraction failed", err)
	}

	s.logger.Info("article processed",
		"article", req.ArticleID,
		"url", req.URL,
		"elapsed", time.Since(started),
	)
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleDigest(c *fiber.Ctx) error {
	var req domain.DigestRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, fiber.StatusBadRequest, "invalid request body", err)
	}

	outcomes, err := s.digests.Run(c.Context(), req)
	if err != nil {
		return s.fail(c, fiber.StatusInternalServerError, "digest run failed", err)
	}

	s.logger.Info("digest run finished", "users", len(outcomes), "testAll", req.TestAll)
	return c.JSON(fiber.Map{"results": outcomes})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// fail writes the error envelope, truncating messages so storage-layer
// details do not leak whole payloads to callers.
func (s *Server) fail(c *fiber.Ctx, status int, message string, err error) error {
	detail := message
	if err != nil {
		detail = cleaner.Truncate(message+": "+err.Error(), errBodyCap)
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": detail})
}
