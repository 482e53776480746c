// Package storage persists articles and digests into Postgres.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

// PostgresRepository implements the article and digest stores on one
// sqlx connection pool.
type PostgresRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

var (
	_ ports.ArticleStore = (*PostgresRepository)(nil)
	_ ports.DigestStore  = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires the repository onto an open pool.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects, pings, and returns a configured pool.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// InitSchema creates the tables when they do not exist yet.
func (r *PostgresRepository) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			device_token TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			site_name TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			images JSONB,
			comments TEXT[],
			analysis JSONB,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_user_status ON articles (user_id, status)`,
		`CREATE TABLE IF NOT EXISTS digests (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			digest_date DATE NOT NULL,
			narrative TEXT NOT NULL DEFAULT '',
			themes JSONB,
			articles JSONB,
			insight TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, digest_date)
		)`,
	}

	for _, q := range queries {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// articleRow is the scan target; json columns arrive as raw bytes.
type articleRow struct {
	domain.ArticleRecord
	AnalysisJSON []byte `db:"analysis"`
}

// GetArticle loads one article by id.
func (r *PostgresRepository) GetArticle(ctx context.Context, id string) (domain.ArticleRecord, error) {
	query, args, err := r.builder.
		Select("id", "user_id", "url", "title", "description", "content",
			"site_name", "author", "image_url", "analysis", "status",
			"created_at", "updated_at").
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("build get article: %w", err)
	}

	var row articleRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return domain.ArticleRecord{}, fmt.Errorf("article %s not found", id)
		}
		return domain.ArticleRecord{}, fmt.Errorf("get article: %w", err)
	}
	return rowToRecord(row)
}

// UpdateArticle applies a partial update; nil members are left untouched.
func (r *PostgresRepository) UpdateArticle(ctx context.Context, id string, update domain.ArticleUpdate) error {
	builder := r.builder.Update("articles").Set("updated_at", sq.Expr("NOW()"))

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Description != nil {
		builder = builder.Set("description", *update.Description)
	}
	if update.Content != nil {
		builder = builder.Set("content", *update.Content)
	}
	if update.SiteName != nil {
		builder = builder.Set("site_name", *update.SiteName)
	}
	if update.Author != nil {
		builder = builder.Set("author", *update.Author)
	}
	if update.ImageURL != nil {
		builder = builder.Set("image_url", *update.ImageURL)
	}
	if update.Images != nil {
		raw, err := json.Marshal(update.Images)
		if err != nil {
			return fmt.Errorf("marshal images: %w", err)
		}
		builder = builder.Set("images", raw)
	}
	if update.Comments != nil {
		builder = builder.Set("comments", pq.StringArray(update.Comments))
	}
	if update.Analysis != nil {
		raw, err := json.Marshal(update.Analysis)
		if err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
		builder = builder.Set("analysis", raw)
	}
	if update.Status != nil {
		builder = builder.Set("status", string(*update.Status))
	}

	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update article: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("article %s not found", id)
	}
	return nil
}

// ListReadyArticles returns a user's ready articles, oldest first. A zero
// time range means no date filter.
func (r *PostgresRepository) ListReadyArticles(ctx context.Context, userID string, from, to time.Time) ([]domain.ArticleRecord, error) {
	builder := r.builder.
		Select("id", "user_id", "url", "title", "description", "content",
			"site_name", "author", "image_url", "analysis", "status",
			"created_at", "updated_at").
		From("articles").
		Where(sq.Eq{"user_id": userID, "status": string(domain.StatusReady)}).
		OrderBy("created_at ASC")

	if !from.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": from})
	}
	if !to.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": to})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ready: %w", err)
	}

	var rows []articleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ready articles: %w", err)
	}

	records := make([]domain.ArticleRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListUsersWithReadyArticles returns distinct user ids holding ready rows.
func (r *PostgresRepository) ListUsersWithReadyArticles(ctx context.Context) ([]string, error) {
	query, args, err := r.builder.
		Select("DISTINCT user_id").
		From("articles").
		Where(sq.Eq{"status": string(domain.StatusReady)}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	var users []string
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpsertDigest inserts or replaces the digest row for (user, date) and
// returns the row id, which survives replacement.
func (r *PostgresRepository) UpsertDigest(ctx context.Context, digest domain.DigestRecord) (string, error) {
	themes, err := json.Marshal(digest.Themes)
	if err != nil {
		return "", fmt.Errorf("marshal themes: %w", err)
	}
	articles, err := json.Marshal(digest.Articles)
	if err != nil {
		return "", fmt.Errorf("marshal articles: %w", err)
	}

	query, args, err := r.builder.
		Insert("digests").
		Columns("id", "user_id", "digest_date", "narrative", "themes", "articles", "insight").
		Values(digest.ID, digest.UserID, digest.Date, digest.Narrative, themes, articles, digest.Insight).
		Suffix(`ON CONFLICT (user_id, digest_date) DO UPDATE
			SET narrative = EXCLUDED.narrative,
			    themes = EXCLUDED.themes,
			    articles = EXCLUDED.articles,
			    insight = EXCLUDED.insight,
			    updated_at = NOW()
			RETURNING id`).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build upsert digest: %w", err)
	}

	var id string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("upsert digest: %w", err)
	}
	return id, nil
}

// GetDeviceToken resolves the push token registered for a user.
func (r *PostgresRepository) GetDeviceToken(ctx context.Context, userID string) (string, error) {
	query, args, err := r.builder.
		Select("device_token").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build get token: %w", err)
	}

	var token string
	if err := r.db.GetContext(ctx, &token, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("no device token for user %s", userID)
		}
		return "", fmt.Errorf("get device token: %w", err)
	}
	return token, nil
}

func rowToRecord(row articleRow) (domain.ArticleRecord, error) {
	rec := row.ArticleRecord
	if len(row.AnalysisJSON) > 0 {
		var analysis domain.Analysis
		if err := json.Unmarshal(row.AnalysisJSON, &analysis); err != nil {
			return domain.ArticleRecord{}, fmt.Errorf("unmarshal analysis for %s: %w", rec.ID, err)
		}
		rec.Analysis = &analysis
	}
	return rec, nil
}
