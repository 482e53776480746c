package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"linkdigest/internal/analysis"
	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

const (
	digestMaxTokens   = 2000
	digestTemperature = 0.6
	digestTimeout     = 30 * time.Second
)

// DigestDeps wires the digest aggregation run. Location sets the timezone
// used to derive the default date; nil means UTC.
type DigestDeps struct {
	Articles   ports.ArticleStore
	Digests    ports.DigestStore
	Completion ports.CompletionClient
	Push       ports.PushNotifier
	Location   *time.Location
	Logger     *slog.Logger
}

// DigestService batches a user's ready articles into one cross-article
// narrative. Users are processed sequentially to bound concurrent load on
// the completion service.
type DigestService struct {
	articles   ports.ArticleStore
	digests    ports.DigestStore
	completion ports.CompletionClient
	push       ports.PushNotifier
	loc        *time.Location
	logger     *slog.Logger
}

// NewDigestService constructs the aggregator.
func NewDigestService(deps DigestDeps) *DigestService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &DigestService{
		articles:   deps.Articles,
		digests:    deps.Digests,
		completion: deps.Completion,
		push:       deps.Push,
		loc:        loc,
		logger:     deps.Logger,
	}
}

// digestArticle is the condensed per-article projection fed to the prompt.
type digestArticle struct {
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"keyPoints,omitempty"`
	Topics         []string `json:"topics,omitempty"`
	BroaderContext string   `json:"broaderContext,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
}

// digestPayload is the JSON object requested from the completion service.
type digestPayload struct {
	Narrative string                   `json:"narrative"`
	Themes    []string                 `json:"themes"`
	Articles  []domain.DigestHighlight `json:"articles"`
	Insight   string                   `json:"insight"`
}

// Run executes the digest entry contract: one outcome per selected user,
// upserting a DigestRecord keyed by (user, date). In test-all mode every
// user with at least one ready article is processed, ignoring the date, and
// no notification is dispatched.
func (s *DigestService) Run(ctx context.Context, req domain.DigestRequest) ([]domain.DigestOutcome, error) {
	// The default date matches the zone the scheduler fires in, so a manual
	// run near midnight lands on the same digest key as the scheduled one.
	date := req.Date
	if date == "" {
		date = time.Now().In(s.loc).Format("2006-01-02")
	}

	users, err := s.selectUsers(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	outcomes := make([]domain.DigestOutcome, 0, len(users))
	for _, user := range users {
		outcomes = append(outcomes, s.runForUser(ctx, user, date, req.TestAll))
	}
	return outcomes, nil
}

func (s *DigestService) selectUsers(ctx context.Context, req domain.DigestRequest) ([]string, error) {
	if req.UserID != "" {
		return []string{req.UserID}, nil
	}
	return s.articles.ListUsersWithReadyArticles(ctx)
}

func (s *DigestService) runForUser(ctx context.Context, userID, date string, testAll bool) domain.DigestOutcome {
	from, to, err := dateRange(date, testAll)
	if err != nil {
		return domain.DigestOutcome{UserID: userID, Error: err.Error()}
	}

	articles, err := s.articles.ListReadyArticles(ctx, userID, from, to)
	if err != nil {
		return domain.DigestOutcome{UserID: userID, Error: fmt.Sprintf("list articles: %v", err)}
	}
	if len(articles) == 0 {
		return domain.DigestOutcome{UserID: userID, Success: true, Skipped: "no articles"}
	}

	payload, err := s.generate(ctx, projectArticles(articles))
	if err != nil {
		s.warn("digest generation failed", "user", userID, "error", err)
		return domain.DigestOutcome{UserID: userID, Error: err.Error()}
	}

	digestID, err := s.digests.UpsertDigest(ctx, domain.DigestRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		Narrative: payload.Narrative,
		Themes:    payload.Themes,
		Articles:  payload.Articles,
		Insight:   payload.Insight,
	})
	if err != nil {
		return domain.DigestOutcome{UserID: userID, Error: fmt.Sprintf("upsert digest: %v", err)}
	}

	if !testAll && s.push != nil {
		if err := s.push.NotifyDigestReady(ctx, userID, digestID); err != nil {
			s.warn("digest notification failed", "user", userID, "error", err)
		}
	}

	return domain.DigestOutcome{UserID: userID, Success: true, DigestID: digestID}
}

// generate prompts for the digest JSON and parses it through the shared
// extraction utility, then normalizes the result so the stored record is
// never empty-fielded.
func (s *DigestService) generate(ctx context.Context, articles []digestArticle) (digestPayload, error) {
	if s.completion == nil || !s.completion.Configured() {
		return digestPayload{}, domain.ErrNotConfigured
	}

	callCtx, cancel := context.WithTimeout(ctx, digestTimeout)
	defer cancel()

	raw, err := s.completion.Complete(callCtx, []ports.ChatMessage{
		{Role: "system", Content: "You write short, conversational reading digests and respond with a single JSON object."},
		{Role: "user", Content: buildDigestPrompt(articles)},
	}, digestMaxTokens, digestTemperature)
	if err != nil {
		return digestPayload{}, fmt.Errorf("complete digest: %w", err)
	}

	var payload digestPayload
	if err := analysis.ExtractJSON(raw, &payload); err != nil {
		return digestPayload{}, fmt.Errorf("parse digest: %w", err)
	}

	normalizeDigest(&payload, articles)
	return payload, nil
}

func buildDigestPrompt(articles []digestArticle) string {
	var b strings.Builder

	b.WriteString("Write a digest of the articles below as a JSON object:\n")
	b.WriteString(`{"narrative": string, "themes": [string], "articles": [{"title": string, "highlights": [string]}], "insight": string}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- narrative: a 150-300-word conversational summary connecting the articles.\n")
	b.WriteString("- themes: exactly 3 short theme labels.\n")
	b.WriteString("- articles: one entry per article with 1-2 highlights each.\n")
	b.WriteString("- insight: one sentence connecting specific articles.\n\n")
	b.WriteString("Articles:\n")

	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, a.Title, a.URL)
		if a.Summary != "" {
			fmt.Fprintf(&b, "   Summary: %s\n", cleaner.Truncate(a.Summary, 300))
		}
		for _, kp := range a.KeyPoints {
			fmt.Fprintf(&b, "   - %s\n", kp)
		}
		if len(a.Topics) > 0 {
			fmt.Fprintf(&b, "   Topics: %s\n", strings.Join(a.Topics, ", "))
		}
		if a.BroaderContext != "" {
			fmt.Fprintf(&b, "   Context: %s\n", cleaner.Truncate(a.BroaderContext, 200))
		}
	}
	return b.String()
}

// normalizeDigest keeps the stored record usable when the model skimps on a
// field, mirroring what validation does for single-article analyses.
func normalizeDigest(payload *digestPayload, articles []digestArticle) {
	payload.Narrative = strings.TrimSpace(payload.Narrative)
	if payload.Narrative == "" {
		titles := make([]string, 0, len(articles))
		for _, a := range articles {
			titles = append(titles, a.Title)
		}
		payload.Narrative = fmt.Sprintf("Today's reading: %s.", strings.Join(titles, "; "))
	}

	var themes []string
	for _, t := range payload.Themes {
		if t = strings.TrimSpace(t); t != "" {
			themes = append(themes, t)
		}
	}
	if len(themes) == 0 {
		themes = []string{"general"}
	}
	if len(themes) > 3 {
		themes = themes[:3]
	}
	payload.Themes = themes
}

func projectArticles(records []domain.ArticleRecord) []digestArticle {
	articles := make([]digestArticle, 0, len(records))
	for _, rec := range records {
		a := digestArticle{
			Title:    rec.Title,
			URL:      rec.URL,
			ImageURL: rec.ImageURL,
		}
		if rec.Analysis != nil {
			a.Summary = rec.Analysis.Summary
			a.KeyPoints = rec.Analysis.KeyPoints
			a.Topics = rec.Analysis.Topics
			a.BroaderContext = rec.Analysis.BroaderContext
		}
		articles = append(articles, a)
	}
	return articles
}

// dateRange bounds a calendar date; test-all mode returns the zero range,
// which storage treats as no date filter.
func dateRange(date string, testAll bool) (time.Time, time.Time, error) {
	if testAll {
		return time.Time{}, time.Time{}, nil
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day, day.Add(24 * time.Hour), nil
}

func (s *DigestService) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
