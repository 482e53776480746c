package ports

import (
	"context"
	"time"

	"linkdigest/internal/domain"
)

// ArticleStore is the storage collaborator owning article rows. Updates are
// idempotent last-write-wins per article id.
type ArticleStore interface {
	GetArticle(ctx context.Context, id string) (domain.ArticleRecord, error)
	UpdateArticle(ctx context.Context, id string, update domain.ArticleUpdate) error
	ListReadyArticles(ctx context.Context, userID string, from, to time.Time) ([]domain.ArticleRecord, error)
	ListUsersWithReadyArticles(ctx context.Context) ([]string, error)
}

// DigestStore upserts one digest row per (user, date).
type DigestStore interface {
	UpsertDigest(ctx context.Context, digest domain.DigestRecord) (string, error)
}

// ChatMessage is one prompt message for the completion service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionClient invokes the external text-completion service. The
// returned text is the first choice's message content and must be
// defensively parsed by the caller.
type CompletionClient interface {
	Complete(ctx context.Context, messages []ChatMessage, maxTokens int, temperature float64) (string, error)
	Configured() bool
}

// SocialSearcher locates and transcribes a specific social post through an
// AI search tool scoped to the post's author handle.
type SocialSearcher interface {
	LookupPost(ctx context.Context, handle, postID, postURL string) (string, error)
	Configured() bool
}

// RelatedSearcher queries the external web-search service. Failures are the
// caller's to swallow; enrichment never blocks the pipeline.
type RelatedSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.RelatedResult, error)
}

// ReaderClient delegates extraction to the external reader proxy service.
type ReaderClient interface {
	Read(ctx context.Context, targetURL string) (domain.ExtractedContent, error)
}

// PushNotifier dispatches a digest-ready notification. Delivery is out of
// scope; the current implementation only resolves a device token and logs.
type PushNotifier interface {
	NotifyDigestReady(ctx context.Context, userID, digestID string) error
}
