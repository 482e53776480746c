package domain

import "time"

// ImageRef is a single image discovered during extraction.
type ImageRef struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// ExtractedContent is the normalized record produced by exactly one
// extraction strategy attempt.
type ExtractedContent struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	BodyText    string     `json:"body_text"`
	Images      []ImageRef `json:"images,omitempty"`
	SiteName    string     `json:"site_name,omitempty"`
	Author      string     `json:"author,omitempty"`
}

// RelatedResult is one best-effort related-web search hit.
type RelatedResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
}

// Sentiment values accepted by Analysis.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentMixed    = "mixed"
)

// Analysis is the structured summary for one article. After validation every
// required field is populated; callers never see partial records.
type Analysis struct {
	Summary            string          `json:"summary"`
	TLDR               string          `json:"tldr,omitempty"`
	KeyPoints          []string        `json:"key_points"`
	DetailedPoints     []string        `json:"detailed_points"`
	Topics             []string        `json:"topics"`
	Sentiment          string          `json:"sentiment"`
	ReadingTimeMinutes int             `json:"reading_time_minutes"`
	ContentType        string          `json:"content_type,omitempty"`
	CommentsSummary    string          `json:"comments_summary,omitempty"`
	BroaderContext     string          `json:"broader_context,omitempty"`
	RelatedSources     []RelatedResult `json:"related_sources,omitempty"`
}

// ArticleStatus enumerates pipeline lifecycle milestones.
type ArticleStatus string

const (
	StatusPending    ArticleStatus = "pending"
	StatusExtracting ArticleStatus = "extracting"
	StatusAnalyzing  ArticleStatus = "analyzing"
	StatusReady      ArticleStatus = "ready"
	StatusFailed     ArticleStatus = "failed"
)

// ArticleRecord mirrors the storage row the pipeline drives through its
// lifecycle. Created before extraction, terminal at ready or failed.
type ArticleRecord struct {
	ID          string        `db:"id"`
	UserID      string        `db:"user_id"`
	URL         string        `db:"url"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Content     string        `db:"content"`
	SiteName    string        `db:"site_name"`
	Author      string        `db:"author"`
	ImageURL    string        `db:"image_url"`
	Analysis    *Analysis     `db:"-"`
	Status      ArticleStatus `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

// ArticleUpdate is a partial field set written at a phase boundary.
// Nil members are left untouched.
type ArticleUpdate struct {
	Title       *string
	Description *string
	Content     *string
	SiteName    *string
	Author      *string
	ImageURL    *string
	Images      []ImageRef
	Comments    []string
	Analysis    *Analysis
	Status      *ArticleStatus
}

// DigestHighlight pairs one digested article with its highlight bullets.
type DigestHighlight struct {
	Title      string   `json:"title"`
	Highlights []string `json:"highlights"`
}

// DigestRecord is one cross-article narrative per user per calendar date.
type DigestRecord struct {
	ID        string            `db:"id"`
	UserID    string            `db:"user_id"`
	Date      string            `db:"digest_date"`
	Narrative string            `db:"narrative"`
	Themes    []string          `db:"-"`
	Articles  []DigestHighlight `db:"-"`
	Insight   string            `db:"insight"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}

// ExtractRequest is the extraction entry contract: a stored article id, the
// submitted URL, and an optional pre-extracted payload from a trusted
// collaborator.
type ExtractRequest struct {
	ArticleID string `json:"articleId"`
	URL       string `json:"url"`
	Content   string `json:"content,omitempty"`
	Title     string `json:"title,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Author    string `json:"author,omitempty"`
}

// DigestRequest is the digest entry contract.
type DigestRequest struct {
	UserID  string `json:"userId,omitempty"`
	Date    string `json:"date,omitempty"`
	TestAll bool   `json:"testAll,omitempty"`
}

// DigestOutcome is the per-user result of a digest run.
type DigestOutcome struct {
	UserID   string `json:"userId"`
	Success  bool   `json:"success"`
	DigestID string `json:"digestId,omitempty"`
	Skipped  string `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}
