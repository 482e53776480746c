package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

const (
	socialMinChars = 20
	titleMinLine   = 20
	titleMaxLine   = 200
	titleCap       = 120
)

var statusURL = regexp.MustCompile(`(?i)(?:x|twitter)\.com/([A-Za-z0-9_]+)/status/(\d+)`)

// SocialStrategy transcribes a restricted social post through an AI search
// tool scoped to the post's author handle. Images are described in the
// transcription text, never returned as attachments.
type SocialStrategy struct {
	searcher ports.SocialSearcher
}

var _ Strategy = (*SocialStrategy)(nil)

// NewSocialStrategy wraps an AI-search-tool client.
func NewSocialStrategy(searcher ports.SocialSearcher) *SocialStrategy {
	return &SocialStrategy{searcher: searcher}
}

// Name identifies the strategy inside the ordering tables.
func (s *SocialStrategy) Name() string {
	return NameSocial
}

// ParseStatusURL extracts the handle and post id from a status link.
func ParseStatusURL(pageURL string) (handle, postID string, ok bool) {
	m := statusURL.FindStringSubmatch(pageURL)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Extract fails immediately when the URL is not a status link or the search
// credential is absent, and when the transcription is under 20 chars.
func (s *SocialStrategy) Extract(ctx context.Context, pageURL string) (domain.ExtractedContent, error) {
	handle, postID, ok := ParseStatusURL(pageURL)
	if !ok {
		return domain.ExtractedContent{}, fmt.Errorf("url %s is not a status link: %w", pageURL, domain.ErrBadResponseShape)
	}
	if s.searcher == nil || !s.searcher.Configured() {
		return domain.ExtractedContent{}, fmt.Errorf("social lookup: %w", domain.ErrNotConfigured)
	}

	text, err := s.searcher.LookupPost(ctx, handle, postID, pageURL)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("social lookup: %w", err)
	}

	text = strings.TrimSpace(text)
	if len(text) < socialMinChars {
		return domain.ExtractedContent{}, fmt.Errorf("transcription %d chars: %w", len(text), domain.ErrContentTooShort)
	}

	return domain.ExtractedContent{
		Title:    deriveTitle(text, handle),
		BodyText: text,
		Author:   "@" + handle,
		SiteName: "X",
	}, nil
}

// deriveTitle scans for the first 20-200-char line that is not a markdown
// heading or bold marker, truncated to 120 chars with an ellipsis.
func deriveTitle(text, handle string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < titleMinLine || len(line) > titleMaxLine {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "**") {
			continue
		}
		return cleaner.Truncate(line, titleCap)
	}
	return fmt.Sprintf("Post by @%s", handle)
}
