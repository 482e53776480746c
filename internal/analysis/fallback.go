package analysis

import (
	"fmt"
	"strings"

	"linkdigest/internal/domain"
)

const (
	fallbackChunkLimit = 300
	substantialContent = 100
)

// restrictedMessages carries the per-platform key point used when content
// could not be read because the platform requires signing in.
var restrictedMessages = map[domain.URLClass]string{
	domain.ClassSocial:       "This post is on a platform that restricts automated reading. Tap to open it in the app or browser.",
	domain.ClassProfessional: "This article sits behind a professional-network login. Tap to open it in the app or browser.",
	domain.ClassPaywalled:    "This article requires a subscription. Tap to open it on the publisher's site.",
}

// Fallback synthesizes a fully-populated analysis locally when the
// completion call failed or was skipped. The result satisfies the same
// invariants as a validated model response.
func Fallback(content domain.ExtractedContent, class domain.URLClass, sourceURL string) domain.Analysis {
	a := domain.Analysis{
		Summary:            fallbackSummary(content, sourceURL),
		KeyPoints:          []string{fallbackKeyPoint(content, class)},
		DetailedPoints:     []string{},
		Topics:             []string{},
		Sentiment:          domain.SentimentNeutral,
		ReadingTimeMinutes: ReadingTime(len(content.BodyText)),
	}
	Validate(&a, len(content.BodyText))
	return a
}

func fallbackSummary(content domain.ExtractedContent, sourceURL string) string {
	if desc := strings.TrimSpace(content.Description); desc != "" {
		return desc
	}
	site := content.SiteName
	if site == "" {
		site = domain.Hostname(sourceURL)
	}
	return fmt.Sprintf("Article from %s. Open it to read the full content.", site)
}

// fallbackKeyPoint takes the first sentence-terminated chunk of substantial
// content, or platform-specific messaging for restricted pages.
func fallbackKeyPoint(content domain.ExtractedContent, class domain.URLClass) string {
	body := strings.TrimSpace(content.BodyText)
	if len(body) >= substantialContent {
		chunk := body
		if runes := []rune(chunk); len(runes) > fallbackChunkLimit {
			chunk = string(runes[:fallbackChunkLimit])
		}
		if idx := strings.IndexAny(chunk, ".!?"); idx > 0 {
			return strings.TrimSpace(chunk[:idx+1])
		}
		return strings.TrimSpace(chunk)
	}

	if msg, ok := restrictedMessages[class]; ok {
		return msg
	}
	return placeholderKeyPoint
}
