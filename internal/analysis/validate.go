package analysis

import (
	"math"
	"regexp"
	"strings"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
)

const (
	maxKeyPoints      = 3
	maxDetailedPoints = 10
	maxTopics         = 5
	minSummaryLen     = 10
	wordsPerMinute    = 200
	charsPerWord      = 5

	placeholderSummary  = "Summary unavailable for this article."
	placeholderKeyPoint = "Open the article to read the full content."
)

// emojiPattern covers the pictograph, symbol, emoticon, transport, and
// dingbat blocks plus variation selectors and regional-indicator flag pairs.
var emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F700}-\x{1F77F}\x{1F900}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{FE0F}\x{200D}]|[\x{1F1E6}-\x{1F1FF}]{2}`)

var doubleSpaces = regexp.MustCompile(`  +`)

// StripEmoji removes pictographic characters and collapses the double
// spaces left behind.
func StripEmoji(s string) string {
	return strings.TrimSpace(doubleSpaces.ReplaceAllString(emojiPattern.ReplaceAllString(s, ""), " "))
}

var validSentiments = map[string]struct{}{
	domain.SentimentPositive: {},
	domain.SentimentNegative: {},
	domain.SentimentNeutral:  {},
	domain.SentimentMixed:    {},
}

// Validate normalizes a parsed analysis in place so no malformed or missing
// field ever reaches a caller. contentLen is the cleaned body length, used
// for the reading-time fallback.
func Validate(a *domain.Analysis, contentLen int) {
	a.KeyPoints = filterStrings(a.KeyPoints, maxKeyPoints)
	if len(a.KeyPoints) == 0 {
		a.KeyPoints = []string{synthesizeKeyPoint(a)}
	}

	a.Topics = filterStrings(a.Topics, maxTopics)
	if len(a.Topics) == 0 {
		a.Topics = []string{"general"}
	}

	if _, ok := validSentiments[a.Sentiment]; !ok {
		a.Sentiment = domain.SentimentNeutral
	}

	a.DetailedPoints = filterStrings(a.DetailedPoints, maxDetailedPoints)
	if a.DetailedPoints == nil {
		a.DetailedPoints = []string{}
	}

	if a.ReadingTimeMinutes < 1 {
		a.ReadingTimeMinutes = ReadingTime(contentLen)
	}

	if summary := StripEmoji(a.Summary); len(summary) > minSummaryLen {
		a.Summary = summary
	} else {
		a.Summary = placeholderSummary
	}
}

// ReadingTime estimates minutes from character count at 200 wpm, never
// under one minute.
func ReadingTime(contentLen int) int {
	minutes := int(math.Ceil(float64(contentLen) / charsPerWord / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func filterStrings(values []string, limit int) []string {
	var out []string
	for _, v := range values {
		v = StripEmoji(v)
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

// synthesizeKeyPoint builds the single fallback bullet used when the model
// returned no usable key points.
func synthesizeKeyPoint(a *domain.Analysis) string {
	if tldr := StripEmoji(a.TLDR); tldr != "" {
		return tldr
	}
	if summary := StripEmoji(a.Summary); summary != "" {
		return cleaner.Truncate(summary, 150)
	}
	return placeholderKeyPoint
}
