// Package cleaner strips site chrome from extracted text before it reaches
// the analysis prompt.
package cleaner

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"linkdigest/internal/domain"
)

const (
	maxTitleLen       = 200
	dupTitleLineLimit = 200
	dupBodyMinimum    = 100
)

// noisePatterns are applied in order. Each removes one family of site
// chrome: navigation toggles, engagement counters, agency credits, and
// generic boilerplate.
var noisePatterns = []*regexp.Regexp{
	// table-of-contents toggles
	regexp.MustCompile(`(?im)^\s*(show\s+)?table of contents(\s+(show|hide|toggle))?\s*$`),
	regexp.MustCompile(`(?im)^\s*(jump|skip) to (content|section|navigation)\s*$`),
	// citation markers
	regexp.MustCompile(`\[\d{1,3}\]`),
	regexp.MustCompile(`(?i)\[citation needed\]`),
	// relative timestamps
	regexp.MustCompile(`(?i)\b\d+\s+(second|minute|hour|day|week|month|year)s?\s+ago\b`),
	// share / like / comment counters across social vocabularies
	regexp.MustCompile(`(?i)\b[\d,.]+[kKmM]?\s+(likes?|retweets?|reposts?|quote tweets?|views?)\b`),
	regexp.MustCompile(`(?i)\b[\d,.]+[kKmM]?\s+(shares?|reactions?|followers?|connections?)\b`),
	regexp.MustCompile(`(?i)\b[\d,.]+[kKmM]?\s+(upvotes?|points?|awards?)\b`),
	regexp.MustCompile(`(?i)\b[\d,.]+[kKmM]?\s+comments?\b`),
	// stock-photo agency credits
	regexp.MustCompile(`(?i)(photo(graph)?|image|picture)s?\s*(credit|courtesy|by)?\s*[:/]\s*(getty images|shutterstock|reuters|ap photo|afp|istock|alamy)[^\n]*`),
	regexp.MustCompile(`(?i)\((getty images|shutterstock|reuters|ap photo|afp|istock|alamy)\)`),
	// generic boilerplate
	regexp.MustCompile(`(?im)^\s*read more:?.*$`),
	regexp.MustCompile(`(?im)^\s*(advertisement|sponsored( content)?|sign up for our newsletter.*)\s*$`),
	regexp.MustCompile(`(?im)^\s*(share this article|follow us on .*)\s*$`),
}

var (
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns   = regexp.MustCompile(`[ \t]{3,}`)
)

// Clean applies the ordered noise substitutions and whitespace collapsing.
// It always returns a string, possibly unchanged.
func Clean(raw string) string {
	text := raw
	for _, pattern := range noisePatterns {
		text = pattern.ReplaceAllString(text, "")
	}

	text = newlineRuns.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return stripDuplicatedTitle(text)
}

// stripDuplicatedTitle drops a leading title line that extraction tends to
// duplicate above the body: when the first line is short and the remainder
// is substantial, the remainder replaces the whole.
func stripDuplicatedTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}

	first := strings.TrimSpace(lines[0])
	rest := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	if len(first) < dupTitleLineLimit && len(rest) > dupBodyMinimum {
		return rest
	}
	return text
}

// DecodeEntities maps numeric and named HTML entities to characters. Pure
// and total; text without entities passes through unchanged.
func DecodeEntities(text string) string {
	return html.UnescapeString(text)
}

var (
	siteSuffix     = regexp.MustCompile(`\s*[|\-–]\s*[^|\-–]{1,60}$`)
	subredditTag   = regexp.MustCompile(`(?i)^\s*r/[a-z0-9_]+\s*[:\-]\s*`)
	countSuffix    = regexp.MustCompile(`(?i)\s*[(\[]?\d[\d,.]*[kKmM]?\s*(comments?|upvotes?|points?)[)\]]?\s*$`)
	trailingByline = regexp.MustCompile(`(?i)\s+by\s+[A-Z][\w.\- ]{1,40}$`)
)

// CleanTitle normalizes an extracted title: trailing "| Site" / "- Site"
// suffixes, subreddit tags, count suffixes, and trailing bylines are
// stripped. An empty or near-empty title falls back to the URL's hostname.
func CleanTitle(title, rawURL string) string {
	cleaned := strings.TrimSpace(title)
	cleaned = subredditTag.ReplaceAllString(cleaned, "")
	cleaned = countSuffix.ReplaceAllString(cleaned, "")
	if stripped := siteSuffix.ReplaceAllString(cleaned, ""); len(strings.TrimSpace(stripped)) >= 3 {
		cleaned = stripped
	}
	cleaned = trailingByline.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) < 3 {
		cleaned = domain.Hostname(rawURL)
	}
	if runes := []rune(cleaned); len(runes) > maxTitleLen {
		cleaned = string(runes[:maxTitleLen])
	}
	return cleaned
}

// Truncate caps s at limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return fmt.Sprintf("%s...", strings.TrimSpace(string(runes[:limit])))
}
