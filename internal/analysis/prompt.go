package analysis

import (
	"fmt"
	"strings"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
)

const (
	promptContentCap   = 10_000
	maxRelatedSnippets = 3
)

const systemPrompt = "You analyze web articles and respond with a single JSON object. Never add prose outside the JSON."

// BuildPrompt embeds the cleaned content, title, and up to three related
// snippets into the analysis request. The model is asked for exactly three
// labeled executive bullets and five to ten unlabeled detail bullets.
func BuildPrompt(title, content string, related []domain.RelatedResult) string {
	var b strings.Builder

	b.WriteString("Analyze the following article and return a JSON object with these fields:\n")
	b.WriteString(`{"summary": string, "tldr": string, "key_points": [string], "detailed_points": [string], "topics": [string], "sentiment": "positive"|"negative"|"neutral"|"mixed", "reading_time_minutes": number, "content_type": string, "broader_context": string}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- key_points: exactly 3 bullets, each prefixed with one of CLAIM:, SIGNIFICANCE:, TAKEAWAY: (one of each, in that order).\n")
	b.WriteString("- detailed_points: 5 to 10 unlabeled bullets covering the substance of the article.\n")
	b.WriteString("- topics: up to 5 short topic labels.\n")
	b.WriteString("- No emoji anywhere.\n")

	fmt.Fprintf(&b, "\nTitle: %s\n", title)

	if len(related) > 0 {
		b.WriteString("\nRelated coverage for context:\n")
		for i, r := range related {
			if i == maxRelatedSnippets {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", r.Title, cleaner.Truncate(r.Excerpt, 200))
		}
	}

	fmt.Fprintf(&b, "\nArticle content:\n%s\n", truncateContent(content))
	return b.String()
}

func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= promptContentCap {
		return content
	}
	return string(runes[:promptContentCap])
}
