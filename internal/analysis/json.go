package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
)

var (
	fencedJSONBlock = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedAnyBlock  = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	bracedObject    = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers a JSON value from raw completion text, trying in
// order: the trimmed text itself, a ```json fenced block, any fenced block,
// and the first greedily-matched {...} substring. When nothing parses it
// fails with a preview of the offending text.
func ExtractJSON(text string, v any) error {
	trimmed := strings.TrimSpace(text)

	candidates := []string{trimmed}
	if m := fencedJSONBlock.FindStringSubmatch(trimmed); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := fencedAnyBlock.FindStringSubmatch(trimmed); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := bracedObject.FindString(trimmed); m != "" {
		candidates = append(candidates, m)
	}

	for _, candidate := range candidates {
		if json.Unmarshal([]byte(candidate), v) == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", domain.ErrNoJSONFound, cleaner.Truncate(trimmed, 120))
}
