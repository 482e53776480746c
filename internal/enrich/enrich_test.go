package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"linkdigest/internal/domain"
)

type captureSearcher struct {
	query   string
	results []domain.RelatedResult
	err     error
}

func (s *captureSearcher) Search(_ context.Context, query string, _ int) ([]domain.RelatedResult, error) {
	s.query = query
	return s.results, s.err
}

func (s *captureSearcher) Configured() bool { return true }

func TestRelatedSwallowsErrors(t *testing.T) {
	t.Parallel()

	e := New(&captureSearcher{err: errors.New("search down")}, nil)
	if got := e.Related(context.Background(), "Some Title"); got != nil {
		t.Fatalf("expected nil on search error, got %+v", got)
	}
}

func TestRelatedNilSearcher(t *testing.T) {
	t.Parallel()

	e := New(nil, nil)
	if got := e.Related(context.Background(), "Some Title"); got != nil {
		t.Fatalf("expected nil without a searcher, got %+v", got)
	}
}

func TestRelatedQueryTruncationKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	s := &captureSearcher{}
	e := New(s, nil)

	title := strings.Repeat("日本語のタイトル", 50)
	e.Related(context.Background(), title)

	if !utf8.ValidString(s.query) {
		t.Fatalf("truncated query is not valid UTF-8: %q", s.query)
	}
	if got := len([]rune(s.query)); got != 200 {
		t.Fatalf("query length = %d runes, want 200", got)
	}
}

func TestRelatedCapsResults(t *testing.T) {
	t.Parallel()

	s := &captureSearcher{results: make([]domain.RelatedResult, 8)}
	e := New(s, nil)

	if got := e.Related(context.Background(), "Some Title"); len(got) != 5 {
		t.Fatalf("results = %d, want 5", len(got))
	}
}
