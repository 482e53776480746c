package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"linkdigest/internal/domain"
)

type fakeSearcher struct {
	text string
	err  error
}

func (f *fakeSearcher) LookupPost(_ context.Context, handle, postID, postURL string) (string, error) {
	return f.text, f.err
}

func (f *fakeSearcher) Configured() bool { return true }

func TestParseStatusURL(t *testing.T) {
	t.Parallel()

	handle, postID, ok := ParseStatusURL("https://x.com/gopher_dev/status/1234567890")
	if !ok {
		t.Fatal("expected status link to parse")
	}
	if handle != "gopher_dev" || postID != "1234567890" {
		t.Fatalf("unexpected parse: %s / %s", handle, postID)
	}

	if _, _, ok := ParseStatusURL("https://twitter.com/someone/status/42"); !ok {
		t.Fatal("twitter.com status link should parse")
	}
	if _, _, ok := ParseStatusURL("https://x.com/someone"); ok {
		t.Fatal("profile link should not parse")
	}
}

func TestSocialExtract(t *testing.T) {
	t.Parallel()

	text := "Here is a long thought about distributed systems and why clocks lie to you.\nMore detail follows in the thread."
	s := NewSocialStrategy(&fakeSearcher{text: text})

	content, err := s.Extract(context.Background(), "https://x.com/gopher_dev/status/99")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if content.Author != "@gopher_dev" {
		t.Fatalf("author = %q", content.Author)
	}
	if content.SiteName != "X" {
		t.Fatalf("site = %q", content.SiteName)
	}
	if content.BodyText != text {
		t.Fatalf("body = %q", content.BodyText)
	}
	if !strings.HasPrefix(content.Title, "Here is a long thought") {
		t.Fatalf("title = %q", content.Title)
	}
}

func TestSocialExtractRejectsShortTranscription(t *testing.T) {
	t.Parallel()

	s := NewSocialStrategy(&fakeSearcher{text: "too short"})
	_, err := s.Extract(context.Background(), "https://x.com/a/status/1")
	if !errors.Is(err, domain.ErrContentTooShort) {
		t.Fatalf("expected ErrContentTooShort, got %v", err)
	}
}

func TestSocialExtractNotConfigured(t *testing.T) {
	t.Parallel()

	s := NewSocialStrategy(nil)
	_, err := s.Extract(context.Background(), "https://x.com/a/status/1")
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSocialExtractNonStatusURL(t *testing.T) {
	t.Parallel()

	s := NewSocialStrategy(&fakeSearcher{text: "irrelevant"})
	if _, err := s.Extract(context.Background(), "https://x.com/a"); err == nil {
		t.Fatal("expected error for non-status link")
	}
}

func TestDeriveTitleSkipsHeadings(t *testing.T) {
	t.Parallel()

	text := "# A markdown heading that should be skipped\n" +
		"**bold marker line that should also be skipped here**\n" +
		"The first plain line long enough to become the title of the post."
	s := NewSocialStrategy(&fakeSearcher{text: text})

	content, err := s.Extract(context.Background(), "https://x.com/a/status/1")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if content.Title != "The first plain line long enough to become the title of the post." {
		t.Fatalf("title = %q", content.Title)
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(NewSocialStrategy(nil))

	if _, err := r.Resolve(NameSocial); err != nil {
		t.Fatalf("resolve registered: %v", err)
	}
	if _, err := r.Resolve(NameReader); err == nil {
		t.Fatal("resolving an absent strategy should fail")
	}
}
