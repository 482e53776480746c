package cleaner

import (
	"strings"
	"testing"
)

func TestCleanRemovesNoise(t *testing.T) {
	t.Parallel()

	raw := "Table of Contents Show\n" +
		"The committee approved the proposal [3] after a long debate, " +
		"and the report was published the following week with broad support from members.\n" +
		"1.2K likes\n" +
		"Posted 5 days ago\n" +
		"Read more: subscribe to our newsletter\n" +
		"Photo: Getty Images"

	got := Clean(raw)

	for _, banned := range []string{"[3]", "likes", "days ago", "Read more", "Getty"} {
		if strings.Contains(got, banned) {
			t.Fatalf("expected %q to be removed, got: %s", banned, got)
		}
	}
	if !strings.Contains(got, "The committee approved the proposal") {
		t.Fatalf("body text was lost: %s", got)
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	got := Clean("first paragraph about a topic that keeps going for a while\n\n\n\n\nsecond paragraph with more substance and detail about the same topic here")
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("newline runs not collapsed: %q", got)
	}

	got = Clean("spaced     out")
	if got != "spaced out" {
		t.Fatalf("space runs not collapsed: %q", got)
	}
}

func TestCleanStripsDuplicatedTitle(t *testing.T) {
	t.Parallel()

	title := "Short Title Line"
	body := "The body of the article continues here with enough text to clear the substantial-content threshold used by the duplicate check."
	got := Clean(title + "\n" + body)

	if strings.Contains(got, title) {
		t.Fatalf("leading title line should be dropped, got: %q", got)
	}
	if got != body {
		t.Fatalf("expected body only, got: %q", got)
	}
}

func TestCleanKeepsSingleLine(t *testing.T) {
	t.Parallel()

	line := "A single line of content stays untouched."
	if got := Clean(line); got != line {
		t.Fatalf("single line changed: %q", got)
	}
}

func TestDecodeEntities(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Fish &amp; Chips":   "Fish & Chips",
		"It&#8217;s fine":    "It’s fine",
		"&lt;b&gt;":          "<b>",
		"no entities at all": "no entities at all",
		"":                   "",
	}
	for in, want := range cases {
		if got := DecodeEntities(in); got != want {
			t.Fatalf("DecodeEntities(%q) = %q, want %q", in, got, want)
		}
		if again := DecodeEntities(want); again != want {
			t.Fatalf("decoding already-decoded %q changed it to %q", want, again)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		title string
		url   string
		want  string
	}{
		{"site suffix", "Understanding Channels | The Verge", "https://example.com/a", "Understanding Channels"},
		{"dash suffix", "Understanding Channels - Example News", "https://example.com/a", "Understanding Channels"},
		{"subreddit tag", "r/golang: Why generics took a decade", "https://reddit.com/r/golang/1", "Why generics took a decade"},
		{"count suffix", "Great discussion (42 comments)", "https://example.com/a", "Great discussion"},
		{"trailing byline", "A Deep Dive Into Scheduling by Jane Doe", "https://example.com/a", "A Deep Dive Into Scheduling"},
		{"empty falls back to host", "", "https://www.example.com/story", "example.com"},
		{"whitespace only", "   ", "https://news.site.org/x", "news.site.org"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CleanTitle(tc.title, tc.url); got != tc.want {
				t.Fatalf("CleanTitle(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestCleanTitleCapsLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 100)
	got := CleanTitle(long, "https://example.com")
	if len([]rune(got)) > 200 {
		t.Fatalf("title not capped: %d runes", len([]rune(got)))
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := Truncate("abcdefgh", 4); got != "abcd..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
