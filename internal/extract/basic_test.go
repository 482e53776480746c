package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const basicFixture = `<!doctype html>
<html>
<head>
<title>Fixture Article | Example Site</title>
<meta name="description" content="A short description of the fixture.">
<meta property="og:site_name" content="Example Site">
<meta property="og:image" content="https://cdn.example.com/hero.jpg">
</head>
<body>
<nav>Home About Contact</nav>
<article>
<h1>Fixture Article</h1>
<p>The opening paragraph describes the subject at hand in some detail.</p>
<img src="/images/a.jpg" alt="first">
<img src="/images/b.jpg" alt="second">
<img src="/images/c.jpg" alt="third">
<img src="/images/d.jpg" alt="fourth">
<img src="/images/e.jpg" alt="fifth">
<img src="/images/f.jpg" alt="sixth">
<img src="/pixel/track.gif" alt="">
<img src="data:image/gif;base64,R0lGOD" alt="">
<img src="/images/a.jpg" alt="duplicate">
<p>A closing paragraph wraps the article up.</p>
</article>
<script>console.log("noise")</script>
</body>
</html>`

func TestBasicExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(basicFixture))
	}))
	defer server.Close()

	s := NewBasicStrategy(server.Client())
	content, err := s.Extract(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if content.Title != "Fixture Article" {
		t.Fatalf("title = %q", content.Title)
	}
	if content.Description != "A short description of the fixture." {
		t.Fatalf("description = %q", content.Description)
	}
	if content.SiteName != "Example Site" {
		t.Fatalf("site = %q", content.SiteName)
	}
	if !strings.Contains(content.BodyText, "opening paragraph") {
		t.Fatalf("body missing article text: %q", content.BodyText)
	}
	if strings.Contains(content.BodyText, "Home About Contact") {
		t.Fatalf("nav text leaked into article body: %q", content.BodyText)
	}
	if strings.Contains(content.BodyText, "console.log") {
		t.Fatalf("script text leaked: %q", content.BodyText)
	}
}

func TestBasicExtractImageContract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(basicFixture))
	}))
	defer server.Close()

	s := NewBasicStrategy(server.Client())
	content, err := s.Extract(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// og:image plus at most five inline images, pixels and data URIs
	// excluded, duplicates collapsed.
	if len(content.Images) != 6 {
		t.Fatalf("expected 6 images, got %d: %+v", len(content.Images), content.Images)
	}
	if content.Images[0].Src != "https://cdn.example.com/hero.jpg" {
		t.Fatalf("og:image should come first, got %q", content.Images[0].Src)
	}
	for _, img := range content.Images {
		if strings.Contains(img.Src, "pixel") || strings.HasPrefix(img.Src, "data:") {
			t.Fatalf("unwanted image slipped through: %q", img.Src)
		}
		if !strings.HasPrefix(img.Src, "http") {
			t.Fatalf("image not absolute: %q", img.Src)
		}
	}
}

func TestBasicExtractNeverFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewBasicStrategy(server.Client())
	content, err := s.Extract(context.Background(), server.URL+"/gone")
	if err != nil {
		t.Fatalf("basic tier must not fail: %v", err)
	}
	if !strings.Contains(content.BodyText, "Content could not be extracted automatically") {
		t.Fatalf("expected pointer record, got %q", content.BodyText)
	}
}

func TestBasicExtractBodyFallbackCap(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("lorem ipsum dolor sit amet ", 600)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Long</title></head><body><p>" + long + "</p></body></html>"))
	}))
	defer server.Close()

	s := NewBasicStrategy(server.Client())
	content, err := s.Extract(context.Background(), server.URL+"/long")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(content.BodyText) > 10_000 {
		t.Fatalf("body fallback not capped: %d chars", len(content.BodyText))
	}
}
