package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func articleFixture() string {
	para := "<p>Go schedulers move goroutines between operating system threads to keep every core busy. " +
		"When a goroutine blocks on a system call, the runtime hands its thread back to the pool and " +
		"parks the goroutine until the call returns, which keeps throughput steady under load.</p>"
	return `<!doctype html>
<html>
<head>
<title>How the Go Scheduler Works</title>
<meta name="description" content="An explanation of goroutine scheduling.">
</head>
<body>
<article>
<h1>How the Go Scheduler Works</h1>` +
		strings.Repeat(para, 6) +
		`<img src="/diagrams/scheduler.png" alt="scheduler diagram">
</article>
</body>
</html>`
}

func TestReadabilityExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleFixture()))
	}))
	defer server.Close()

	s := NewReadabilityStrategy(server.Client())
	content, err := s.Extract(context.Background(), server.URL+"/scheduler")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if !strings.Contains(content.Title, "Go Scheduler") {
		t.Fatalf("title = %q", content.Title)
	}
	if len(content.BodyText) < 100 {
		t.Fatalf("body under minimum: %d chars", len(content.BodyText))
	}
	if !strings.Contains(content.BodyText, "goroutine blocks on a system call") {
		t.Fatalf("body missing article text: %q", content.BodyText)
	}
	if content.Description != "An explanation of goroutine scheduling." {
		t.Fatalf("description = %q", content.Description)
	}
	if len(content.Images) == 0 || !strings.HasSuffix(content.Images[0].Src, "/diagrams/scheduler.png") {
		t.Fatalf("images = %+v", content.Images)
	}
}

func TestReadabilityExtractNoImages(t *testing.T) {
	t.Parallel()

	page := strings.Replace(articleFixture(), `<img src="/diagrams/scheduler.png" alt="scheduler diagram">`, "", 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	s := NewReadabilityStrategy(server.Client())
	content, err := s.Extract(context.Background(), server.URL+"/plain")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(content.Images) != 0 {
		t.Fatalf("expected no images, got %+v", content.Images)
	}
}

func TestReadabilityExtractFailsOnThinPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Thin</title></head><body><p>Sign in</p></body></html>`))
	}))
	defer server.Close()

	s := NewReadabilityStrategy(server.Client())
	if _, err := s.Extract(context.Background(), server.URL+"/thin"); err == nil {
		t.Fatal("expected failure on near-empty page")
	}
}

func TestReadabilityExtractFailsOnHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	s := NewReadabilityStrategy(server.Client())
	_, err := s.Extract(context.Background(), server.URL+"/blocked")
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}
