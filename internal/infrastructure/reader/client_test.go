package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"linkdigest/internal/config"
)

func TestReaderRead(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.String(), "example.com") {
			t.Errorf("target url missing from path: %s", r.URL)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer reader-key" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"data": {
			"title": "Proxied Title &amp; More",
			"description": "The proxied description.",
			"content": "The proxied article body with plenty of text in it.",
			"images": {"hero image": "https://cdn.example.com/hero.jpg"},
			"siteName": "Example",
			"author": "A. Writer"
		}}`))
	}))
	defer server.Close()

	c := NewClient(config.ReaderConfig{Endpoint: server.URL, APIKey: "reader-key"})
	content, err := c.Read(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if content.Title != "Proxied Title & More" {
		t.Fatalf("title = %q", content.Title)
	}
	if content.BodyText != "The proxied article body with plenty of text in it." {
		t.Fatalf("body = %q", content.BodyText)
	}
	if content.SiteName != "Example" || content.Author != "A. Writer" {
		t.Fatalf("metadata = %q / %q", content.SiteName, content.Author)
	}
	if len(content.Images) != 1 || content.Images[0].Src != "https://cdn.example.com/hero.jpg" {
		t.Fatalf("images = %+v", content.Images)
	}
}

func TestReaderReadFailsOnEmptyContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"title": "Empty", "content": ""}}`))
	}))
	defer server.Close()

	c := NewClient(config.ReaderConfig{Endpoint: server.URL})
	if _, err := c.Read(context.Background(), "https://example.com/post"); err == nil {
		t.Fatal("expected error on empty payload")
	}
}

func TestReaderReadFailsOnErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream timeout", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(config.ReaderConfig{Endpoint: server.URL})
	_, err := c.Read(context.Background(), "https://example.com/post")
	if err == nil {
		t.Fatal("expected error on 502")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("error should carry status: %v", err)
	}
}
