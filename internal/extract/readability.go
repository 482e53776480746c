package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
)

const (
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	readabilityMin   = 100
	fetchTimeout     = 20 * time.Second
)

// ReadabilityStrategy isolates the main article node from fetched HTML and
// independently scans the raw document for images and meta description.
type ReadabilityStrategy struct {
	client *http.Client
}

var _ Strategy = (*ReadabilityStrategy)(nil)

// NewReadabilityStrategy wires an HTTP client; a nil client gets the default
// 20s-timeout one.
func NewReadabilityStrategy(client *http.Client) *ReadabilityStrategy {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &ReadabilityStrategy{client: client}
}

// Name identifies the strategy inside the ordering tables.
func (s *ReadabilityStrategy) Name() string {
	return NameReadability
}

// Extract fetches the page and runs the readability algorithm with a
// 100-char minimum. It fails when no article node is found or the isolated
// text is under the minimum.
func (s *ReadabilityStrategy) Extract(ctx context.Context, pageURL string) (domain.ExtractedContent, error) {
	rawHTML, err := fetchHTML(ctx, s.client, pageURL, desktopUserAgent)
	if err != nil {
		return domain.ExtractedContent{}, err
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("parse url: %w", err)
	}

	parser := readability.NewParser()
	parser.CharThresholds = readabilityMin

	article, err := parser.Parse(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("readability parse: %w", err)
	}

	body := strings.TrimSpace(article.TextContent)
	if len(body) < readabilityMin {
		return domain.ExtractedContent{}, fmt.Errorf("readability body %d chars: %w", len(body), domain.ErrContentTooShort)
	}

	content := domain.ExtractedContent{
		Title:    cleaner.CleanTitle(article.Title, pageURL),
		BodyText: body,
		SiteName: article.SiteName,
		Author:   strings.TrimSpace(article.Byline),
	}

	// Image and description scanning runs over the raw HTML, not the
	// readability output, so stripped chrome still contributes metadata.
	if doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(rawHTML)); docErr == nil {
		content.Images = scanImages(doc, pageURL)
		content.Description = cleaner.DecodeEntities(metaDescription(doc))
	}
	if content.Description == "" {
		content.Description = strings.TrimSpace(article.Excerpt)
	}

	return content, nil
}

// fetchHTML performs a GET with the given user agent and returns the body.
func fetchHTML(ctx context.Context, client *http.Client, pageURL, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %s", pageURL, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(raw), nil
}
