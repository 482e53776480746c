package extract

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"linkdigest/internal/cleaner"
	"linkdigest/internal/domain"
)

const (
	basicUserAgent = "linkdigest/1.0"
	bodyTextCap    = 10_000
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// BasicStrategy is the last-resort tier: lightweight metadata and body-text
// scraping with fixed behavioral contracts (og:image priority, 5-image cap,
// 10,000-char body cap). It never fails outright; with nothing usable it
// returns a record pointing the user at the original page.
type BasicStrategy struct {
	client *http.Client
}

var _ Strategy = (*BasicStrategy)(nil)

// NewBasicStrategy wires an HTTP client; nil gets http.DefaultClient so this
// tier carries no timeout of its own.
func NewBasicStrategy(client *http.Client) *BasicStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	return &BasicStrategy{client: client}
}

// Name identifies the strategy inside the ordering tables.
func (s *BasicStrategy) Name() string {
	return NameBasic
}

// Extract scrapes title, meta description, og:image, og:site_name, and body
// text from the first of <article>, <main>, <body>. Fetch or parse errors
// degrade to the pointer-to-original record rather than failing.
func (s *BasicStrategy) Extract(ctx context.Context, pageURL string) (domain.ExtractedContent, error) {
	rawHTML, err := fetchHTML(ctx, s.client, pageURL, basicUserAgent)
	if err != nil {
		return pointerRecord(pageURL), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return pointerRecord(pageURL), nil
	}

	content := domain.ExtractedContent{
		Title:       cleaner.CleanTitle(doc.Find("title").First().Text(), pageURL),
		Description: cleaner.DecodeEntities(metaDescription(doc)),
		Images:      scanImages(doc, pageURL),
	}
	if site, ok := doc.Find(`meta[property="og:site_name"]`).First().Attr("content"); ok {
		content.SiteName = strings.TrimSpace(site)
	}

	doc.Find("script, style, noscript").Remove()

	body, capped := firstContainerText(doc)
	if runes := []rune(body); capped && len(runes) > bodyTextCap {
		body = string(runes[:bodyTextCap])
	}

	if body == "" {
		content.BodyText = pointerMessage(pageURL)
	} else {
		content.BodyText = cleaner.DecodeEntities(body)
	}
	return content, nil
}

// firstContainerText returns text from the first of <article>, <main>,
// <body>. The cap applies only to the body fallback, where nav and footer
// chrome can balloon the text.
func firstContainerText(doc *goquery.Document) (text string, capped bool) {
	for _, selector := range []string{"article", "main"} {
		if t := collapsedText(doc.Find(selector).First()); t != "" {
			return t, false
		}
	}
	return collapsedText(doc.Find("body").First()), true
}

func collapsedText(sel *goquery.Selection) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(sel.Text(), " "))
}

func pointerRecord(pageURL string) domain.ExtractedContent {
	return domain.ExtractedContent{
		Title:    domain.Hostname(pageURL),
		BodyText: pointerMessage(pageURL),
	}
}

func pointerMessage(pageURL string) string {
	return fmt.Sprintf("Content could not be extracted automatically. Open the original page to read it: %s", pageURL)
}
