package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"linkdigest/internal/domain"
)

const maxInlineImages = 5

// trackingMarkers identify pixel and analytics images that should never be
// surfaced as article imagery.
var trackingMarkers = []string{"pixel", "tracking", "tracker", "beacon", "1x1", "spacer", "analytics"}

// scanImages collects the og:image (first, when present) and up to five
// inline <img> tags from a parsed document, deduplicated by resolved
// absolute URL. Data URIs and tracking pixels are skipped.
func scanImages(doc *goquery.Document, pageURL string) []domain.ImageRef {
	base, _ := url.Parse(pageURL)

	var images []domain.ImageRef
	seen := map[string]struct{}{}

	add := func(src, alt string) bool {
		resolved := resolveImageURL(base, src)
		if resolved == "" {
			return false
		}
		if _, ok := seen[resolved]; ok {
			return false
		}
		seen[resolved] = struct{}{}
		images = append(images, domain.ImageRef{Src: resolved, Alt: strings.TrimSpace(alt)})
		return true
	}

	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		add(og, "")
	}

	inline := 0
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok {
			return true
		}
		alt, _ := img.Attr("alt")
		if add(src, alt) {
			inline++
		}
		return inline < maxInlineImages
	})

	return images
}

// resolveImageURL turns a candidate src into an absolute URL, or "" when the
// candidate is unusable (data URI, tracking marker, unparsable).
func resolveImageURL(base *url.URL, src string) string {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}

	lower := strings.ToLower(src)
	for _, marker := range trackingMarkers {
		if strings.Contains(lower, marker) {
			return ""
		}
	}

	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}

// metaDescription pulls the meta description, falling back to og:description.
func metaDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && strings.TrimSpace(desc) != "" {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}
