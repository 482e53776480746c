package domain

import (
	"net/url"
	"strings"
)

// URLClass drives strategy ordering. Assigned once by host substring
// matching and immutable afterwards.
type URLClass string

const (
	ClassGeneric      URLClass = "generic"
	ClassSocial       URLClass = "social"
	ClassProfessional URLClass = "professional"
	ClassPaywalled    URLClass = "paywalled"
	ClassForum        URLClass = "forum"
)

var socialHosts = []string{"x.com", "twitter.com"}

var professionalHosts = []string{"linkedin.com"}

var paywalledHosts = []string{"wsj.com", "ft.com", "economist.com", "bloomberg.com"}

var forumHosts = []string{"reddit.com", "news.ycombinator.com"}

// readerFirstHosts are sites known to reject direct fetches; for them the
// reader proxy is attempted before readability.
var readerFirstHosts = []string{"youtube.com", "youtu.be", "quora.com", "medium.com", "bloomberg.com", "wsj.com", "ft.com"}

// ClassifyURL buckets a submitted link by host substring.
func ClassifyURL(rawURL string) URLClass {
	host := hostOf(rawURL)
	switch {
	case hostMatches(host, socialHosts):
		return ClassSocial
	case hostMatches(host, professionalHosts):
		return ClassProfessional
	case hostMatches(host, paywalledHosts):
		return ClassPaywalled
	case hostMatches(host, forumHosts):
		return ClassForum
	default:
		return ClassGeneric
	}
}

// ReaderFirst reports whether the URL belongs to the fixed allowlist of
// sites that should skip straight to the reader proxy.
func ReaderFirst(rawURL string) bool {
	return hostMatches(hostOf(rawURL), readerFirstHosts)
}

// Hostname returns the bare host of a URL, without the www prefix. Used as a
// title/site fallback; returns the input trimmed when parsing fails.
func Hostname(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return strings.TrimSpace(rawURL)
	}
	return host
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func hostMatches(host string, candidates []string) bool {
	for _, c := range candidates {
		if host == c || strings.HasSuffix(host, "."+c) {
			return true
		}
	}
	return false
}
