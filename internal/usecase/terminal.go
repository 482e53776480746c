package usecase

import (
	"errors"

	"linkdigest/internal/domain"
	"linkdigest/internal/extract"
)

// Terminal fallback copy, keyed by URL class. Synthesized when every
// extraction attempt is exhausted; the collaborator UI renders the body as
// its "tap to open in browser" affordance.
var terminalBodies = map[domain.URLClass]string{
	domain.ClassProfessional: "This LinkedIn article requires signing in and could not be read automatically. Tap to open it in the app or browser.",
	domain.ClassSocial:       "This post is behind a login wall and could not be read automatically. Tap to open it in the app or browser.",
	domain.ClassPaywalled:    "This article sits behind a subscription wall. Tap to open it on the publisher's site.",
}

const genericTerminalBody = "Content could not be extracted automatically. Tap to open the original page in your browser."

func terminalContent(rawURL string, class domain.URLClass) domain.ExtractedContent {
	body, ok := terminalBodies[class]
	if !ok {
		body = genericTerminalBody
	}
	return domain.ExtractedContent{
		Title:    domain.Hostname(rawURL),
		BodyText: body,
	}
}

// socialTerminal builds the record for a status link the AI-search strategy
// could not transcribe. The body names the cause when the credential is
// missing so the stored description explains itself.
func socialTerminal(rawURL string, cause error) domain.ExtractedContent {
	body := terminalBodies[domain.ClassSocial]
	if errors.Is(cause, domain.ErrNotConfigured) {
		body = "AI search is not configured, so this post could not be read automatically. Tap to open it in the app or browser."
	}

	content := domain.ExtractedContent{
		Title:    "X Post",
		BodyText: body,
		SiteName: "X",
	}
	if handle, _, ok := extract.ParseStatusURL(rawURL); ok {
		content.Author = "@" + handle
	}
	return content
}
