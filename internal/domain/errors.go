package domain

import "errors"

// Error taxonomy shared across the pipeline. Strategy failures are wrapped
// with fmt.Errorf("...: %w", err) and matched with errors.Is.
var (
	// ErrContentTooShort marks a strategy result below its minimum length.
	ErrContentTooShort = errors.New("extracted content too short")

	// ErrNotConfigured marks a missing credential or endpoint.
	ErrNotConfigured = errors.New("service not configured")

	// ErrBadResponseShape marks an upstream payload missing expected fields.
	ErrBadResponseShape = errors.New("unexpected response shape")

	// ErrAnalysisTimeout marks a completion call that exceeded its deadline.
	ErrAnalysisTimeout = errors.New("analysis timed out")

	// ErrNoJSONFound marks completion text with no parseable JSON object.
	ErrNoJSONFound = errors.New("no JSON object in completion text")
)
