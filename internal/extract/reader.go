package extract

import (
	"context"

	"linkdigest/internal/domain"
	"linkdigest/internal/ports"
)

// ReaderStrategy delegates extraction to the external reader proxy service.
type ReaderStrategy struct {
	client ports.ReaderClient
}

var _ Strategy = (*ReaderStrategy)(nil)

// NewReaderStrategy wraps a reader proxy client.
func NewReaderStrategy(client ports.ReaderClient) *ReaderStrategy {
	return &ReaderStrategy{client: client}
}

// Name identifies the strategy inside the ordering tables.
func (s *ReaderStrategy) Name() string {
	return NameReader
}

// Extract forwards the URL to the proxy. Failure semantics (non-2xx, empty
// payload) live in the client; this tier adds nothing on top.
func (s *ReaderStrategy) Extract(ctx context.Context, pageURL string) (domain.ExtractedContent, error) {
	if s.client == nil {
		return domain.ExtractedContent{}, domain.ErrNotConfigured
	}
	return s.client.Read(ctx, pageURL)
}
