// Package push announces finished digests to the user's device. Actual
// delivery goes through the mobile backend; this service only resolves the
// device token and records the dispatch.
package push

import (
	"context"
	"fmt"
	"log/slog"

	"linkdigest/internal/ports"
)

// TokenSource resolves the push token registered for a user.
type TokenSource interface {
	GetDeviceToken(ctx context.Context, userID string) (string, error)
}

// Notifier implements ports.PushNotifier.
type Notifier struct {
	tokens TokenSource
	logger *slog.Logger
}

var _ ports.PushNotifier = (*Notifier)(nil)

// NewNotifier wires the token source.
func NewNotifier(tokens TokenSource, logger *slog.Logger) *Notifier {
	return &Notifier{tokens: tokens, logger: logger}
}

// NotifyDigestReady looks up the device token and records the notification.
// TODO: hand the token to the APNs relay once the mobile backend exposes it.
func (n *Notifier) NotifyDigestReady(ctx context.Context, userID, digestID string) error {
	if n.tokens == nil {
		return fmt.Errorf("push notifier misconfigured")
	}

	token, err := n.tokens.GetDeviceToken(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve device token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("user %s has no device token", userID)
	}

	if n.logger != nil {
		n.logger.Info("digest notification queued",
			"user", userID,
			"digest", digestID,
			"token_suffix", tokenSuffix(token),
		)
	}
	return nil
}

// tokenSuffix keeps logs useful without writing whole tokens to them.
func tokenSuffix(token string) string {
	if len(token) <= 6 {
		return token
	}
	return "..." + token[len(token)-6:]
}
