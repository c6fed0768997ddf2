package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// It is implemented by the refresh coordinator and consumed by the
// authenticating transport.
type TokenProvider interface {
	// Token returns the current access token without refreshing.
	// Returns domain.ErrAuthRequired when no session is stored.
	Token(ctx context.Context) (string, error)

	// EnsureValid returns an access token newer than stale, refreshing at
	// most once across all concurrent callers. A refresh failure is terminal
	// and wraps domain.ErrSessionExpired.
	EnsureValid(ctx context.Context, stale string) (string, error)
}
