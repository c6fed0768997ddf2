package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// Ensure RefreshCoordinator implements the interface.
var _ driven.TokenProvider = (*RefreshCoordinator)(nil)

type refreshOutcome struct {
	token string
	err   error
}

// RefreshCoordinator guarantees at most one token refresh is outstanding at
// a time. Callers that need a refresh while one is running queue behind it
// and all receive the same outcome, in arrival order.
type RefreshCoordinator struct {
	credentials *CredentialsService
	auth        driven.AuthAPI
	metrics     *metrics.Metrics

	mu         sync.Mutex
	inProgress bool
	waiters    []chan refreshOutcome
}

// NewRefreshCoordinator creates a coordinator. m may be nil.
func NewRefreshCoordinator(credentials *CredentialsService, auth driven.AuthAPI, m *metrics.Metrics) *RefreshCoordinator {
	return &RefreshCoordinator{
		credentials: credentials,
		auth:        auth,
		metrics:     m,
	}
}

// Token returns the current access token, or domain.ErrAuthRequired.
func (c *RefreshCoordinator) Token(ctx context.Context) (string, error) {
	creds, err := c.credentials.Read(ctx)
	if err != nil {
		return "", err
	}
	if !creds.IsAuthenticated() {
		return "", domain.ErrAuthRequired
	}
	return creds.AccessToken, nil
}

// EnsureValid returns an access token newer than stale. When the stored
// token already differs from stale it is returned without a network call;
// otherwise the caller joins the single outstanding refresh.
func (c *RefreshCoordinator) EnsureValid(ctx context.Context, stale string) (string, error) {
	return c.await(ctx, stale, true)
}

// ForceRefresh refreshes regardless of the current token.
func (c *RefreshCoordinator) ForceRefresh(ctx context.Context) (string, error) {
	return c.await(ctx, "", false)
}

func (c *RefreshCoordinator) await(ctx context.Context, stale string, checkStale bool) (string, error) {
	if c.auth == nil || c.credentials == nil {
		return "", domain.ErrNotImplemented
	}

	c.mu.Lock()
	if !c.inProgress && checkStale {
		creds, err := c.credentials.Reload(ctx)
		if err == nil && creds.IsAuthenticated() && creds.AccessToken != stale {
			c.mu.Unlock()
			c.metrics.IncRefresh(metrics.OutcomeSkipped)
			return creds.AccessToken, nil
		}
	}

	ch := make(chan refreshOutcome, 1)
	c.waiters = append(c.waiters, ch)
	if !c.inProgress {
		c.inProgress = true
		// The refresh outlives any single caller's context.
		go c.run(context.WithoutCancel(ctx))
	} else {
		logger.Debug("refresh in progress, queued (%d waiting)", len(c.waiters))
	}
	c.mu.Unlock()

	select {
	case out := <-ch:
		return out.token, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *RefreshCoordinator) run(ctx context.Context) {
	logger.Debug("refreshing access token")

	token, rejected, err := c.refresh(ctx)
	if err == nil {
		c.metrics.IncRefresh(metrics.OutcomeSuccess)
	} else {
		logger.Warn("token refresh failed: %v", err)
		current, cleared, revokeErr := c.credentials.Revoke(ctx, rejected)
		switch {
		case revokeErr != nil:
			c.metrics.IncRefresh(metrics.OutcomeFailure)
			logger.Warn("clearing credentials after failed refresh: %v", revokeErr)
		case !cleared:
			// Another process replaced the session while we refreshed.
			c.metrics.IncRefresh(metrics.OutcomeSkipped)
			token, err = current.AccessToken, nil
		default:
			c.metrics.IncRefresh(metrics.OutcomeFailure)
		}
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inProgress = false
	c.mu.Unlock()

	out := refreshOutcome{token: token, err: err}
	for _, w := range waiters {
		w <- out
	}
}

// refresh exchanges the stored refresh token for a new pair. It returns the
// refresh token it sent so a rejection can be matched against the store.
func (c *RefreshCoordinator) refresh(ctx context.Context) (token, sent string, err error) {
	creds, err := c.credentials.Reload(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	if !creds.HasRefreshToken() {
		return "", "", fmt.Errorf("%w: no refresh token", domain.ErrSessionExpired)
	}
	sent = creds.RefreshToken

	next, err := c.auth.Refresh(ctx, sent)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return "", sent, err
		}
		return "", sent, fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	if next.AccessToken == "" {
		return "", sent, fmt.Errorf("%w: refresh returned no access token", domain.ErrSessionExpired)
	}
	if next.RefreshToken == "" {
		next.RefreshToken = sent
	}

	if err := c.credentials.Rotate(ctx, next); err != nil {
		return "", sent, fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	return domain.UnquoteToken(next.AccessToken), sent, nil
}
