package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-cli/internal/logger"
)

// Ensure CredentialsService implements the interface.
var _ driving.CredentialsService = (*CredentialsService)(nil)

// CredentialsService is the single owner of persisted auth state.
// The first Read loads from the store; later reads are served from cache
// until Reload or Revoke goes back to the store.
type CredentialsService struct {
	store     driven.CredentialsStore
	publisher driven.SessionEventPublisher
	now       func() time.Time

	mu     sync.RWMutex
	cached *domain.Credentials
}

// NewCredentialsService creates a new credentials service.
// publisher may be nil.
func NewCredentialsService(store driven.CredentialsStore, publisher driven.SessionEventPublisher) *CredentialsService {
	return &CredentialsService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// Read returns the current token pair with quoting artifacts removed.
func (s *CredentialsService) Read(ctx context.Context) (domain.Credentials, error) {
	if s.store == nil {
		return domain.Credentials{}, domain.ErrNotImplemented
	}

	s.mu.RLock()
	if s.cached != nil {
		creds := *s.cached
		s.mu.RUnlock()
		return creds, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}
	return s.loadLocked(ctx)
}

// Reload discards the cache and reads the store again. Another process
// sharing the store may have logged in or refreshed since the last read.
func (s *CredentialsService) Reload(ctx context.Context) (domain.Credentials, error) {
	if s.store == nil {
		return domain.Credentials{}, domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *CredentialsService) loadLocked(ctx context.Context) (domain.Credentials, error) {
	raw, err := s.store.Load(ctx)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("loading credentials: %w", err)
	}
	creds := raw.Unwrapped()
	s.cached = &creds
	return creds, nil
}

// Write persists the pair and publishes a written event.
func (s *CredentialsService) Write(ctx context.Context, creds domain.Credentials) error {
	return s.write(ctx, creds, domain.SessionWritten)
}

// Rotate persists a refreshed pair and publishes a refreshed event.
func (s *CredentialsService) Rotate(ctx context.Context, creds domain.Credentials) error {
	return s.write(ctx, creds, domain.SessionRefreshed)
}

func (s *CredentialsService) write(ctx context.Context, creds domain.Credentials, kind domain.SessionEventKind) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}

	creds = creds.Unwrapped()
	if creds.UpdatedAt.IsZero() {
		creds.UpdatedAt = s.now()
	}

	s.mu.Lock()
	if err := s.store.Save(ctx, creds); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("saving credentials: %w", err)
	}
	s.cached = &creds
	s.mu.Unlock()

	logger.Debug("credentials %s", kind)
	s.publish(domain.SessionEvent{Kind: kind, Access: creds.AccessToken, Refresh: creds.RefreshToken})
	return nil
}

// Clear removes all persisted auth state and publishes a cleared event.
func (s *CredentialsService) Clear(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}

	s.mu.Lock()
	// The cache is emptied even when the store fails.
	empty := domain.Credentials{}
	s.cached = &empty
	err := s.store.Clear(ctx)
	s.mu.Unlock()

	s.publish(domain.SessionEvent{Kind: domain.SessionCleared})
	if err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	logger.Debug("credentials cleared")
	return nil
}

// Revoke clears persisted auth state after the backend rejected the given
// refresh token. The store is read first: when it holds a session
// with a different refresh token, that session is kept, cached and returned
// with cleared set to false.
func (s *CredentialsService) Revoke(ctx context.Context, rejected string) (current domain.Credentials, cleared bool, err error) {
	if s.store == nil {
		return domain.Credentials{}, false, domain.ErrNotImplemented
	}

	s.mu.Lock()
	stored, loadErr := s.loadLocked(ctx)
	if loadErr == nil && stored.IsAuthenticated() && stored.RefreshToken != domain.UnquoteToken(rejected) {
		s.mu.Unlock()
		logger.Debug("stored session differs from the rejected one, keeping it")
		return stored, false, nil
	}

	empty := domain.Credentials{}
	s.cached = &empty
	err = s.store.Clear(ctx)
	s.mu.Unlock()

	s.publish(domain.SessionEvent{Kind: domain.SessionCleared})
	if err != nil {
		return domain.Credentials{}, true, fmt.Errorf("clearing credentials: %w", err)
	}
	logger.Debug("credentials cleared")
	return domain.Credentials{}, true, nil
}

func (s *CredentialsService) publish(event domain.SessionEvent) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
