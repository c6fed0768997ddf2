package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService handles login, logout and session inspection.
type SessionService struct {
	credentials driving.CredentialsService
	auth        driven.AuthAPI
	profiles    driven.ProfileAPI
}

// NewSessionService creates a new session service. profiles may be nil.
func NewSessionService(credentials driving.CredentialsService, auth driven.AuthAPI, profiles driven.ProfileAPI) *SessionService {
	return &SessionService{
		credentials: credentials,
		auth:        auth,
		profiles:    profiles,
	}
}

// Login authenticates and stores the resulting token pair.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if s.auth == nil {
		return domain.ErrNotImplemented
	}

	email = strings.TrimSpace(email)
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "Email is required"
	}
	if password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if !creds.IsAuthenticated() {
		return fmt.Errorf("login returned no access token: %w", domain.ErrUnauthorized)
	}

	logger.Info("logged in as %s", email)
	return s.credentials.Write(ctx, creds)
}

// Logout notifies the backend and clears local state. The backend call is
// best-effort and never refreshes.
func (s *SessionService) Logout(ctx context.Context) error {
	creds, err := s.credentials.Read(ctx)
	if err != nil {
		logger.Warn("reading credentials for logout: %v", err)
	}

	if s.auth != nil && creds.IsAuthenticated() {
		if err := s.auth.Logout(ctx, creds.AccessToken); err != nil {
			logger.Warn("backend logout failed: %v", err)
		}
	}

	return s.credentials.Clear(ctx)
}

// Profile returns the authenticated user's account info.
func (s *SessionService) Profile(ctx context.Context) (*domain.Profile, error) {
	if s.profiles == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.profiles.Profile(ctx)
}

// Status reports the stored session, fetching the profile when possible.
func (s *SessionService) Status(ctx context.Context) (*driving.SessionStatus, error) {
	creds, err := s.credentials.Read(ctx)
	if err != nil {
		return nil, err
	}

	status := &driving.SessionStatus{
		Authenticated:   creds.IsAuthenticated(),
		HasRefreshToken: creds.HasRefreshToken(),
	}
	if !status.Authenticated || s.profiles == nil {
		return status, nil
	}

	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		logger.Debug("profile unavailable: %v", err)
		if domain.IsTerminalAuth(err) {
			status.Authenticated = false
			status.HasRefreshToken = false
		}
		return status, nil
	}
	status.Profile = profile
	return status, nil
}
