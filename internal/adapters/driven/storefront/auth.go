package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// Auth endpoints, relative to the API root.
const (
	LoginPath  = "/auth/login"
	LogoutPath = "/auth/logout"
)

// Ensure AuthClient implements the interface.
var _ driven.AuthAPI = (*AuthClient)(nil)

// AuthClient calls the auth endpoints on a transport without refresh handling.
type AuthClient struct {
	rest
}

// NewAuthClient creates an auth client.
func NewAuthClient(settings domain.APISettings, opts ...Option) *AuthClient {
	o := buildOptions(settings, opts)
	return &AuthClient{rest: newRest(settings, o.transport, o.limiter)}
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (p tokenPair) credentials() domain.Credentials {
	return domain.Credentials{AccessToken: p.Access, RefreshToken: p.Refresh}
}

// Login exchanges email and password for a token pair.
func (c *AuthClient) Login(ctx context.Context, email, password string) (domain.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var pair tokenPair
	if err := c.do(ctx, http.MethodPost, LoginPath, nil, body, &pair, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			return domain.Credentials{}, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
		}
		return domain.Credentials{}, err
	}
	return pair.credentials(), nil
}

// Refresh exchanges a refresh token for a new pair. A 401 is terminal.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (domain.Credentials, error) {
	body := map[string]string{"refresh": refreshToken}
	var pair tokenPair
	if err := c.do(ctx, http.MethodPost, RefreshPath, nil, body, &pair, nil); err != nil {
		if IsUnauthorized(err) {
			return domain.Credentials{}, fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
		}
		return domain.Credentials{}, err
	}
	return pair.credentials(), nil
}

// Logout invalidates the session server-side using an explicit bearer.
func (c *AuthClient) Logout(ctx context.Context, accessToken string) error {
	header := http.Header{}
	header.Set("Authorization", newBearer(accessToken).Type()+" "+accessToken)
	return c.do(ctx, http.MethodPost, LogoutPath, nil, nil, nil, header)
}
