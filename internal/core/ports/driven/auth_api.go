package driven

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// AuthAPI is the backend's authentication surface.
// Calls made through it never trigger a token refresh.
type AuthAPI interface {
	// Login exchanges email and password for a token pair.
	Login(ctx context.Context, email, password string) (domain.Credentials, error)

	// Refresh exchanges a refresh token for a new pair.
	// A 401 from the backend is terminal.
	Refresh(ctx context.Context, refreshToken string) (domain.Credentials, error)

	// Logout invalidates the session server-side. Best effort.
	Logout(ctx context.Context, accessToken string) error
}
