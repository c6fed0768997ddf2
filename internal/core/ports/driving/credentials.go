package driving

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// CredentialsService is the process-wide credential store.
// All components read tokens through it and never touch raw storage.
type CredentialsService interface {
	// Read returns the current token pair with quoting artifacts removed.
	Read(ctx context.Context) (domain.Credentials, error)

	// Write persists the pair and broadcasts the change.
	Write(ctx context.Context, creds domain.Credentials) error

	// Clear removes all persisted auth state and broadcasts the change.
	Clear(ctx context.Context) error
}

// SessionService drives login and logout.
type SessionService interface {
	// Login authenticates and stores the resulting token pair.
	Login(ctx context.Context, email, password string) error

	// Logout invalidates the session. Local state is cleared even when the
	// backend call fails.
	Logout(ctx context.Context) error

	// Profile returns the authenticated user's account info.
	Profile(ctx context.Context) (*domain.Profile, error)

	// Status reports whether a session is stored.
	Status(ctx context.Context) (*SessionStatus, error)
}

// SessionStatus describes the stored session.
type SessionStatus struct {
	Authenticated   bool
	HasRefreshToken bool
	// Profile is nil when the profile could not be fetched.
	Profile *domain.Profile
}
