package driven

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// CredentialsStore persists the single namespaced session record.
// It is a pure key-value boundary: no token validation happens here, and
// values are returned exactly as persisted (quoting artifacts included).
type CredentialsStore interface {
	// Load returns the persisted credentials.
	// Returns a zero Credentials and no error when nothing is stored.
	Load(ctx context.Context) (domain.Credentials, error)

	// Save replaces the persisted credentials.
	Save(ctx context.Context, creds domain.Credentials) error

	// Clear removes all persisted auth state.
	Clear(ctx context.Context) error
}
