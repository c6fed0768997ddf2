package storefront

import (
	"context"
	"net/http"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// ProfilePath is the current-user endpoint, relative to the API root.
const ProfilePath = "/users/info"

// Profile returns the account behind the current token.
func (c *Client) Profile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, ProfilePath, nil, nil, &profile, nil); err != nil {
		return nil, err
	}
	return &profile, nil
}
