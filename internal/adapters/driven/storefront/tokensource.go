package storefront

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// Ensure tokenSource implements oauth2.TokenSource.
var _ oauth2.TokenSource = (*tokenSource)(nil)

// tokenSource adapts a driven.TokenProvider to oauth2.TokenSource.
// Tokens carry no expiry; the backend's 401 is the only expiry signal.
type tokenSource struct {
	ctx    context.Context
	tokens driven.TokenProvider
}

func newTokenSource(ctx context.Context, tokens driven.TokenProvider) *tokenSource {
	return &tokenSource{ctx: ctx, tokens: tokens}
}

// Token returns the current access token as a bearer token.
func (s *tokenSource) Token() (*oauth2.Token, error) {
	access, err := s.tokens.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	return newBearer(access), nil
}

func newBearer(access string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: access,
		TokenType:   "Bearer",
	}
}
