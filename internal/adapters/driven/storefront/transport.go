package storefront

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// RefreshPath is the token refresh endpoint, relative to the API root.
const RefreshPath = "/auth/refresh"

type replayKey struct{}

// isReplay reports whether ctx belongs to a request already replayed after
// a refresh.
func isReplay(ctx context.Context) bool {
	replayed, _ := ctx.Value(replayKey{}).(bool)
	return replayed
}

// AuthTransport implements http.RoundTripper with bearer authentication and
// one refresh-and-replay on 401.
type AuthTransport struct {
	Transport http.RoundTripper
	Tokens    driven.TokenProvider
	Metrics   *metrics.Metrics
}

// NewAuthTransport wraps base. A nil base uses http.DefaultTransport.
func NewAuthTransport(base http.RoundTripper, tokens driven.TokenProvider, m *metrics.Metrics) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{Transport: base, Tokens: tokens, Metrics: m}
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isRefreshRequest(req) {
		return t.Transport.RoundTrip(req)
	}

	body, err := drainBody(req)
	if err != nil {
		return nil, err
	}

	ctx := req.Context()
	token, err := t.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := t.Transport.RoundTrip(withAuth(ctx, req, body, token))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || isReplay(ctx) {
		return resp, err
	}
	discard(resp)

	if token == "" {
		return nil, domain.ErrAuthRequired
	}

	logger.Debug("401 from %s %s, refreshing", req.Method, req.URL.Path)
	fresh, err := t.Tokens.EnsureValid(ctx, token)
	if err != nil {
		return nil, err
	}

	t.Metrics.IncReplay()
	replayCtx := context.WithValue(ctx, replayKey{}, true)
	return t.Transport.RoundTrip(withAuth(replayCtx, req, body, fresh))
}

// currentToken returns the stored token, or "" when no session exists.
func (t *AuthTransport) currentToken(ctx context.Context) (string, error) {
	if t.Tokens == nil {
		return "", nil
	}
	tok, err := newTokenSource(ctx, t.Tokens).Token()
	if errors.Is(err, domain.ErrAuthRequired) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading access token: %w", err)
	}
	return tok.AccessToken, nil
}

// withAuth clones req onto ctx with a fresh body reader and the bearer header.
func withAuth(ctx context.Context, req *http.Request, body []byte, token string) *http.Request {
	out := req.Clone(ctx)
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		out.ContentLength = int64(len(body))
	}
	out.Header.Del("Authorization")
	if token != "" {
		tok := newBearer(token)
		tok.SetAuthHeader(out)
	}
	return out
}

// drainBody reads and closes the request body so it can be sent twice.
func drainBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("buffering request body: %w", err)
	}
	return body, nil
}

func discard(resp *http.Response) {
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}

func isRefreshRequest(req *http.Request) bool {
	return strings.HasSuffix(strings.TrimSuffix(req.URL.Path, "/"), RefreshPath)
}
