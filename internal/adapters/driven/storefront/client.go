package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// HeaderRequestID carries the checkout correlation id.
const HeaderRequestID = "X-Request-ID"

// Option configures a client.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	metrics   *metrics.Metrics
	limiter   *RateLimiter
}

// WithTransport sets the base round tripper (default http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithMetrics records replay counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRateLimiter shares a limiter between clients.
func WithRateLimiter(l *RateLimiter) Option {
	return func(o *options) { o.limiter = l }
}

func buildOptions(settings domain.APISettings, opts []Option) options {
	o := options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}
	if o.limiter == nil {
		o.limiter = NewRateLimiter(settings.RatePerSecond, settings.Burst)
	}
	return o
}

// rest performs JSON calls against the API root.
type rest struct {
	baseURL string
	http    *http.Client
	limiter *RateLimiter
}

func newRest(settings domain.APISettings, rt http.RoundTripper, limiter *RateLimiter) rest {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultTimeout
	}
	return rest{
		baseURL: strings.TrimSuffix(settings.BaseURL, "/"),
		http:    &http.Client{Transport: rt, Timeout: timeout},
		limiter: limiter,
	}
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil). Non-2xx responses become *APIError. A 429 is retried once when
// the server asks for a short enough pause.
func (r rest) do(ctx context.Context, method, path string, query url.Values, in, out any, header http.Header) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
	}

	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		status, body, resp, err := r.send(ctx, method, endpoint, payload, header)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}

		if status == http.StatusTooManyRequests && attempt == 0 {
			if wait := r.limiter.Backoff(resp); wait <= MaxRetryAfter {
				logger.Warn("rate limited on %s, retrying in %s", path, wait)
				continue
			}
		}

		if status < 200 || status >= 300 {
			return parseAPIError(status, body, endpoint)
		}
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding %s %s: %w", method, path, err)
		}
		return nil
	}
}

func (r rest) send(ctx context.Context, method, endpoint string, payload []byte, header http.Header) (int, []byte, *http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := domain.RequestID(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	started := time.Now()
	resp, err := r.http.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("reading response: %w", err)
	}
	logger.Debug("%s %s -> %d (%s)", method, req.URL.Path, resp.StatusCode, time.Since(started).Round(time.Millisecond))
	return resp.StatusCode, body, resp, nil
}

// Ensure Client implements the storefront ports.
var (
	_ driven.BasketAPI   = (*Client)(nil)
	_ driven.OrderAPI    = (*Client)(nil)
	_ driven.DiscountAPI = (*Client)(nil)
	_ driven.ProfileAPI  = (*Client)(nil)
)

// Client is the authenticated storefront API client.
type Client struct {
	rest
}

// NewClient creates a client whose requests carry the provider's token and
// are replayed once after a refresh on 401.
func NewClient(settings domain.APISettings, tokens driven.TokenProvider, opts ...Option) *Client {
	o := buildOptions(settings, opts)
	transport := NewAuthTransport(o.transport, tokens, o.metrics)
	return &Client{rest: newRest(settings, transport, o.limiter)}
}
