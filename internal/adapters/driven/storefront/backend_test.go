package storefront

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/services"
)

// fakeBackend is an in-process storefront API. Protected routes accept only
// the current access token.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server
	mux *http.ServeMux

	mu      sync.Mutex
	access  string
	refresh string
	next    int

	refreshCalls atomic.Int32
	unauthorized atomic.Int32
	// refreshGate, when set, is called before the refresh responds.
	refreshGate func()
	// refreshStatus overrides the refresh response status.
	refreshStatus int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, access: "a1", refresh: "r1", next: 2, mux: http.NewServeMux()}
	b.mux.HandleFunc("POST /api/auth/refresh", b.handleRefresh)
	b.srv = httptest.NewServer(b.mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) settings() domain.APISettings {
	return domain.APISettings{
		BaseURL:       b.srv.URL + "/api",
		Timeout:       5 * time.Second,
		RatePerSecond: 1000,
		Burst:         100,
	}
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	if b.refreshGate != nil {
		b.refreshGate()
	}
	if b.refreshStatus != 0 {
		writeJSON(w, b.refreshStatus, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}

	var body struct {
		Refresh string `json:"refresh"`
	}
	require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))

	b.mu.Lock()
	defer b.mu.Unlock()
	if body.Refresh != b.refresh {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	b.access = "a" + strconv.Itoa(b.next)
	b.next++
	writeJSON(w, http.StatusOK, map[string]string{"access": b.access})
}

// protected wraps h with bearer checking.
func (b *fakeBackend) protected(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+b.access
		b.mu.Unlock()
		if !ok {
			b.unauthorized.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		h(w, r)
	}
}

// expire rotates the server-side access token so the client's copy is stale.
func (b *fakeBackend) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.access = "server-only"
}

// clientWith wires the real credential store, coordinator and clients.
func (b *fakeBackend) clientWith(creds domain.Credentials) (*Client, *memory.CredentialsStore) {
	store := memory.NewCredentialsStoreWith(creds)
	credentials := services.NewCredentialsService(store, nil)
	coordinator := services.NewRefreshCoordinator(credentials, NewAuthClient(b.settings()), nil)
	return NewClient(b.settings(), coordinator), store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBody(t *testing.T, r *http.Request) []byte {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	return body
}
