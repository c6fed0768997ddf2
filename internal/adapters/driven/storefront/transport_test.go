package storefront

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

func TestAuthTransport_AttachesBearer(t *testing.T) {
	b := newFakeBackend(t)
	var got atomic.Value
	b.mux.HandleFunc("GET /api/users/info", b.protected(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 5, "email": "ivan@example.com"})
	}))
	client, _ := b.clientWith(domain.Credentials{AccessToken: `"a1"`, RefreshToken: "r1"})

	profile, err := client.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer a1", got.Load())
	assert.Equal(t, "ivan@example.com", profile.Email)
	assert.Zero(t, b.refreshCalls.Load())
}

func TestAuthTransport_RefreshesAndReplaysWithBody(t *testing.T) {
	b := newFakeBackend(t)
	var bodies []string
	var mu sync.Mutex
	b.mux.HandleFunc("POST /api/basket/add/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		bodies = append(bodies, string(readBody(t, r)))
		mu.Unlock()
		b.protected(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})(w, r)
	})
	client, store := b.clientWith(domain.Credentials{AccessToken: "a1", RefreshToken: "r1"})
	b.expire()

	err := client.AddItem(context.Background(), domain.NewLineItem(domain.Product{ID: 7, IsAccessory: true}, 1).BasketItem())

	require.NoError(t, err)
	assert.Equal(t, int32(1), b.refreshCalls.Load())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.JSONEq(t, `{"accessory_id":7,"quantity":1}`, bodies[1])

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", saved.AccessToken)
	assert.Equal(t, "r1", saved.RefreshToken)
}

func TestAuthTransport_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 8
	b := newFakeBackend(t)
	allRejected := make(chan struct{})
	var once sync.Once
	b.mux.HandleFunc("GET /api/users/info", func(w http.ResponseWriter, r *http.Request) {
		b.protected(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": 1})
		})(w, r)
		if b.unauthorized.Load() == n {
			once.Do(func() { close(allRejected) })
		}
	})
	b.refreshGate = func() {
		select {
		case <-allRejected:
		case <-time.After(5 * time.Second):
		}
	}
	client, _ := b.clientWith(domain.Credentials{AccessToken: "a1", RefreshToken: "r1"})
	b.mu.Lock()
	b.access = "a0"
	b.mu.Unlock()

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Profile(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), b.refreshCalls.Load())
	assert.Equal(t, int32(n), b.unauthorized.Load())
}

func TestAuthTransport_ReplayNeverRefreshesTwice(t *testing.T) {
	b := newFakeBackend(t)
	var calls atomic.Int32
	b.mux.HandleFunc("GET /api/users/info", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})
	client, _ := b.clientWith(domain.Credentials{AccessToken: "a1", RefreshToken: "r1"})

	_, err := client.Profile(context.Background())

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, domain.IsTerminalAuth(err))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), b.refreshCalls.Load())
}

func TestAuthTransport_RefreshRejectedIsTerminal(t *testing.T) {
	b := newFakeBackend(t)
	b.refreshStatus = http.StatusUnauthorized
	b.mux.HandleFunc("GET /api/basket", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	}))
	client, store := b.clientWith(domain.Credentials{AccessToken: "a1", RefreshToken: "r1"})
	b.expire()

	_, err := client.ActiveBasket(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsTerminalAuth(err))
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, int32(1), b.refreshCalls.Load())

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, saved.IsAuthenticated())
	assert.False(t, saved.HasRefreshToken())
}

func TestAuthTransport_NoSession(t *testing.T) {
	b := newFakeBackend(t)
	var header atomic.Value
	b.mux.HandleFunc("GET /api/users/info", func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
	})
	client, _ := b.clientWith(domain.Credentials{})

	_, err := client.Profile(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Equal(t, "", header.Load())
	assert.Zero(t, b.refreshCalls.Load())
}

func TestAuthTransport_PassesThroughOtherStatuses(t *testing.T) {
	b := newFakeBackend(t)
	b.mux.HandleFunc("GET /api/orders/details/9/", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}))
	client, _ := b.clientWith(domain.Credentials{AccessToken: "a1", RefreshToken: "r1"})

	_, err := client.OrderDetails(context.Background(), 9)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, b.refreshCalls.Load())
}
