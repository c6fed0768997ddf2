package storefront

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

func authedClient(t *testing.T) (*fakeBackend, *Client) {
	t.Helper()
	b := newFakeBackend(t)
	client, _ := b.clientWith(domain.Credentials{AccessToken: "a1", RefreshToken: "r1"})
	return b, client
}

func TestClient_ActiveBasket(t *testing.T) {
	b, client := authedClient(t)
	b.mux.HandleFunc("GET /api/basket", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 77, "positions": []any{}})
	}))

	basket, err := client.ActiveBasket(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(77), basket.ID)
}

func TestClient_ActiveBasket_NotFound(t *testing.T) {
	b, client := authedClient(t)
	b.mux.HandleFunc("GET /api/basket", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No active basket."})
	}))

	basket, err := client.ActiveBasket(context.Background())

	require.NoError(t, err)
	assert.Nil(t, basket)
}

func TestClient_CreateOrder_FieldRejection(t *testing.T) {
	b, client := authedClient(t)
	b.mux.HandleFunc("POST /api/orders/create", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"billing_details": map[string]any{
				"phone_number": []string{"Enter a valid phone number."},
			},
			"positions": []any{
				map[string]any{},
				map[string]any{"quantity": []string{"Ensure this value is greater than or equal to 1."}},
			},
		})
	}))

	_, err := client.CreateOrder(context.Background(), domain.OrderPayload{BasketID: 1})

	var rejected *domain.OrderRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.Status)
	assert.Equal(t, "Enter a valid phone number.", rejected.Fields["billing_details.phone_number"])
	assert.Equal(t, "Ensure this value is greater than or equal to 1.", rejected.Fields["positions.1.quantity"])
	assert.NotErrorIs(t, err, domain.ErrBasketReferenceInvalid)
}

func TestClient_CreateOrder_BasketRejection(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
	}{
		{"basket_id field", http.StatusBadRequest, map[string]any{"basket_id": []string{"Invalid pk \"5\" - object does not exist."}}},
		{"error code", http.StatusBadRequest, map[string]any{"detail": "Basket expired", "code": "basket_not_found"}},
		{"not found detail", http.StatusNotFound, map[string]any{"detail": "Basket not found."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, client := authedClient(t)
			b.mux.HandleFunc("POST /api/orders/create", b.protected(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))

			_, err := client.CreateOrder(context.Background(), domain.OrderPayload{BasketID: 5})

			assert.ErrorIs(t, err, domain.ErrBasketReferenceInvalid)
			var rejected *domain.OrderRejectedError
			assert.ErrorAs(t, err, &rejected)
		})
	}
}

func TestClient_CreateOrder_ServerError(t *testing.T) {
	b, client := authedClient(t)
	b.mux.HandleFunc("POST /api/orders/create", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := client.CreateOrder(context.Background(), domain.OrderPayload{BasketID: 1})

	assert.ErrorIs(t, err, domain.ErrOrderFailed)
	var rejected *domain.OrderRejectedError
	assert.False(t, errors.As(err, &rejected))
}

func TestClient_CreateOrder_SendsRequestID(t *testing.T) {
	b, client := authedClient(t)
	var got atomic.Value
	b.mux.HandleFunc("POST /api/orders/create", b.protected(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get(HeaderRequestID))
		writeJSON(w, http.StatusCreated, map[string]any{"id": 12, "status": "new"})
	}))

	ctx := domain.WithRequestID(context.Background(), "req-42")
	order, err := client.CreateOrder(ctx, domain.OrderPayload{BasketID: 3})

	require.NoError(t, err)
	assert.Equal(t, int64(12), order.ID)
	assert.Equal(t, int64(3), order.BasketID)
	assert.Equal(t, "req-42", got.Load())
}

func TestClient_ListOrders(t *testing.T) {
	tests := []struct {
		name  string
		body  any
		total int
	}{
		{
			name: "paginated",
			body: map[string]any{
				"results":      []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
				"total_items":  12,
				"total_pages":  2,
				"current_page": 2,
			},
			total: 12,
		},
		{
			name:  "bare array",
			body:  []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
			total: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, client := authedClient(t)
			var query atomic.Value
			b.mux.HandleFunc("GET /api/orders/list", b.protected(func(w http.ResponseWriter, r *http.Request) {
				query.Store(r.URL.RawQuery)
				writeJSON(w, http.StatusOK, tt.body)
			}))

			page, err := client.ListOrders(context.Background(), 2, 10)

			require.NoError(t, err)
			assert.Equal(t, "page=2&size=10", query.Load())
			assert.Len(t, page.Results, 2)
			assert.Equal(t, tt.total, page.TotalItems)
		})
	}
}

func TestClient_OrderDetails(t *testing.T) {
	b, client := authedClient(t)
	b.mux.HandleFunc("GET /api/orders/details/5/", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     5,
			"status": "paid",
			"positions": []any{
				map[string]any{"product": map[string]any{"id": 10, "total_price": "199.50"}, "quantity": 1},
				map[string]any{"accessory": map[string]any{"id": 7, "total_price": 20}, "quantity": 2},
			},
		})
	}))

	order, err := client.OrderDetails(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "paid", order.Status)
	assert.True(t, decimal.RequireFromString("219.50").Equal(order.Total()))
}

func TestClient_DiscountCode(t *testing.T) {
	b, client := authedClient(t)
	b.mux.HandleFunc("GET /api/discount-codes/SAVE10/", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": "SAVE10", "discount_percent": "10.00"})
	}))
	b.mux.HandleFunc("GET /api/discount-codes/NOPE/", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}))

	dc, err := client.DiscountCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	require.NotNil(t, dc.DiscountPercent)
	assert.True(t, decimal.NewFromInt(10).Equal(*dc.DiscountPercent))

	_, err = client.DiscountCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrDiscountInvalid)
}

func TestClient_RetriesAfterRateLimit(t *testing.T) {
	b, client := authedClient(t)
	var calls atomic.Int32
	b.mux.HandleFunc("GET /api/basket", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set(HeaderRetryAfter, "0")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "Request was throttled."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 3})
	}))

	basket, err := client.ActiveBasket(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), basket.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RateLimitTooLong(t *testing.T) {
	b, client := authedClient(t)
	b.mux.HandleFunc("GET /api/basket", b.protected(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "3600")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "Request was throttled."})
	}))

	_, err := client.ActiveBasket(context.Background())

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, IsRateLimited(err))
}

func TestAuthClient_Login(t *testing.T) {
	b := newFakeBackend(t)
	b.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.JSONEq(t, `{"email":"ivan@example.com","password":"secret"}`, string(readBody(t, r)))
		writeJSON(w, http.StatusOK, map[string]string{"access": "a1", "refresh": "r1"})
	})
	auth := NewAuthClient(b.settings())

	creds, err := auth.Login(context.Background(), "ivan@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "a1", creds.AccessToken)
	assert.Equal(t, "r1", creds.RefreshToken)
}

func TestAuthClient_LoginRejected(t *testing.T) {
	b := newFakeBackend(t)
	b.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
	})

	_, err := NewAuthClient(b.settings()).Login(context.Background(), "ivan@example.com", "bad")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthClient_Logout(t *testing.T) {
	b := newFakeBackend(t)
	var header atomic.Value
	b.mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, NewAuthClient(b.settings()).Logout(context.Background(), "a1"))
	assert.Equal(t, "Bearer a1", header.Load())
}

func TestParseAPIError(t *testing.T) {
	body := []byte(`{"detail":"Invalid data","code":"invalid","billing_details":{"zip_code":["Too long.","Bad format."]}}`)

	apiErr := parseAPIError(http.StatusBadRequest, body, "http://x/api/orders/create")

	assert.Equal(t, "Invalid data", apiErr.Detail)
	assert.Equal(t, "invalid", apiErr.Code)
	assert.Equal(t, map[string]string{"billing_details.zip_code": "Too long.; Bad format."}, apiErr.Fields)
	assert.ErrorIs(t, apiErr, domain.ErrInvalidInput)
	assert.Contains(t, apiErr.Error(), "billing_details.zip_code")
}

func TestParseAPIError_DetailPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"all keys", `{"error":"e","message":"m","detail":"d"}`, "d"},
		{"message over error", `{"error":"e","message":"m"}`, "m"},
		{"error only", `{"error":"e"}`, "e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				apiErr := parseAPIError(http.StatusBadRequest, []byte(tt.body), "http://x")
				require.Equal(t, tt.want, apiErr.Detail)
				require.Nil(t, apiErr.Fields)
			}
		})
	}
}

func TestParseAPIError_NonJSON(t *testing.T) {
	apiErr := parseAPIError(http.StatusBadGateway, []byte("  upstream down "), "http://x")

	assert.Equal(t, "upstream down", apiErr.Detail)
	assert.Nil(t, apiErr.Unwrap())
}
