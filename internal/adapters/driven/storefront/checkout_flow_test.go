package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/services"
)

// basketBackend adds basket and order routes to a fakeBackend.
type basketBackend struct {
	*fakeBackend

	mu       sync.Mutex
	basketID int64
	adds     []map[string]any
	// expireOnAdd makes the add with this index fail once with a rotated basket.
	expireOnAdd int
	expired     bool
	orders      []domain.OrderPayload
}

func newBasketBackend(t *testing.T) *basketBackend {
	bb := &basketBackend{fakeBackend: newFakeBackend(t), basketID: 100, expireOnAdd: -1}

	bb.mux.HandleFunc("GET /api/basket", bb.protected(func(w http.ResponseWriter, _ *http.Request) {
		bb.mu.Lock()
		defer bb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"id": bb.basketID})
	}))

	bb.mux.HandleFunc("POST /api/basket/add/", bb.protected(func(w http.ResponseWriter, r *http.Request) {
		var item map[string]any
		require.NoError(t, json.Unmarshal(readBody(t, r), &item))

		bb.mu.Lock()
		defer bb.mu.Unlock()
		if len(bb.adds) == bb.expireOnAdd && !bb.expired {
			bb.expired = true
			bb.basketID++
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Basket not found."})
			return
		}
		bb.adds = append(bb.adds, item)
		w.WriteHeader(http.StatusCreated)
	}))

	bb.mux.HandleFunc("POST /api/orders/create", bb.protected(func(w http.ResponseWriter, r *http.Request) {
		var payload domain.OrderPayload
		require.NoError(t, json.Unmarshal(readBody(t, r), &payload))

		bb.mu.Lock()
		defer bb.mu.Unlock()
		if payload.BasketID != bb.basketID {
			writeJSON(w, http.StatusBadRequest, map[string]any{"basket_id": []string{"Basket not found."}})
			return
		}
		bb.orders = append(bb.orders, payload)
		writeJSON(w, http.StatusCreated, map[string]any{"id": 500, "status": "new", "basket_id": payload.BasketID})
	}))
	return bb
}

func (bb *basketBackend) checkout() *services.CheckoutService {
	store := memory.NewCredentialsStoreWith(domain.Credentials{AccessToken: "a1", RefreshToken: "r1"})
	credentials := services.NewCredentialsService(store, nil)
	coordinator := services.NewRefreshCoordinator(credentials, NewAuthClient(bb.settings()), nil)
	client := NewClient(bb.settings(), coordinator)
	return services.NewCheckoutService(services.NewBasketReconciler(client, nil), client)
}

func flowRequest() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		Contact: domain.ContactDetails{
			FirstName: "Olena",
			LastName:  "Shevchenko",
			Email:     "olena@example.com",
			Phone:     "+380 (67) 123-45-67",
			Street:    "Sumska 10",
			Region:    "Kharkiv",
			State:     "Kharkiv",
			Zip:       "61000",
			Country:   "Ukraine",
		},
		Payment: domain.PaymentDetails{
			CardName:   "Olena Shevchenko",
			CardNumber: "4242424242424242",
			Expiry:     "01/30",
			CVV:        "321",
			Agreed:     true,
		},
		Items: []domain.LineItem{
			domain.NewLineItem(domain.Product{ID: 10, SelectedSupplyID: 20}, 2),
			domain.NewLineItem(domain.Product{ID: 7, IsAccessory: true}, 1),
		},
		Subtotal: decimal.NewFromInt(300),
	}
}

func TestCheckoutFlow_ExclusiveShapes(t *testing.T) {
	bb := newBasketBackend(t)

	res, err := bb.checkout().PlaceOrder(context.Background(), flowRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(500), res.Order.ID)
	assert.Equal(t, int64(100), res.BasketID)

	require.Len(t, bb.adds, 2)
	assert.Equal(t, map[string]any{"product_id": 10.0, "supply_id": 20.0, "quantity": 2.0}, bb.adds[0])
	assert.Equal(t, map[string]any{"accessory_id": 7.0, "quantity": 1.0}, bb.adds[1])

	require.Len(t, bb.orders, 1)
	positions := bb.orders[0].Positions
	require.Len(t, positions, 2)
	assert.Equal(t, int64(10), *positions[0].ProductID)
	assert.Equal(t, int64(20), *positions[0].SupplyID)
	assert.Nil(t, positions[0].AccessoryID)
	assert.Equal(t, int64(7), *positions[1].AccessoryID)
	assert.Nil(t, positions[1].ProductID)
	assert.Equal(t, "+380671234567", bb.orders[0].BillingDetails.PhoneNumber)
}

func TestCheckoutFlow_StaleBasketMidway(t *testing.T) {
	bb := newBasketBackend(t)
	bb.expireOnAdd = 1

	res, err := bb.checkout().PlaceOrder(context.Background(), flowRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(101), res.BasketID)
	assert.NotEqual(t, int64(100), res.BasketID)
	assert.Empty(t, res.ItemWarnings)
	require.Len(t, bb.orders, 1)
	assert.Equal(t, int64(101), bb.orders[0].BasketID)
}

func TestCheckoutFlow_RefreshDuringCheckout(t *testing.T) {
	bb := newBasketBackend(t)
	bb.expire()

	res, err := bb.checkout().PlaceOrder(context.Background(), flowRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(500), res.Order.ID)
	assert.Equal(t, int32(1), bb.refreshCalls.Load())
}
