package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// MockAuthAPI is a mock implementation of driven.AuthAPI.
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (domain.Credentials, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Credentials), args.Error(1)
}

func (m *MockAuthAPI) Refresh(ctx context.Context, refreshToken string) (domain.Credentials, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(domain.Credentials), args.Error(1)
}

func (m *MockAuthAPI) Logout(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

// MockOrderAPI is a mock implementation of driven.OrderAPI.
type MockOrderAPI struct {
	mock.Mock
}

func (m *MockOrderAPI) CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderAPI) ListOrders(ctx context.Context, page, size int) (*domain.OrderPage, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderPage), args.Error(1)
}

func (m *MockOrderAPI) OrderDetails(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// MockDiscountAPI is a mock implementation of driven.DiscountAPI.
type MockDiscountAPI struct {
	mock.Mock
}

func (m *MockDiscountAPI) DiscountCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountCode), args.Error(1)
}

// MockProfileAPI is a mock implementation of driven.ProfileAPI.
type MockProfileAPI struct {
	mock.Mock
}

func (m *MockProfileAPI) Profile(ctx context.Context) (*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// fakeBasketAPI simulates a server-side basket whose id can be rotated
// underneath the client.
type fakeBasketAPI struct {
	mu sync.Mutex

	basketID int64
	nextID   int64
	added    []domain.BasketItem

	// failAdds maps an add-call index (0-based, retries included) to the
	// error it returns. When rotate is set the basket id also changes.
	failAdds map[int]error
	rotate   bool
	// probeErr is returned by every ActiveBasket call when set.
	probeErr error
	// noBasket makes ActiveBasket report no basket at all.
	noBasket bool

	addCalls   int
	probeCalls int
}

func newFakeBasketAPI(id int64) *fakeBasketAPI {
	return &fakeBasketAPI{basketID: id, nextID: id + 1, failAdds: map[int]error{}}
}

func (f *fakeBasketAPI) ActiveBasket(_ context.Context) (*domain.Basket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	if f.noBasket || f.basketID == 0 {
		return nil, nil
	}
	return &domain.Basket{ID: f.basketID}, nil
}

func (f *fakeBasketAPI) AddItem(_ context.Context, item domain.BasketItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.addCalls
	f.addCalls++
	if err, ok := f.failAdds[call]; ok {
		if f.rotate {
			f.basketID = f.nextID
			f.nextID++
		}
		return err
	}
	if f.basketID == 0 && !f.noBasket {
		f.basketID = f.nextID
		f.nextID++
	}
	f.added = append(f.added, item)
	return nil
}

// recordingPublisher captures published session events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (p *recordingPublisher) Publish(event domain.SessionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) kinds() []domain.SessionEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]domain.SessionEventKind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
