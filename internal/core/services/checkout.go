package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// Ensure CheckoutService implements the interface.
var _ driving.CheckoutService = (*CheckoutService)(nil)

// checkoutState names a step of order submission.
type checkoutState string

const (
	checkoutReconciling checkoutState = "reconciling"
	checkoutSubmitting  checkoutState = "submitting"
	checkoutRecovering  checkoutState = "recovering"
	checkoutDone        checkoutState = "done"
	checkoutFailed      checkoutState = "failed"
)

// maxBasketRecoveries bounds resubmissions after a rejected basket reference.
const maxBasketRecoveries = 1

// CheckoutService validates a checkout, reconciles the basket and submits
// the order.
type CheckoutService struct {
	validator  *CheckoutValidator
	baskets    driving.BasketService
	orders     driven.OrderAPI
	pricing    driving.PricingService
	settings   domain.CheckoutSettings
	metrics    *metrics.Metrics
	newRequest func() string
}

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithPricing enables discount codes.
func WithPricing(p driving.PricingService) CheckoutOption {
	return func(s *CheckoutService) { s.pricing = p }
}

// WithCheckoutSettings overrides the country defaults.
func WithCheckoutSettings(settings domain.CheckoutSettings) CheckoutOption {
	return func(s *CheckoutService) { s.settings = settings }
}

// WithCheckoutMetrics records submission outcomes.
func WithCheckoutMetrics(m *metrics.Metrics) CheckoutOption {
	return func(s *CheckoutService) { s.metrics = m }
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(baskets driving.BasketService, orders driven.OrderAPI, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		validator:  NewCheckoutValidator(),
		baskets:    baskets,
		orders:     orders,
		settings:   domain.DefaultSettings().Checkout,
		newRequest: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder runs the checkout state machine:
// reconciling -> submitting -> (recovering -> reconciling -> submitting) -> done.
// A rejected basket reference is recovered once by reconciling from scratch.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (*domain.OrderResult, error) {
	if s.baskets == nil || s.orders == nil {
		return nil, domain.ErrNotImplemented
	}

	if strings.TrimSpace(req.Contact.Country) == "" {
		req.Contact.Country = s.settings.DefaultCountry
	}
	if err := s.validator.Validate(req); err != nil {
		s.metrics.IncSubmission(metrics.OutcomeInvalid)
		return nil, err
	}

	quote, err := s.quote(ctx, req)
	if err != nil {
		s.metrics.IncSubmission(metrics.OutcomeInvalid)
		return nil, err
	}

	requestID := s.newRequest()
	ctx = domain.WithRequestID(ctx, requestID)
	logger.Section("Checkout " + requestID)

	payload := s.buildPayload(req)
	var (
		state      = checkoutReconciling
		knownID    = req.BasketID
		recoveries int
		warnings   []domain.BasketItemError
		order      *domain.Order
	)

	for state != checkoutDone {
		switch state {
		case checkoutReconciling:
			rec, err := s.baskets.Reconcile(ctx, req.Items, knownID)
			if err != nil {
				s.fail(&state)
				return nil, err
			}
			payload.BasketID = rec.BasketID
			warnings = rec.ItemErrors
			s.transition(&state, checkoutSubmitting)

		case checkoutSubmitting:
			order, err = s.orders.CreateOrder(ctx, payload)
			switch {
			case err == nil:
				s.transition(&state, checkoutDone)
			case errors.Is(err, domain.ErrBasketReferenceInvalid) && recoveries < maxBasketRecoveries:
				logger.Warn("basket %d rejected by order endpoint, reconciling again", payload.BasketID)
				s.transition(&state, checkoutRecovering)
			default:
				s.fail(&state)
				return nil, s.classify(err)
			}

		case checkoutRecovering:
			recoveries++
			knownID = 0
			s.transition(&state, checkoutReconciling)
		}
	}

	s.metrics.IncSubmission(metrics.OutcomeSuccess)
	return &domain.OrderResult{
		Order:        *order,
		BasketID:     payload.BasketID,
		Total:        quote.Total,
		Discount:     quote.Discount,
		ItemWarnings: warnings,
	}, nil
}

func (s *CheckoutService) transition(state *checkoutState, next checkoutState) {
	logger.Debug("checkout: %s -> %s", *state, next)
	*state = next
}

func (s *CheckoutService) fail(state *checkoutState) {
	s.transition(state, checkoutFailed)
}

// classify maps a submission error onto the checkout error taxonomy.
func (s *CheckoutService) classify(err error) error {
	var rejected *domain.OrderRejectedError
	switch {
	case domain.IsTerminalAuth(err):
		s.metrics.IncSubmission(metrics.OutcomeFailure)
		return err
	case errors.As(err, &rejected):
		s.metrics.IncSubmission(metrics.OutcomeRejected)
		return err
	case errors.Is(err, domain.ErrOrderFailed):
		s.metrics.IncSubmission(metrics.OutcomeFailure)
		return err
	default:
		s.metrics.IncSubmission(metrics.OutcomeFailure)
		return fmt.Errorf("%w: %w", domain.ErrOrderFailed, err)
	}
}

func (s *CheckoutService) quote(ctx context.Context, req domain.CheckoutRequest) (*domain.Quote, error) {
	if strings.TrimSpace(req.DiscountCode) == "" || s.pricing == nil {
		return &domain.Quote{Subtotal: req.Subtotal, Discount: decimal.Zero, Total: req.Subtotal}, nil
	}
	quote, err := s.pricing.Quote(ctx, req.Subtotal, req.DiscountCode)
	if errors.Is(err, domain.ErrDiscountInvalid) {
		return nil, &domain.ValidationError{Fields: map[string]string{"discountCode": domain.ErrDiscountInvalid.Error()}}
	}
	return quote, err
}

// buildPayload maps the form and cart to the order body. Empty optional
// billing fields are left out.
func (s *CheckoutService) buildPayload(req domain.CheckoutRequest) domain.OrderPayload {
	c := trimContact(req.Contact)

	positions := make([]domain.Position, 0, len(req.Items))
	for _, item := range req.Items {
		positions = append(positions, item.Position())
	}

	payload := domain.OrderPayload{
		BillingDetails: domain.BillingDetails{
			FirstName:       c.FirstName,
			LastName:        c.LastName,
			Country:         c.Country,
			PhoneNumber:     domain.NormalizePhone(c.Phone, s.settings.CountryCode),
			StreetName:      c.Street,
			Region:          c.Region,
			State:           c.State,
			ZipCode:         c.Zip,
			ApartmentNumber: c.Apartment,
			CompanyName:     c.Company,
		},
		Positions:  positions,
		OrderNotes: c.Notes,
	}
	if c.Email != "" {
		payload.CustomerData = &domain.CustomerData{Email: c.Email}
	}
	return payload
}
