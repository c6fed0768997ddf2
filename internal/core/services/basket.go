package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// Ensure BasketReconciler implements the interface.
var _ driving.BasketService = (*BasketReconciler)(nil)

// reconcileState names a step of basket reconciliation.
type reconcileState string

const (
	stateProbing    reconcileState = "probing"
	statePopulating reconcileState = "populating"
	stateVerifying  reconcileState = "verifying"
	stateReconciled reconcileState = "reconciled"
	stateFailed     reconcileState = "failed"
)

// BasketReconciler aligns the server-side basket with the client cart.
// Each item gets one retry after a stale-basket failure.
type BasketReconciler struct {
	api     driven.BasketAPI
	metrics *metrics.Metrics
}

// NewBasketReconciler creates a reconciler. m may be nil.
func NewBasketReconciler(api driven.BasketAPI, m *metrics.Metrics) *BasketReconciler {
	return &BasketReconciler{api: api, metrics: m}
}

// Active returns the active basket, or nil when none exists.
func (r *BasketReconciler) Active(ctx context.Context) (*domain.Basket, error) {
	if r.api == nil {
		return nil, domain.ErrNotImplemented
	}
	return r.api.ActiveBasket(ctx)
}

// reconciliation is the mutable state of one Reconcile call.
type reconciliation struct {
	state    reconcileState
	basketID int64
	result   driving.ReconcileResult
}

func (rc *reconciliation) transition(next reconcileState) {
	logger.Debug("basket: %s -> %s", rc.state, next)
	rc.state = next
}

// Reconcile adds every line item to the server basket and returns the
// verified basket id. knownBasketID is skipped when zero.
func (r *BasketReconciler) Reconcile(ctx context.Context, items []domain.LineItem, knownBasketID int64) (*driving.ReconcileResult, error) {
	if r.api == nil {
		return nil, domain.ErrNotImplemented
	}

	rc := &reconciliation{state: stateProbing, basketID: knownBasketID}
	logger.Section("Basket")

	if rc.basketID == 0 {
		if err := r.probe(ctx, rc); err != nil {
			rc.transition(stateFailed)
			return nil, err
		}
	}

	rc.transition(statePopulating)
	for _, item := range items {
		if err := r.populate(ctx, rc, item); err != nil {
			rc.transition(stateFailed)
			return nil, err
		}
	}

	rc.transition(stateVerifying)
	basket, err := r.api.ActiveBasket(ctx)
	if err != nil && isAbort(ctx, err) {
		rc.transition(stateFailed)
		return nil, err
	}
	if err != nil || basket == nil || basket.ID == 0 {
		rc.transition(stateFailed)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrBasketUnavailable, err)
		}
		return nil, domain.ErrBasketUnavailable
	}

	rc.result.BasketID = basket.ID
	rc.transition(stateReconciled)
	return &rc.result, nil
}

// probe adopts the active basket id if one exists. Absence is not an error:
// the first add creates the basket.
func (r *BasketReconciler) probe(ctx context.Context, rc *reconciliation) error {
	basket, err := r.api.ActiveBasket(ctx)
	switch {
	case err != nil && isAbort(ctx, err):
		return err
	case err != nil:
		logger.Debug("basket probe failed: %v", err)
		rc.basketID = 0
	case basket == nil:
		rc.basketID = 0
	default:
		rc.basketID = basket.ID
	}
	return nil
}

func (r *BasketReconciler) populate(ctx context.Context, rc *reconciliation, item domain.LineItem) error {
	rc.result.Adds++
	err := r.api.AddItem(ctx, item.BasketItem())
	if err == nil {
		return nil
	}
	if isAbort(ctx, err) {
		return err
	}

	// Any other failure means the held basket is stale.
	logger.Warn("basket add for %s failed, re-probing: %v", item.Key, err)
	r.metrics.IncStaleRecovery()
	rc.basketID = 0
	if err := r.probe(ctx, rc); err != nil {
		return err
	}

	rc.result.Retries++
	err = r.api.AddItem(ctx, item.BasketItem())
	if err == nil {
		return nil
	}
	if isAbort(ctx, err) {
		return err
	}

	logger.Warn("basket add for %s failed after retry: %v", item.Key, err)
	rc.result.ItemErrors = append(rc.result.ItemErrors, domain.BasketItemError{
		Key: item.Key,
		Err: fmt.Errorf("%w: %w", domain.ErrBasketStale, err),
	})
	return nil
}

// isAbort reports errors that end reconciliation outright.
func isAbort(ctx context.Context, err error) bool {
	return domain.IsTerminalAuth(err) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		ctx.Err() != nil
}
