// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The session services (CredentialsService, RefreshCoordinator) own the
// token pair. BasketReconciler and CheckoutService run the checkout state
// machines on top of them.
package services
