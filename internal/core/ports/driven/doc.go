// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialsStore: Persistence of the session token pair
//   - AuthAPI: Login, refresh and logout calls (never refreshed themselves)
//   - BasketAPI: Active basket lookup and item adds
//   - OrderAPI: Order creation and history
//   - TokenProvider: Access tokens for the authenticating transport
//   - SettingsStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DiscountAPI: Without it, discount codes are rejected.
//   - ProfileAPI: Without it, status shows no account email.
//   - SessionEventPublisher: Without it, credential changes are not broadcast.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
