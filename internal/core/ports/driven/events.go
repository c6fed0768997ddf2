package driven

import "github.com/custodia-labs/storefront-cli/internal/core/domain"

// SessionEventPublisher broadcasts credential changes to in-process listeners.
// Publish must not block on slow listeners.
type SessionEventPublisher interface {
	Publish(event domain.SessionEvent)
}
