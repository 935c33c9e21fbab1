package interfaces

import "construmax/internal/domain/entities"

// INotifier receives persisted quote events. Implementations run delivery
// detached from the request path: both calls enqueue and return immediately.
type INotifier interface {
	QuoteCreated(q entities.Quote)
	QuoteStatusChanged(q entities.Quote)
}
