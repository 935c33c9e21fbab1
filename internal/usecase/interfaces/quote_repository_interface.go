package interfaces

import (
	"context"
	"construmax/internal/domain/entities"
)

// ListQuotesFilter narrows and pages the admin read side.
type ListQuotesFilter struct {
	Status          entities.QuoteStatus // empty = all statuses
	SortNewestFirst bool
	Skip            int
	Limit           int
}

// IQuoteRepository abstracts DynamoDB persistence for Quote.
//
// The quote-service must be able to:
//   - create a quote on customer intake
//   - load one quote / list quotes for the admin view
//   - apply a workflow transition conditioned on the expected previous
//     status (single atomic UpdateItem, returns the zero Quote when the
//     condition fails or the id is unknown)
//   - record a notification outcome without touching workflow fields
type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	List(ctx context.Context, filter ListQuotesFilter) ([]entities.Quote, int64, error)
	UpdateStatus(ctx context.Context, id string, prev, next entities.QuoteStatus, adminNotes *string) (entities.Quote, error)
	UpdateEmailOutcome(ctx context.Context, id string, status entities.EmailStatus, emailError string) (entities.Quote, error)
}
