package entities

import "time"

// QuoteStatus represents the workflow state of a quote request.
//
// Domain notes:
//   - The quote-service is the source of truth for quote workflow state.
//   - Transitions only move forward along the graph below; terminal states
//     reject every outgoing transition.
//
// Graph:
//   - pending -> processed -> completed
//   - pending|processed -> cancelled (terminal, deployment-gated)
//   - any non-terminal -> customer_replied (deployment-gated side state)
//   - customer_replied -> processed|completed|cancelled
type QuoteStatus string

const (
	QuoteStatusPending         QuoteStatus = "pending"
	QuoteStatusProcessed       QuoteStatus = "processed"
	QuoteStatusCompleted       QuoteStatus = "completed"
	QuoteStatusCancelled       QuoteStatus = "cancelled"
	QuoteStatusCustomerReplied QuoteStatus = "customer_replied"
)

// EmailStatus tracks the notification delivery outcome for a quote event.
// It is independent of QuoteStatus: a failed delivery never blocks or
// reverses a persisted workflow transition.
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
	EmailStatusSkipped EmailStatus = "skipped"
)

// QuoteItem is one requested line item. Quantity is always >= 1 and the
// product id must resolve against the catalog at creation time.
type QuoteItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Quote is the customer quote request persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id (string, uuid)
//
// The workflow fields (status, admin_notes) and the notification bookkeeping
// fields (email_status, email_error) are written by different actors through
// disjoint atomic updates.
type Quote struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	ProjectDetails string      `json:"project_details"`
	Items          []QuoteItem `json:"items"`
	Status         QuoteStatus `json:"status"`
	AdminNotes     string      `json:"admin_notes,omitempty"`
	EmailStatus    EmailStatus `json:"email_status"`
	EmailError     string      `json:"email_error,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsValidQuoteStatus reports whether s names a known workflow state.
func IsValidQuoteStatus(s QuoteStatus) bool {
	switch s {
	case QuoteStatusPending, QuoteStatusProcessed, QuoteStatusCompleted,
		QuoteStatusCancelled, QuoteStatusCustomerReplied:
		return true
	}
	return false
}

// IsTerminal reports whether s rejects every outgoing transition.
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusCompleted || s == QuoteStatusCancelled
}

// CanTransitionTo reports whether the workflow permits moving from s to next.
// The self-loop (next == s) is intentionally not part of the graph; callers
// treat it as an idempotent no-op, not a transition.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case QuoteStatusPending:
		return next == QuoteStatusProcessed || next == QuoteStatusCancelled || next == QuoteStatusCustomerReplied
	case QuoteStatusProcessed:
		return next == QuoteStatusCompleted || next == QuoteStatusCancelled || next == QuoteStatusCustomerReplied
	case QuoteStatusCustomerReplied:
		return next == QuoteStatusProcessed || next == QuoteStatusCompleted || next == QuoteStatusCancelled
	}
	return false
}
