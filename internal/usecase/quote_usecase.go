package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"construmax/internal/domain/entities"
	"construmax/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuoteID    = errors.New("invalid quote id")
	ErrInvalidStatus     = errors.New("invalid quote status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError rejects a malformed intake payload. Fields names every
// violated field so the caller can correct the request in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// IQuoteUseCase exposes the quote lifecycle operations.
//
// CreateQuote and UpdateStatus report success based solely on persistence
// outcome; notification delivery runs detached and is visible only through
// the email_status field on subsequent reads.
type IQuoteUseCase interface {
	CreateQuote(ctx context.Context, cmd CreateQuoteCommand) (entities.Quote, error)
	UpdateStatus(ctx context.Context, id string, newStatus entities.QuoteStatus, adminNotes *string) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	List(ctx context.Context, filter interfaces.ListQuotesFilter) ([]entities.Quote, int64, error)
}

// CreateQuoteCommand is the validated intake payload handed in by the HTTP
// layer.
type CreateQuoteCommand struct {
	Name           string
	Email          string
	Phone          string
	ProjectDetails string
	Items          []entities.QuoteItem
}

// QuoteUseCaseOptions carries the deployment capability gates.
type QuoteUseCaseOptions struct {
	AllowCancellation    bool
	AllowCustomerReplied bool
}

type QuoteUseCase struct {
	repo     interfaces.IQuoteRepository
	catalog  interfaces.IProductCatalog
	notifier interfaces.INotifier
	opts     QuoteUseCaseOptions
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository, catalog interfaces.IProductCatalog, notifier interfaces.INotifier, opts QuoteUseCaseOptions) *QuoteUseCase {
	return &QuoteUseCase{repo: repo, catalog: catalog, notifier: notifier, opts: opts}
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, cmd CreateQuoteCommand) (entities.Quote, error) {
	if verr := validateCreateQuoteCommand(&cmd); verr != nil {
		return entities.Quote{}, verr
	}
	if u.catalog == nil {
		return entities.Quote{}, errors.New("product catalog not configured")
	}

	for _, item := range cmd.Items {
		exists, err := u.catalog.ProductExists(ctx, item.ProductID)
		if err != nil {
			return entities.Quote{}, err
		}
		if !exists {
			return entities.Quote{}, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
	}

	now := time.Now().UTC()
	q := entities.Quote{
		ID:             uuid.NewString(),
		Name:           cmd.Name,
		Email:          cmd.Email,
		Phone:          cmd.Phone,
		ProjectDetails: cmd.ProjectDetails,
		Items:          cmd.Items,
		Status:         entities.QuoteStatusPending,
		EmailStatus:    entities.EmailStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		return entities.Quote{}, err
	}
	log.Printf("[quote][usecase] created quote_id=%s items=%d", created.ID, len(created.Items))

	// Delivery is best-effort and detached: the caller's durability
	// guarantee ends at the Create above.
	if u.notifier != nil {
		u.notifier.QuoteCreated(created)
	}
	return created, nil
}

// validateCreateQuoteCommand trims the payload in place and collects every
// violated field rather than stopping at the first.
func validateCreateQuoteCommand(cmd *CreateQuoteCommand) *ValidationError {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Phone = strings.TrimSpace(cmd.Phone)
	cmd.ProjectDetails = strings.TrimSpace(cmd.ProjectDetails)

	var fields []string
	if cmd.Name == "" {
		fields = append(fields, "name")
	}
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		fields = append(fields, "email")
	}
	if cmd.Phone == "" {
		fields = append(fields, "phone")
	}
	if cmd.ProjectDetails == "" {
		fields = append(fields, "project_details")
	}
	if len(cmd.Items) == 0 {
		fields = append(fields, "products")
	}
	for i, item := range cmd.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			fields = append(fields, fmt.Sprintf("products[%d].product_id", i))
		}
		if item.Quantity < 1 {
			fields = append(fields, fmt.Sprintf("products[%d].quantity", i))
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (u *QuoteUseCase) UpdateStatus(ctx context.Context, id string, newStatus entities.QuoteStatus, adminNotes *string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	if !entities.IsValidQuoteStatus(newStatus) {
		return entities.Quote{}, ErrInvalidStatus
	}
	if newStatus == entities.QuoteStatusCustomerReplied && !u.opts.AllowCustomerReplied {
		return entities.Quote{}, ErrInvalidStatus
	}

	current, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if current.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}

	// Re-issuing an already-applied transition is a no-op success, so
	// admin retries are safe.
	if current.Status == newStatus {
		log.Printf("[quote][usecase] status unchanged quote_id=%s status=%s", id, newStatus)
		return current, nil
	}

	if newStatus == entities.QuoteStatusCancelled && !u.opts.AllowCancellation {
		return entities.Quote{}, fmt.Errorf("%w: cancellation disabled", ErrInvalidTransition)
	}
	if !current.Status.CanTransitionTo(newStatus) {
		return entities.Quote{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
	}

	updated, err := u.repo.UpdateStatus(ctx, id, current.Status, newStatus, adminNotes)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		// Conditional write lost against a concurrent transition (or a
		// deletion). Reload once to decide what actually happened.
		reloaded, err := u.repo.GetByID(ctx, id)
		if err != nil {
			return entities.Quote{}, err
		}
		if reloaded.ID == "" {
			return entities.Quote{}, ErrQuoteNotFound
		}
		if reloaded.Status == newStatus {
			// Another writer already applied it; that writer owns the
			// notification.
			return reloaded, nil
		}
		return entities.Quote{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reloaded.Status, newStatus)
	}

	log.Printf("[quote][usecase] status updated quote_id=%s %s -> %s", id, current.Status, newStatus)
	if u.notifier != nil {
		u.notifier.QuoteStatusChanged(updated)
	}
	return updated, nil
}

func (u *QuoteUseCase) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) List(ctx context.Context, filter interfaces.ListQuotesFilter) ([]entities.Quote, int64, error) {
	if filter.Status != "" && !entities.IsValidQuoteStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	return u.repo.List(ctx, filter)
}
