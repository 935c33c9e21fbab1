package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"construmax/internal/domain/entities"
	"construmax/internal/usecase/interfaces"
	"construmax/internal/worker"
)

// NotificationUseCase converts persisted quote events into outbound mail and
// reconciles the delivery outcome back into the quote's email_status.
//
// Every delivery problem is absorbed here: the triggering create/update
// already returned to its caller, so the only legal failure channels are the
// log and the persisted email_status/email_error fields.
type NotificationUseCase struct {
	repo       interfaces.IQuoteRepository
	sender     interfaces.IMailSender
	dispatcher *worker.Dispatcher

	senderAddress string
	senderName    string
	adminAddress  string
}

var _ interfaces.INotifier = (*NotificationUseCase)(nil)

func NewNotificationUseCase(repo interfaces.IQuoteRepository, sender interfaces.IMailSender, dispatcher *worker.Dispatcher, senderAddress, senderName, adminAddress string) *NotificationUseCase {
	return &NotificationUseCase{
		repo:          repo,
		sender:        sender,
		dispatcher:    dispatcher,
		senderAddress: senderAddress,
		senderName:    senderName,
		adminAddress:  adminAddress,
	}
}

func (n *NotificationUseCase) QuoteCreated(q entities.Quote) {
	n.enqueue(q, func(ctx context.Context) {
		n.processCreated(ctx, q)
	})
}

func (n *NotificationUseCase) QuoteStatusChanged(q entities.Quote) {
	n.enqueue(q, func(ctx context.Context) {
		n.processStatusChanged(ctx, q)
	})
}

func (n *NotificationUseCase) enqueue(q entities.Quote, task worker.Task) {
	if n.dispatcher == nil {
		// No worker wired (tests); run inline.
		task(context.Background())
		return
	}
	if !n.dispatcher.Enqueue(task) {
		// Queue full: the quote keeps email_status=pending, which is
		// observable on reads.
		log.Printf("[notify][usecase] queue full, dropping notification quote_id=%s", q.ID)
	}
}

// processCreated sends the customer confirmation and the admin alert built
// from the same snapshot. The event counts as sent only when both deliver.
func (n *NotificationUseCase) processCreated(ctx context.Context, q entities.Quote) {
	if !n.senderUsable(ctx, q) {
		return
	}

	msgs := []entities.NotificationMessage{
		ComposeCustomerCreatedMessage(q, n.senderAddress, n.senderName),
		ComposeAdminCreatedMessage(q, n.senderAddress, n.senderName, n.adminAddress),
	}
	n.deliverAndReconcile(ctx, q, msgs)
}

func (n *NotificationUseCase) processStatusChanged(ctx context.Context, q entities.Quote) {
	if !n.senderUsable(ctx, q) {
		return
	}

	msgs := []entities.NotificationMessage{
		ComposeCustomerStatusMessage(q, n.senderAddress, n.senderName),
	}
	n.deliverAndReconcile(ctx, q, msgs)
}

// senderUsable checks configuration and readiness. Both problems resolve to
// email_status=skipped: no retry attempt is consumed on a transport that is
// absent or confirmed down.
func (n *NotificationUseCase) senderUsable(ctx context.Context, q entities.Quote) bool {
	if n.sender == nil {
		log.Printf("[notify][usecase] mail sender not configured, skipping quote_id=%s", q.ID)
		n.reconcile(ctx, q.ID, entities.EmailStatusSkipped, "")
		return false
	}
	if !n.sender.Ready() && !n.sender.Verify(ctx) {
		log.Printf("[notify][usecase] mail transport not ready, skipping quote_id=%s", q.ID)
		n.reconcile(ctx, q.ID, entities.EmailStatusSkipped, "")
		return false
	}
	return true
}

func (n *NotificationUseCase) deliverAndReconcile(ctx context.Context, q entities.Quote, msgs []entities.NotificationMessage) {
	status := entities.EmailStatusSent
	detail := ""

	for _, m := range msgs {
		outcome := n.sender.Send(ctx, m)
		if outcome.Delivered {
			log.Printf("[notify][usecase] delivered quote_id=%s to=%s message_id=%s attempts=%d", q.ID, m.To, outcome.MessageID, outcome.Attempts)
			continue
		}
		log.Printf("[notify][usecase] delivery failed quote_id=%s to=%s attempts=%d exhausted=%t err=%s", q.ID, m.To, outcome.Attempts, outcome.Exhausted, outcome.ErrorDetail)
		if status != entities.EmailStatusFailed {
			status = entities.EmailStatusFailed
			detail = outcome.ErrorDetail
		}
	}

	n.reconcile(ctx, q.ID, status, detail)
}

func (n *NotificationUseCase) reconcile(ctx context.Context, quoteID string, status entities.EmailStatus, detail string) {
	if n.repo == nil {
		return
	}
	if _, err := n.repo.UpdateEmailOutcome(ctx, quoteID, status, detail); err != nil {
		log.Printf("[notify][usecase] failed recording email outcome quote_id=%s status=%s err=%v", quoteID, status, err)
	}
}

// Message composition is pure: snapshot in, message out. No I/O happens here
// so content can be tested against fixed quotes.

func ComposeCustomerCreatedMessage(q entities.Quote, senderAddress, senderName string) entities.NotificationMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", q.Name)
	b.WriteString("We received your quote request and our team will get back to you shortly.\n\n")
	b.WriteString("Requested items:\n")
	writeItemLines(&b, q.Items)
	if q.ProjectDetails != "" {
		fmt.Fprintf(&b, "\nProject details:\n%s\n", q.ProjectDetails)
	}
	fmt.Fprintf(&b, "\nReference: %s\n", q.ID)

	return entities.NotificationMessage{
		SenderAddress: senderAddress,
		SenderName:    senderName,
		To:            q.Email,
		Subject:       "We received your quote request",
		Body:          b.String(),
		QuoteID:       q.ID,
	}
}

func ComposeAdminCreatedMessage(q entities.Quote, senderAddress, senderName, adminAddress string) entities.NotificationMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "New quote request %s\n\n", q.ID)
	fmt.Fprintf(&b, "Customer: %s\nEmail: %s\nPhone: %s\n\n", q.Name, q.Email, q.Phone)
	b.WriteString("Requested items:\n")
	writeItemLines(&b, q.Items)
	if q.ProjectDetails != "" {
		fmt.Fprintf(&b, "\nProject details:\n%s\n", q.ProjectDetails)
	}

	return entities.NotificationMessage{
		SenderAddress: senderAddress,
		SenderName:    senderName,
		To:            adminAddress,
		Subject:       fmt.Sprintf("New quote request from %s", q.Name),
		Body:          b.String(),
		QuoteID:       q.ID,
	}
}

func ComposeCustomerStatusMessage(q entities.Quote, senderAddress, senderName string) entities.NotificationMessage {
	var line string
	switch q.Status {
	case entities.QuoteStatusProcessed:
		line = "Your quote request is now being processed."
	case entities.QuoteStatusCompleted:
		line = "Your quote is ready. We will reach out with the final details."
	case entities.QuoteStatusCancelled:
		line = "Your quote request has been cancelled."
	case entities.QuoteStatusCustomerReplied:
		line = "We received your reply and will follow up shortly."
	default:
		line = fmt.Sprintf("Your quote request status is now %s.", q.Status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s\n", q.Name, line)
	if q.AdminNotes != "" {
		fmt.Fprintf(&b, "\nNotes from our team:\n%s\n", q.AdminNotes)
	}
	fmt.Fprintf(&b, "\nReference: %s\n", q.ID)

	return entities.NotificationMessage{
		SenderAddress: senderAddress,
		SenderName:    senderName,
		To:            q.Email,
		Subject:       fmt.Sprintf("Quote request update: %s", q.Status),
		Body:          b.String(),
		QuoteID:       q.ID,
	}
}

func writeItemLines(b *strings.Builder, items []entities.QuoteItem) {
	for _, item := range items {
		fmt.Fprintf(b, "  - %s x%d\n", item.ProductID, item.Quantity)
	}
}
