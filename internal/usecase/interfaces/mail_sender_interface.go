package interfaces

import (
	"context"
	"construmax/internal/domain/entities"
)

// IMailSender abstracts the outbound mail transport (e.g. SMTP via gomail).
//
// Send drives one message through the transport's retry schedule and always
// returns an outcome; transport faults never surface as errors because a
// delivery failure must not unwind the caller's already-committed work.
// Ready reports the advisory readiness flag; Verify probes the transport
// and refreshes that flag.
type IMailSender interface {
	Verify(ctx context.Context) bool
	Ready() bool
	Send(ctx context.Context, m entities.NotificationMessage) entities.SendOutcome
}
