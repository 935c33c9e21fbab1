package entities

// NotificationMessage is an outbound email rendered from a Quote snapshot.
// Immutable once constructed; never persisted on its own. QuoteID is the
// correlation id carried through logs and the Message-ID header.
type NotificationMessage struct {
	SenderAddress string
	SenderName    string
	To            string
	Subject       string
	Body          string
	QuoteID       string
}

// SendOutcome is the result of driving one message through the transport,
// retries included. Exactly one of MessageID / ErrorDetail is meaningful.
//
// Exhausted distinguishes "every configured attempt failed" from "gave up
// early because the transport was confirmed not ready".
type SendOutcome struct {
	Delivered   bool
	MessageID   string
	ErrorDetail string
	Attempts    int
	Exhausted   bool
}
