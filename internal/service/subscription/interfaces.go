package subscription

import "context"

// Notifier is the outbound "send confirmation message" capability. The real
// transport lives in internal/mailer; tests use an in-memory fake.
type Notifier interface {
	// SendConfirmation delivers the double opt-in email carrying the
	// confirmation URL to the recipient.
	SendConfirmation(ctx context.Context, recipient, confirmURL string) error
}
