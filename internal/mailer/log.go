package mailer

import (
	"context"

	"github.com/ignite/newsletter-optin/internal/pkg/logger"
)

// LogNotifier is a notifier that only logs the confirmation link. It backs
// local development and mock-provider deployments where no SES account is
// wired; the link still lands in the logs and can be followed by hand.
type LogNotifier struct{}

// SendConfirmation logs the confirmation link instead of delivering it.
func (LogNotifier) SendConfirmation(_ context.Context, recipient, confirmURL string) error {
	logger.Info("confirmation email (log only)", "recipient", recipient, "url", confirmURL)
	return nil
}
