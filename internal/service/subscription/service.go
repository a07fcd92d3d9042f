package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ignite/newsletter-optin/internal/domain"
	"github.com/ignite/newsletter-optin/internal/newsletter"
	"github.com/ignite/newsletter-optin/internal/pkg/logger"
)

// Service orchestrates the double opt-in flow. It is safe for concurrent use.
type Service struct {
	repo     Repository
	provider newsletter.Client
	notifier Notifier
	baseURL  string

	// now is swappable so tests can pin the timestamp that becomes part
	// of the subscription's natural key.
	now func() time.Time
}

// NewService creates a subscription service. baseURL is the public origin
// confirmation links are built against.
func NewService(repo Repository, provider newsletter.Client, notifier Notifier, baseURL string) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		notifier: notifier,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// RequestSubscription records a pending subscription for email on the given
// mailing list and sends the confirmation email.
//
// The pending insert is not rolled back when the notification fails: the
// caller sees a generic failure, but the row stays and the (logged) link is
// still redeemable. At-least-once persisted, best-effort notified.
func (s *Service) RequestSubscription(ctx context.Context, email, mailingListID string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !domain.ValidEmail(email) {
		return fmt.Errorf("%w: bad email address", ErrInvalidInput)
	}
	if mailingListID == "" {
		return fmt.Errorf("%w: mailing list id is required", ErrInvalidInput)
	}

	createdAt := s.now().Unix()

	if err := s.repo.Insert(ctx, email, mailingListID, createdAt); err != nil {
		logger.Error("subscription insert failed", "email", email, "list_id", mailingListID, "err", err)
		return fmt.Errorf("persisting subscription: %w", err)
	}

	confirmURL := BuildConfirmURL(s.baseURL, createdAt, email, mailingListID)

	if err := s.notifier.SendConfirmation(ctx, email, confirmURL); err != nil {
		// The row already exists; a failure here is logged and surfaced
		// as a generic failure without undoing the insert.
		logger.Error("confirmation email failed", "email", email, "list_id", mailingListID, "err", err)
		return fmt.Errorf("sending confirmation: %w", err)
	}

	logger.Info("subscription requested", "email", email, "list_id", mailingListID)
	return nil
}

// ConfirmSubscription finalizes the pending subscription identified by the
// (createdAt, email, mailingListID) triple from a confirmation link.
//
// Provider calls run before the row flips to confirmed; if either fails the
// row stays pending and the same link can be retried, re-running the
// provider calls from scratch. Concurrent confirmations of one key may both
// reach the provider, but at most one flips the row (MarkConfirmed is a
// single conditional update).
func (s *Service) ConfirmSubscription(ctx context.Context, createdAt int64, email, mailingListID string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	sub, err := s.repo.FindPending(ctx, email, mailingListID, createdAt)
	if err != nil {
		return err
	}

	contactID, err := s.provider.CreateContact(ctx, sub.Email, map[string]string{})
	if err != nil {
		return fmt.Errorf("registering contact: %w", err)
	}

	if err := s.provider.AssignToList(ctx, sub.MailingListID, []string{contactID}); err != nil {
		return fmt.Errorf("assigning contact: %w", err)
	}

	affected, err := s.repo.MarkConfirmed(ctx, email, mailingListID, createdAt)
	if err != nil {
		return fmt.Errorf("marking confirmed: %w", err)
	}
	if affected == 0 {
		// A concurrent confirmation won the conditional update.
		return ErrNotFound
	}

	logger.Info("subscription confirmed", "email", email, "list_id", mailingListID)
	return nil
}

// ListOptions returns the provider's selectable mailing lists as id → name.
func (s *Service) ListOptions(ctx context.Context) (map[string]string, error) {
	return s.provider.GroupOptions(ctx)
}

// GetList returns one mailing list's details from the provider.
func (s *Service) GetList(ctx context.Context, mailingListID string) (*domain.MailingList, error) {
	return s.provider.FetchGroup(ctx, mailingListID)
}
