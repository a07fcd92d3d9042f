// Package newsletter defines the capability contract for newsletter provider
// backends and an in-memory test double.
//
// Two live implementations exist: internal/infomaniak (the legacy v1 API,
// bearer-token auth, provider-issued contact ids) and internal/infomaniakv2
// (the v2 public API, basic auth, raw-email contact assignment). Which one a
// deployment uses is a composition-time decision driven by
// config.ProviderConfig.Variant.
package newsletter

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/newsletter-optin/internal/domain"
)

// ErrUnavailable is returned for any transport or HTTP failure talking to a
// provider. Providers do not reliably distinguish "not found" from transport
// errors, so callers must treat both as retryable.
var ErrUnavailable = errors.New("newsletter provider unavailable")

// Unavailable wraps err as an ErrUnavailable for the given operation, keeping
// the original message for the logs while staying matchable with errors.Is.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

// Client is the uniform contract for newsletter provider backends.
//
// CreateContact registers an email with the provider and returns the contact
// id to pass to AssignToList. What that id is depends on the backend: the
// legacy API issues its own id, the v2 API addresses contacts by email and
// returns the input unchanged.
//
// AssignToList has no partial-success signaling: the batch either fully
// succeeds or the whole call fails with ErrUnavailable.
type Client interface {
	// ListGroups returns every mailing list the account can see, in
	// provider order. Never returns partial results.
	ListGroups(ctx context.Context) ([]domain.MailingList, error)

	// FetchGroup returns one mailing list by id.
	FetchGroup(ctx context.Context, groupID string) (*domain.MailingList, error)

	// CreateContact upserts a contact and returns its provider id.
	CreateContact(ctx context.Context, email string, fields map[string]string) (string, error)

	// AssignToList subscribes the given contacts to a mailing list.
	AssignToList(ctx context.Context, groupID string, contactIDs []string) error

	// GroupOptions returns a listID → displayName mapping for selection
	// UIs. Whether inactive lists are filtered out is a per-backend
	// policy, not caller-configurable.
	GroupOptions(ctx context.Context) (map[string]string, error)
}
