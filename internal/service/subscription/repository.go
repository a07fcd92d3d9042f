package subscription

import (
	"context"

	"github.com/ignite/newsletter-optin/internal/domain"
)

// Repository defines the data access contract for subscription rows.
type Repository interface {
	// Insert persists a new pending subscription. It performs no
	// duplicate check: concurrent requests for the same (email, list)
	// may leave several pending rows, each confirmable by its own link.
	Insert(ctx context.Context, email, mailingListID string, createdAt int64) error

	// FindPending returns the pending row matching the full natural key.
	// Rows that are already confirmed are reported as ErrNotFound.
	FindPending(ctx context.Context, email, mailingListID string, createdAt int64) (*domain.Subscription, error)

	// MarkConfirmed atomically flips the matching pending row to
	// confirmed and returns the number of rows affected. A return of 0
	// means the row was never there or a concurrent confirmation won.
	MarkConfirmed(ctx context.Context, email, mailingListID string, createdAt int64) (int64, error)
}
