// Package postgres contains database/sql implementations of the service
// layer's repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/newsletter-optin/internal/domain"
	"github.com/ignite/newsletter-optin/internal/service/subscription"
)

// SubscriptionRepo implements subscription.Repository against PostgreSQL.
type SubscriptionRepo struct{ db *sql.DB }

// NewSubscriptionRepo creates a Postgres-backed subscription repository.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// Insert persists a new pending row. There is deliberately no uniqueness
// constraint on (email, mailinglist_id): each request gets its own row and
// its own confirmable link.
func (r *SubscriptionRepo) Insert(ctx context.Context, email, mailingListID string, createdAt int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO newsletter_subscriptions (id, email, mailinglist_id, created_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), email, mailingListID, createdAt, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// FindPending returns the pending row matching the full natural key, or
// subscription.ErrNotFound. Confirmed rows are invisible to this query.
func (r *SubscriptionRepo) FindPending(ctx context.Context, email, mailingListID string, createdAt int64) (*domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, mailinglist_id, created_at, status
		FROM newsletter_subscriptions
		WHERE email = $1 AND mailinglist_id = $2 AND created_at = $3 AND status = $4
		LIMIT 1
	`, email, mailingListID, createdAt, domain.StatusPending).
		Scan(&s.ID, &s.Email, &s.MailingListID, &s.CreatedAt, &s.Status)
	if err == sql.ErrNoRows {
		return nil, subscription.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find pending subscription: %w", err)
	}
	return &s, nil
}

// MarkConfirmed flips matching pending rows to confirmed in one conditional
// update, so at most one concurrent confirmation attempt observes a non-zero
// affected count per row.
func (r *SubscriptionRepo) MarkConfirmed(ctx context.Context, email, mailingListID string, createdAt int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE newsletter_subscriptions
		SET status = $5, confirmed_at = NOW()
		WHERE email = $1 AND mailinglist_id = $2 AND created_at = $3 AND status = $4
	`, email, mailingListID, createdAt, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("mark subscription confirmed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark subscription confirmed: %w", err)
	}
	return n, nil
}
