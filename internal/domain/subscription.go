package domain

import (
	"net/mail"
	"strings"
)

// SubscriptionStatus tracks the double opt-in lifecycle of a subscription.
// The only legal transition is StatusPending → StatusConfirmed; rows are
// never deleted and never move back.
type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusConfirmed SubscriptionStatus = "confirmed"
)

// Subscription is one double opt-in record. The natural key is the
// (Email, MailingListID, CreatedAt) triple: all three must match for a
// confirmation link to resolve to this row. CreatedAt is a Unix timestamp
// set once at creation and embedded in the confirmation link, so a link
// cannot be replayed against a re-created subscription.
type Subscription struct {
	ID            string             `json:"id" db:"id"`
	Email         string             `json:"email" db:"email"`
	MailingListID string             `json:"mailinglist_id" db:"mailinglist_id"`
	CreatedAt     int64              `json:"created_at" db:"created_at"`
	Status        SubscriptionStatus `json:"status" db:"status"`
}

// MailingList is a provider-side recipient list. Only ID and Name are
// surfaced to callers; Status carries the provider's raw active flag where
// the API exposes one (the v2 API uses 1 for active).
type MailingList struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status int    `json:"status,omitempty"`
}

// ValidEmail reports whether s parses as a bare RFC 5322 address.
// Display names ("Jane <jane@example.com>") are rejected.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == strings.TrimSpace(s)
}
