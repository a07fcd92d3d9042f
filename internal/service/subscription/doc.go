// Package subscription implements the double opt-in subscription lifecycle.
//
// A subscription moves through exactly one path: a visitor's request creates
// a pending row and triggers a confirmation email; following the emailed link
// registers the contact with the newsletter provider, assigns it to the
// requested mailing list, and flips the row to confirmed. Confirmed is
// terminal — there is no failed state, and a confirmation that dies on a
// provider call leaves the row pending so the same link can be retried.
//
// The service layer contains pure business logic and depends on the
// Repository and Notifier interfaces plus the newsletter.Client contract.
// It never imports net/http or database/sql directly.
package subscription
