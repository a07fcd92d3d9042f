package subscription

import "errors"

// Sentinel errors for the subscription service layer.
var (
	// ErrNotFound covers every way a confirmation can miss: the key never
	// existed, the link carried wrong values, or the row is already
	// confirmed. These are deliberately indistinguishable to callers so
	// the confirm endpoint cannot be used to probe which subscriptions
	// exist.
	ErrNotFound = errors.New("subscription not found")

	// ErrInvalidInput is returned for malformed subscribe requests. It is
	// reported to the caller and never persisted.
	ErrInvalidInput = errors.New("invalid subscription input")

	// ErrInvalidToken is returned for confirmation links with missing or
	// malformed parameters. Boundaries treat it identically to ErrNotFound.
	ErrInvalidToken = errors.New("invalid confirmation token")
)
