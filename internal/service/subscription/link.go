package subscription

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ConfirmPath is the fixed route confirmation links point at.
const ConfirmPath = "/newsletter/confirm"

// Query parameter names carried by a confirmation link. The three values
// together are the token: no signature is applied, so unguessability rests on
// the timestamp (see DESIGN.md before changing this).
const (
	paramTimestamp = "timestamp"
	paramEmail     = "email"
	paramListID    = "mailinglistId"
)

// BuildConfirmURL deterministically encodes the subscription's natural key
// into an absolute confirmation URL under base.
func BuildConfirmURL(base string, createdAt int64, email, mailingListID string) string {
	q := url.Values{}
	q.Set(paramTimestamp, strconv.FormatInt(createdAt, 10))
	q.Set(paramEmail, email)
	q.Set(paramListID, mailingListID)
	return strings.TrimSuffix(base, "/") + ConfirmPath + "?" + q.Encode()
}

// ParseConfirmQuery extracts the natural key from an inbound confirmation
// request's query values. Missing or malformed values fail with
// ErrInvalidToken.
func ParseConfirmQuery(q url.Values) (createdAt int64, email, mailingListID string, err error) {
	ts := q.Get(paramTimestamp)
	email = q.Get(paramEmail)
	mailingListID = q.Get(paramListID)

	if ts == "" || email == "" || mailingListID == "" {
		return 0, "", "", fmt.Errorf("%w: missing parameter", ErrInvalidToken)
	}

	createdAt, err = strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return 0, "", "", fmt.Errorf("%w: bad timestamp %q", ErrInvalidToken, ts)
	}

	return createdAt, email, mailingListID, nil
}
