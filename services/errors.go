// Package services holds the document mutation logic shared by the
// HTTP controllers: the follow graph, like counters, event signups and
// volunteer hours, and the payment-processor client.
package services

import (
	"errors"
	"fmt"
)

// Collection names in the document store.
const (
	CollectionUsers          = "users"
	CollectionEvents         = "events"
	CollectionFundraisePosts = "fundraisePosts"
)

var (
	// ErrAlreadyRegistered is returned on a duplicate event signup.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrForbidden is returned when the caller is not allowed to
	// perform the operation (e.g. a non-organizer logging hours).
	ErrForbidden = errors.New("operation not allowed")

	// ErrReconcileNeeded reports a follow/unfollow whose first write
	// succeeded but whose second write failed even after a retry. The
	// graph is half-updated; re-running the same call repairs it.
	ErrReconcileNeeded = errors.New("social graph needs reconciliation")
)

// ValidationError rejects bad caller input. It is reported inline and
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
