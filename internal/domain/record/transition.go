package record

import (
	"fmt"
	"strings"
)

// Authorize reports whether requester may change the status of rec.
// Identities compare case-insensitively; an empty requester never matches.
//
// This is a client-side check only. The store accepts any write, so nothing
// stops a non-owner from setting a status directly at the storage layer.
func Authorize(rec Record, requester string) error {
	if requester == "" || !strings.EqualFold(requester, rec.Owner) {
		return fmt.Errorf("%w: requester %q", ErrUnauthorized, requester)
	}
	return nil
}

// Transition applies target to rec on behalf of requester and returns the
// updated copy. Only pending -> verified and pending -> rejected exist.
func Transition(rec Record, target Status, requester string) (Record, error) {
	if err := Authorize(rec, requester); err != nil {
		return rec, err
	}

	if rec.Status != StatusPending {
		return rec, fmt.Errorf("%w: record is already %s", ErrInvalidTransition, rec.Status)
	}
	if target != StatusVerified && target != StatusRejected {
		return rec, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, target)
	}

	rec.Status = target
	return rec, nil
}
