package loan

import "errors"

var (
	// ErrInvalidTerms covers non-positive duration or negative
	// principal/rate. Callers must validate before a loan leaves DRAFT.
	ErrInvalidTerms = errors.New("invalid_terms")

	// ErrPermissionDenied means the actor lacks the capability for the
	// requested operation at the loan's current status.
	ErrPermissionDenied = errors.New("permission_denied")

	// ErrInvalidTransition means the requested status change is not a
	// declared edge and the actor has no override rights. Kept distinct
	// from ErrPermissionDenied so callers can message "not allowed from
	// this state" versus "you lack rights".
	ErrInvalidTransition = errors.New("invalid_transition")

	// ErrMalformedPayment means a negative amount in the payment
	// history. The whole ledger computation is rejected; skipping the
	// bad entry would silently misstate the remaining balance.
	ErrMalformedPayment = errors.New("malformed_payment")
)
