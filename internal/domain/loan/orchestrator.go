package loan

// The guarded transition operations compose ResolvePermissions and
// CanTransition: first the actor's capability is checked
// (ErrPermissionDenied), then the edge itself (ErrInvalidTransition).
// Each returns the new status for the caller to persist; persistence
// and side effects live outside these functions.

func guardedTransition(role Role, caps Capabilities, current, target Status, allowed bool) (Status, error) {
	if !allowed && !caps.CanOverride {
		return "", ErrPermissionDenied
	}
	if !CanTransition(current, target, role) {
		return "", ErrInvalidTransition
	}
	return target, nil
}

// SubmitForReview moves a drafted loan into the review queue.
func SubmitForReview(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusPending, caps.CanSubmit)
}

// ReturnToDraft pulls a pending loan back for editing.
func ReturnToDraft(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusDraft, caps.CanSubmit)
}

// BeginReview claims a pending loan for review.
func BeginReview(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusUnderReview, caps.CanApprove || caps.CanReject)
}

// SendBack returns a loan under review to the pending queue.
func SendBack(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusPending, caps.CanApprove || caps.CanReject)
}

// Approve accepts a reviewed loan.
func Approve(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusApproved, caps.CanApprove)
}

// Reject declines a loan. REJECTED is terminal.
func Reject(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusRejected, caps.CanReject)
}

// Disburse pays out an approved loan.
func Disburse(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusDisbursed, caps.CanDisburse)
}

// Activate starts the repayment phase of a disbursed loan.
func Activate(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusActive, caps.CanManageRepayments)
}

// MarkOverdue flags an active loan that has missed its obligations.
func MarkOverdue(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusOverdue, caps.CanManageRepayments)
}

// Reactivate clears the overdue flag after the loan catches up.
func Reactivate(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusActive, caps.CanManageRepayments)
}

// Close settles a loan. CLOSED is terminal.
func Close(actor Actor, current Status) (Status, error) {
	caps := ResolvePermissions(actor.Role, current, actor.IsOwner)
	return guardedTransition(actor.Role, caps, current, StatusClosed, caps.CanClose)
}
