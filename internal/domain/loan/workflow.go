package loan

// transitions declares the full workflow graph. REJECTED and CLOSED are
// terminal: no outbound edges for non-override roles.
var transitions = map[Status][]Status{
	StatusDraft:       {StatusPending},
	StatusPending:     {StatusUnderReview, StatusDraft},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusPending},
	StatusApproved:    {StatusDisbursed, StatusRejected},
	StatusRejected:    {},
	StatusDisbursed:   {StatusActive},
	StatusActive:      {StatusOverdue, StatusClosed},
	StatusOverdue:     {StatusActive, StatusClosed},
	StatusClosed:      {},
}

// AllStatuses lists every workflow state, in lifecycle order.
var AllStatuses = []Status{
	StatusDraft, StatusPending, StatusUnderReview, StatusApproved,
	StatusRejected, StatusDisbursed, StatusActive, StatusOverdue, StatusClosed,
}

// CanTransition reports whether the edge from -> to is legal for the
// role. ADMIN and MANAGER bypass the table unconditionally. Pure and
// total: always returns a boolean, never panics on unknown inputs.
func CanTransition(from, to Status, role Role) bool {
	if role == RoleAdmin || role == RoleManager {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outbound edges for
// non-override roles.
func IsTerminal(s Status) bool {
	return s == StatusRejected || s == StatusClosed
}

// AllowsRepayments reports whether payments may accumulate at this
// status.
func AllowsRepayments(s Status) bool {
	switch s {
	case StatusApproved, StatusDisbursed, StatusActive, StatusOverdue:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the nine declared states.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}
