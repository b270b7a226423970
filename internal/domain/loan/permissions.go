package loan

// ResolvePermissions maps (role, status, ownership) to a capability
// set. Role-first, then status-gated. Pure: identical inputs always
// yield an identical set, with no dependence on clock or external
// state.
func ResolvePermissions(role Role, status Status, isOwner bool) Capabilities {
	switch role {
	case RoleAdmin, RoleManager:
		return Capabilities{
			CanEdit:             true,
			CanSubmit:           true,
			CanApprove:          true,
			CanReject:           true,
			CanDisburse:         true,
			CanManageRepayments: true,
			CanClose:            true,
			CanOverride:         true,
		}
	case RoleAccountant:
		return Capabilities{
			CanApprove:          status == StatusPending || status == StatusUnderReview || status == StatusApproved,
			CanReject:           status == StatusPending || status == StatusUnderReview,
			CanManageRepayments: AllowsRepayments(status),
		}
	case RoleLoanOfficer:
		return Capabilities{
			CanEdit:   isOwner && status == StatusDraft,
			CanSubmit: isOwner && status == StatusDraft,
		}
	default:
		// COLLECTIONS, UNDERWRITER, CUSTOMER and anything unrecognized.
		return Capabilities{}
	}
}
