package loan

import "testing"

func TestResolvePermissionsOverrideRoles(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager} {
		for _, s := range AllStatuses {
			caps := ResolvePermissions(role, s, false)
			if !caps.CanEdit || !caps.CanSubmit || !caps.CanApprove || !caps.CanReject ||
				!caps.CanDisburse || !caps.CanManageRepayments || !caps.CanClose || !caps.CanOverride {
				t.Fatalf("%s at %s should hold every capability, got %+v", role, s, caps)
			}
		}
	}
}

func TestResolvePermissionsAccountant(t *testing.T) {
	approveAt := map[Status]bool{StatusPending: true, StatusUnderReview: true, StatusApproved: true}
	rejectAt := map[Status]bool{StatusPending: true, StatusUnderReview: true}

	for _, s := range AllStatuses {
		caps := ResolvePermissions(RoleAccountant, s, false)
		if caps.CanApprove != approveAt[s] {
			t.Fatalf("accountant CanApprove at %s = %v, want %v", s, caps.CanApprove, approveAt[s])
		}
		if caps.CanReject != rejectAt[s] {
			t.Fatalf("accountant CanReject at %s = %v, want %v", s, caps.CanReject, rejectAt[s])
		}
		if caps.CanManageRepayments != AllowsRepayments(s) {
			t.Fatalf("accountant CanManageRepayments at %s = %v", s, caps.CanManageRepayments)
		}
		if caps.CanEdit || caps.CanDisburse || caps.CanClose || caps.CanOverride {
			t.Fatalf("accountant at %s holds capabilities it never has: %+v", s, caps)
		}
	}
}

func TestResolvePermissionsLoanOfficer(t *testing.T) {
	owner := ResolvePermissions(RoleLoanOfficer, StatusDraft, true)
	if !owner.CanEdit || !owner.CanSubmit {
		t.Fatalf("owning officer at DRAFT should edit and submit, got %+v", owner)
	}
	if owner.CanApprove || owner.CanReject || owner.CanDisburse || owner.CanManageRepayments || owner.CanClose || owner.CanOverride {
		t.Fatalf("officer holds review capabilities: %+v", owner)
	}

	nonOwner := ResolvePermissions(RoleLoanOfficer, StatusDraft, false)
	if nonOwner.CanEdit || nonOwner.CanSubmit {
		t.Fatalf("non-owning officer should have nothing at DRAFT, got %+v", nonOwner)
	}

	for _, s := range AllStatuses {
		if s == StatusDraft {
			continue
		}
		caps := ResolvePermissions(RoleLoanOfficer, s, true)
		if caps != (Capabilities{}) {
			t.Fatalf("owning officer at %s = %+v, want empty", s, caps)
		}
	}
}

func TestResolvePermissionsOtherRolesEmpty(t *testing.T) {
	for _, role := range []Role{RoleCollections, RoleUnderwriter, RoleCustomer, Role("UNKNOWN")} {
		for _, s := range AllStatuses {
			for _, isOwner := range []bool{true, false} {
				if caps := ResolvePermissions(role, s, isOwner); caps != (Capabilities{}) {
					t.Fatalf("%s at %s (owner=%v) = %+v, want empty", role, s, isOwner, caps)
				}
			}
		}
	}
}

func TestResolvePermissionsPure(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleAccountant, RoleLoanOfficer, RoleCustomer} {
		for _, s := range AllStatuses {
			for _, isOwner := range []bool{true, false} {
				first := ResolvePermissions(role, s, isOwner)
				second := ResolvePermissions(role, s, isOwner)
				if first != second {
					t.Fatalf("ResolvePermissions(%s, %s, %v) is not stable", role, s, isOwner)
				}
			}
		}
	}
}

func TestResolvePermissionsTerminalStates(t *testing.T) {
	nonOverride := []Role{RoleAccountant, RoleLoanOfficer, RoleCollections, RoleUnderwriter, RoleCustomer}
	for _, s := range []Status{StatusRejected, StatusClosed} {
		for _, role := range nonOverride {
			caps := ResolvePermissions(role, s, true)
			if caps.CanSubmit || caps.CanApprove || caps.CanReject || caps.CanDisburse || caps.CanClose {
				t.Fatalf("%s at terminal %s can still move the loan: %+v", role, s, caps)
			}
		}
	}
}
