package loan

import (
	"errors"
	"testing"
)

func TestSubmitForReviewOwnership(t *testing.T) {
	owner := Actor{UserID: "u-1", Role: RoleLoanOfficer, IsOwner: true}
	next, err := SubmitForReview(owner, StatusDraft)
	if err != nil {
		t.Fatalf("owning officer submit: %v", err)
	}
	if next != StatusPending {
		t.Fatalf("next = %s, want PENDING", next)
	}

	stranger := Actor{UserID: "u-2", Role: RoleLoanOfficer, IsOwner: false}
	if _, err := SubmitForReview(stranger, StatusDraft); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-owning officer submit: err = %v, want ErrPermissionDenied", err)
	}
}

func TestApproveSkippingReview(t *testing.T) {
	accountant := Actor{UserID: "u-3", Role: RoleAccountant}
	// The accountant holds CanApprove at PENDING, but PENDING -> APPROVED
	// is not a declared edge.
	if _, err := Approve(accountant, StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("accountant approve from PENDING: err = %v, want ErrInvalidTransition", err)
	}

	admin := Actor{UserID: "u-4", Role: RoleAdmin}
	next, err := Approve(admin, StatusPending)
	if err != nil {
		t.Fatalf("admin approve from PENDING: %v", err)
	}
	if next != StatusApproved {
		t.Fatalf("next = %s, want APPROVED", next)
	}
}

func TestApproveFromUnderReview(t *testing.T) {
	accountant := Actor{UserID: "u-3", Role: RoleAccountant}
	next, err := Approve(accountant, StatusUnderReview)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if next != StatusApproved {
		t.Fatalf("next = %s, want APPROVED", next)
	}
}

func TestRejectTerminal(t *testing.T) {
	accountant := Actor{UserID: "u-3", Role: RoleAccountant}
	next, err := Reject(accountant, StatusUnderReview)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if next != StatusRejected {
		t.Fatalf("next = %s, want REJECTED", next)
	}

	// Nothing moves out of REJECTED without override rights.
	if _, err := SubmitForReview(Actor{Role: RoleLoanOfficer, IsOwner: true}, StatusRejected); err == nil {
		t.Fatal("submit from REJECTED should fail")
	}
}

func TestPermissionCheckedBeforeEdge(t *testing.T) {
	// A customer fails the capability gate even on a declared edge, and
	// the error is PermissionDenied, not InvalidTransition.
	if _, err := SubmitForReview(Actor{Role: RoleCustomer}, StatusDraft); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestDisburseRequiresCapability(t *testing.T) {
	accountant := Actor{UserID: "u-3", Role: RoleAccountant}
	if _, err := Disburse(accountant, StatusApproved); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("accountant disburse: err = %v, want ErrPermissionDenied", err)
	}

	manager := Actor{UserID: "u-5", Role: RoleManager}
	next, err := Disburse(manager, StatusApproved)
	if err != nil {
		t.Fatalf("manager disburse: %v", err)
	}
	if next != StatusDisbursed {
		t.Fatalf("next = %s, want DISBURSED", next)
	}
}

func TestRepaymentLifecycleOperations(t *testing.T) {
	accountant := Actor{UserID: "u-3", Role: RoleAccountant}

	next, err := Activate(accountant, StatusDisbursed)
	if err != nil || next != StatusActive {
		t.Fatalf("activate = %s, %v", next, err)
	}
	next, err = MarkOverdue(accountant, StatusActive)
	if err != nil || next != StatusOverdue {
		t.Fatalf("mark overdue = %s, %v", next, err)
	}
	next, err = Reactivate(accountant, StatusOverdue)
	if err != nil || next != StatusActive {
		t.Fatalf("reactivate = %s, %v", next, err)
	}

	// Closing is reserved for override roles.
	if _, err := Close(accountant, StatusActive); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("accountant close: err = %v, want ErrPermissionDenied", err)
	}
	next, err = Close(Actor{Role: RoleManager}, StatusActive)
	if err != nil || next != StatusClosed {
		t.Fatalf("manager close = %s, %v", next, err)
	}
}

func TestReturnAndSendBack(t *testing.T) {
	owner := Actor{UserID: "u-1", Role: RoleLoanOfficer, IsOwner: true}
	// Officer capabilities are gated on DRAFT, so pulling a pending loan
	// back needs an override role.
	if _, err := ReturnToDraft(owner, StatusPending); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("officer return: err = %v, want ErrPermissionDenied", err)
	}
	next, err := ReturnToDraft(Actor{Role: RoleManager}, StatusPending)
	if err != nil || next != StatusDraft {
		t.Fatalf("manager return = %s, %v", next, err)
	}

	accountant := Actor{UserID: "u-3", Role: RoleAccountant}
	next, err = BeginReview(accountant, StatusPending)
	if err != nil || next != StatusUnderReview {
		t.Fatalf("begin review = %s, %v", next, err)
	}
	next, err = SendBack(accountant, StatusUnderReview)
	if err != nil || next != StatusPending {
		t.Fatalf("send back = %s, %v", next, err)
	}
}
