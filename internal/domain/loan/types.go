package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the single mutable workflow field of a loan. Every other
// field is fixed once the loan leaves DRAFT.
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusPending     Status = "PENDING"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusDisbursed   Status = "DISBURSED"
	StatusActive      Status = "ACTIVE"
	StatusOverdue     Status = "OVERDUE"
	StatusClosed      Status = "CLOSED"
)

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleAccountant  Role = "ACCOUNTANT"
	RoleLoanOfficer Role = "LOAN_OFFICER"
	RoleCollections Role = "COLLECTIONS"
	RoleUnderwriter Role = "UNDERWRITER"
	RoleCustomer    Role = "CUSTOMER"
)

// Actor is resolved once per request from the authenticated user and
// passed explicitly into every guarded operation.
type Actor struct {
	UserID  string
	Role    Role
	IsOwner bool
}

// Terms are the fixed financial parameters of a loan.
type Terms struct {
	Principal      decimal.Decimal `json:"principal"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	DurationMonths int32           `json:"duration_months"`
}

// Financials are derived from Terms and constant for the life of the
// loan. TotalInterest is flat simple interest; Installment is the
// informational annuity figure and does not drive the ledger split.
type Financials struct {
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	Installment   decimal.Decimal `json:"installment"`
}

// PaymentEvent is an immutable recorded repayment. Allocations are
// always re-derived from the full history, never stored.
type PaymentEvent struct {
	ID         string          `json:"id"`
	LoanID     string          `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	RecordedAt time.Time       `json:"recorded_at"`
	RecordedBy string          `json:"recorded_by"`
}

// LedgerEntry is the derived interest/principal split for one payment.
type LedgerEntry struct {
	PaymentNumber    int             `json:"payment_number"`
	PaymentID        string          `json:"payment_id"`
	Amount           decimal.Decimal `json:"amount"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	RecordedAt       time.Time       `json:"recorded_at"`
}

type Ledger struct {
	Entries          []LedgerEntry   `json:"entries"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Capabilities drives both the orchestrator gates and the UI
// affordances (show/hide buttons) for one (role, status, owner) triple.
type Capabilities struct {
	CanEdit             bool `json:"can_edit"`
	CanSubmit           bool `json:"can_submit"`
	CanApprove          bool `json:"can_approve"`
	CanReject           bool `json:"can_reject"`
	CanDisburse         bool `json:"can_disburse"`
	CanManageRepayments bool `json:"can_manage_repayments"`
	CanClose            bool `json:"can_close"`
	CanOverride         bool `json:"can_override"`
}

type Entity struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	OfficerID      string          `json:"officer_id"`
	BranchID       string          `json:"branch_id"`
	Principal      decimal.Decimal `json:"principal"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	DurationMonths int32           `json:"duration_months"`
	Purpose        string          `json:"purpose"`
	Status         Status          `json:"status"`
	DisbursedAt    *time.Time      `json:"disbursed_at,omitempty"`
	MaturityDate   *time.Time      `json:"maturity_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (e *Entity) Terms() Terms {
	return Terms{
		Principal:      e.Principal,
		AnnualRatePct:  e.AnnualRatePct,
		DurationMonths: e.DurationMonths,
	}
}

type CreateInput struct {
	CustomerID string
	OfficerID  string
	BranchID   string
	Terms      Terms
	Purpose    string
}

type ListFilter struct {
	CustomerID string
	OfficerID  string
	BranchID   string
	Status     string
	Limit      int32
	Offset     int32
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Entity, error)
	GetByID(ctx context.Context, id string) (*Entity, error)
	List(ctx context.Context, f ListFilter) ([]Entity, error)
	UpdateTerms(ctx context.Context, id string, terms Terms, purpose string) error
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	SetDisbursed(ctx context.Context, id string, disbursedAt, maturityDate time.Time) error
	ListOverdueCandidates(ctx context.Context, asOf time.Time, limit int32) ([]Entity, error)
}

type PaymentInput struct {
	LoanID     string
	Amount     decimal.Decimal
	RecordedAt time.Time
	RecordedBy string
}

type PaymentRepository interface {
	Create(ctx context.Context, in PaymentInput) (*PaymentEvent, error)
	ListByLoan(ctx context.Context, loanID string) ([]PaymentEvent, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload []byte) error
}
