package loan

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	outboxTopicStatusChanged   = "loan_status_changed"
	outboxTopicPaymentRecorded = "payment_recorded"
)

type Service struct {
	loanRepo    Repository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	now         func() time.Time
}

func NewService(loanRepo Repository, paymentRepo PaymentRepository, outboxRepo OutboxRepository) *Service {
	return &Service{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// actorFor fills in ownership for the given loan: a loan officer owns
// the loans they created.
func actorFor(actor Actor, e *Entity) Actor {
	actor.IsOwner = actor.UserID != "" && actor.UserID == e.OfficerID
	return actor
}

// CreateLoan registers a new DRAFT loan. Terms are validated up front
// so nothing invalid can ever leave DRAFT.
func (s *Service) CreateLoan(ctx context.Context, actor Actor, in CreateInput) (*Entity, error) {
	switch actor.Role {
	case RoleAdmin, RoleManager, RoleLoanOfficer:
	default:
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, ErrInvalidTerms
	}
	if _, err := ComputeFinancials(in.Terms); err != nil {
		return nil, err
	}

	in.OfficerID = actor.UserID
	return s.loanRepo.Create(ctx, in)
}

// UpdateTerms replaces the financial terms of a loan. The capability
// resolver is the sole gate: officers only on their own DRAFT loans,
// override roles at any status.
func (s *Service) UpdateTerms(ctx context.Context, actor Actor, loanID string, terms Terms, purpose string) (*Entity, error) {
	e, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	caps := ResolvePermissions(actor.Role, e.Status, actor.UserID == e.OfficerID)
	if !caps.CanEdit {
		return nil, ErrPermissionDenied
	}
	if _, err := ComputeFinancials(terms); err != nil {
		return nil, err
	}
	if err := s.loanRepo.UpdateTerms(ctx, loanID, terms, purpose); err != nil {
		return nil, err
	}
	return s.loanRepo.GetByID(ctx, loanID)
}

func (s *Service) GetLoan(ctx context.Context, loanID string) (*Entity, error) {
	return s.loanRepo.GetByID(ctx, loanID)
}

func (s *Service) ListLoans(ctx context.Context, filter ListFilter) ([]Entity, error) {
	return s.loanRepo.List(ctx, filter)
}

// Permissions resolves the actor's capability set for one loan,
// intended to drive UI affordances.
func (s *Service) Permissions(ctx context.Context, actor Actor, loanID string) (*Capabilities, error) {
	e, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	caps := ResolvePermissions(actor.Role, e.Status, actor.UserID == e.OfficerID)
	return &caps, nil
}

// Financials returns the constant derived figures for one loan.
func (s *Service) Financials(ctx context.Context, loanID string) (*Financials, error) {
	e, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ComputeFinancials(e.Terms())
}

// BuildLedger recomputes the full allocation history for one loan.
func (s *Service) BuildLedger(ctx context.Context, loanID string) (*Ledger, error) {
	e, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return BuildLedger(e.Terms(), payments)
}

type transitionFunc func(actor Actor, current Status) (Status, error)

func (s *Service) transition(ctx context.Context, actor Actor, loanID string, op transitionFunc) (*Entity, error) {
	e, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	next, err := op(actorFor(actor, e), e.Status)
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.UpdateStatus(ctx, loanID, e.Status, next); err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]any{
		"loan_id":     loanID,
		"branch_id":   e.BranchID,
		"from_status": e.Status,
		"to_status":   next,
		"actor_id":    actor.UserID,
		"actor_role":  actor.Role,
	})
	if err := s.outboxRepo.Enqueue(ctx, outboxTopicStatusChanged, payload); err != nil {
		return nil, err
	}

	e.Status = next
	return e, nil
}

func (s *Service) SubmitForReview(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, SubmitForReview)
}

func (s *Service) ReturnToDraft(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, ReturnToDraft)
}

func (s *Service) BeginReview(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, BeginReview)
}

func (s *Service) SendBack(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, SendBack)
}

func (s *Service) Approve(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, Approve)
}

func (s *Service) Reject(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, Reject)
}

// Disburse pays out an approved loan and fixes the maturity date from
// the disbursement moment plus the loan's duration.
func (s *Service) Disburse(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	e, err := s.transition(ctx, actor, loanID, Disburse)
	if err != nil {
		return nil, err
	}

	disbursedAt := s.now()
	maturity := disbursedAt.AddDate(0, int(e.DurationMonths), 0)
	if err := s.loanRepo.SetDisbursed(ctx, loanID, disbursedAt, maturity); err != nil {
		return nil, err
	}
	e.DisbursedAt = &disbursedAt
	e.MaturityDate = &maturity
	return e, nil
}

func (s *Service) Activate(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, Activate)
}

func (s *Service) MarkOverdue(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, MarkOverdue)
}

func (s *Service) Reactivate(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, Reactivate)
}

func (s *Service) Close(ctx context.Context, actor Actor, loanID string) (*Entity, error) {
	return s.transition(ctx, actor, loanID, Close)
}

// RecordPayment appends an immutable payment fact to the loan's
// history. Payments are rejected at this boundary when negative or when
// the loan's status does not permit repayment management.
func (s *Service) RecordPayment(ctx context.Context, actor Actor, loanID string, amount decimal.Decimal, recordedAt time.Time) (*PaymentEvent, error) {
	e, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	caps := ResolvePermissions(actor.Role, e.Status, actor.UserID == e.OfficerID)
	if !caps.CanManageRepayments {
		return nil, ErrPermissionDenied
	}
	// Status gate holds for everyone, override roles included: a loan
	// that is not in a repayment status accumulates no payments.
	if !AllowsRepayments(e.Status) {
		return nil, ErrInvalidTransition
	}
	if amount.IsNegative() {
		return nil, ErrMalformedPayment
	}
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	p, err := s.paymentRepo.Create(ctx, PaymentInput{
		LoanID:     loanID,
		Amount:     amount,
		RecordedAt: recordedAt,
		RecordedBy: actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]any{
		"loan_id":     loanID,
		"branch_id":   e.BranchID,
		"payment_id":  p.ID,
		"amount":      amount.String(),
		"recorded_at": recordedAt.Format(time.RFC3339),
	})
	if err := s.outboxRepo.Enqueue(ctx, outboxTopicPaymentRecorded, payload); err != nil {
		return nil, err
	}

	return p, nil
}

// ListPayments returns the raw payment history, oldest first.
func (s *Service) ListPayments(ctx context.Context, loanID string) ([]PaymentEvent, error) {
	return s.paymentRepo.ListByLoan(ctx, loanID)
}
