package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	loandomain "github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
)

type LoanService interface {
	CreateLoan(ctx context.Context, actor loandomain.Actor, in loandomain.CreateInput) (*loandomain.Entity, error)
	UpdateTerms(ctx context.Context, actor loandomain.Actor, loanID string, terms loandomain.Terms, purpose string) (*loandomain.Entity, error)
	GetLoan(ctx context.Context, loanID string) (*loandomain.Entity, error)
	ListLoans(ctx context.Context, filter loandomain.ListFilter) ([]loandomain.Entity, error)
	Permissions(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Capabilities, error)
	Financials(ctx context.Context, loanID string) (*loandomain.Financials, error)
	BuildLedger(ctx context.Context, loanID string) (*loandomain.Ledger, error)
	SubmitForReview(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	ReturnToDraft(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	BeginReview(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	SendBack(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	Approve(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	Reject(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	Disburse(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	Activate(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	MarkOverdue(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	Reactivate(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	Close(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)
	RecordPayment(ctx context.Context, actor loandomain.Actor, loanID string, amount decimal.Decimal, recordedAt time.Time) (*loandomain.PaymentEvent, error)
	ListPayments(ctx context.Context, loanID string) ([]loandomain.PaymentEvent, error)
}

type LoanHandler struct {
	loanService LoanService
}

func NewLoanHandler(loanService LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// actorFrom builds the request actor once from the auth middleware
// context; ownership is resolved against the loan inside the service.
func actorFrom(c *gin.Context) loandomain.Actor {
	userID, _ := c.Get("user_id")
	role, _ := c.Get("user_role")
	uid, _ := userID.(string)
	r, _ := role.(string)
	return loandomain.Actor{UserID: uid, Role: loandomain.Role(r)}
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, loandomain.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission_denied"})
	case errors.Is(err, loandomain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition"})
	case errors.Is(err, loandomain.ErrInvalidTerms):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_terms"})
	case errors.Is(err, loandomain.ErrMalformedPayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_payment"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "loan_not_found"})
	}
}

type loanRequest struct {
	CustomerID     string          `json:"customer_id"`
	BranchID       string          `json:"branch_id"`
	Principal      decimal.Decimal `json:"principal"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	DurationMonths int32           `json:"duration_months"`
	Purpose        string          `json:"purpose"`
}

func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item, err := h.loanService.CreateLoan(c.Request.Context(), actorFrom(c), loandomain.CreateInput{
		CustomerID: strings.TrimSpace(req.CustomerID),
		BranchID:   strings.TrimSpace(req.BranchID),
		Terms: loandomain.Terms{
			Principal:      req.Principal,
			AnnualRatePct:  req.AnnualRatePct,
			DurationMonths: req.DurationMonths,
		},
		Purpose: strings.TrimSpace(req.Purpose),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *LoanHandler) UpdateTerms(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	var req loanRequest
	if loanID == "" || c.ShouldBindJSON(&req) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item, err := h.loanService.UpdateTerms(c.Request.Context(), actorFrom(c), loanID, loandomain.Terms{
		Principal:      req.Principal,
		AnnualRatePct:  req.AnnualRatePct,
		DurationMonths: req.DurationMonths,
	}, strings.TrimSpace(req.Purpose))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LoanHandler) ListLoans(c *gin.Context) {
	limit, _ := strconv.ParseInt(strings.TrimSpace(c.DefaultQuery("limit", "50")), 10, 32)
	offset, _ := strconv.ParseInt(strings.TrimSpace(c.DefaultQuery("offset", "0")), 10, 32)
	items, err := h.loanService.ListLoans(c.Request.Context(), loandomain.ListFilter{
		CustomerID: strings.TrimSpace(c.Query("customer_id")),
		OfficerID:  strings.TrimSpace(c.Query("officer_id")),
		BranchID:   strings.TrimSpace(c.Query("branch_id")),
		Status:     strings.TrimSpace(c.Query("status")),
		Limit:      int32(limit),
		Offset:     int32(offset),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_loans_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *LoanHandler) GetLoan(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}
	item, err := h.loanService.GetLoan(c.Request.Context(), loanID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan_not_found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LoanHandler) GetPermissions(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}
	caps, err := h.loanService.Permissions(c.Request.Context(), actorFrom(c), loanID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, caps)
}

func (h *LoanHandler) GetFinancials(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}
	fin, err := h.loanService.Financials(c.Request.Context(), loanID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, fin)
}

func (h *LoanHandler) GetLedger(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}
	ledger, err := h.loanService.BuildLedger(c.Request.Context(), loanID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

type transitionCall func(ctx context.Context, actor loandomain.Actor, loanID string) (*loandomain.Entity, error)

func (h *LoanHandler) transition(c *gin.Context, call transitionCall) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}
	item, err := call(c.Request.Context(), actorFrom(c), loanID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": item.ID, "status": item.Status})
}

func (h *LoanHandler) Submit(c *gin.Context)        { h.transition(c, h.loanService.SubmitForReview) }
func (h *LoanHandler) ReturnToDraft(c *gin.Context) { h.transition(c, h.loanService.ReturnToDraft) }
func (h *LoanHandler) BeginReview(c *gin.Context)   { h.transition(c, h.loanService.BeginReview) }
func (h *LoanHandler) SendBack(c *gin.Context)      { h.transition(c, h.loanService.SendBack) }
func (h *LoanHandler) Approve(c *gin.Context)       { h.transition(c, h.loanService.Approve) }
func (h *LoanHandler) Reject(c *gin.Context)        { h.transition(c, h.loanService.Reject) }
func (h *LoanHandler) Disburse(c *gin.Context)      { h.transition(c, h.loanService.Disburse) }
func (h *LoanHandler) Activate(c *gin.Context)      { h.transition(c, h.loanService.Activate) }
func (h *LoanHandler) MarkOverdue(c *gin.Context)   { h.transition(c, h.loanService.MarkOverdue) }
func (h *LoanHandler) Reactivate(c *gin.Context)    { h.transition(c, h.loanService.Reactivate) }
func (h *LoanHandler) Close(c *gin.Context)         { h.transition(c, h.loanService.Close) }

func (h *LoanHandler) RecordPayment(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	var req struct {
		Amount     decimal.Decimal `json:"amount"`
		RecordedAt *time.Time      `json:"recorded_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	recordedAt := time.Time{}
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}
	p, err := h.loanService.RecordPayment(c.Request.Context(), actorFrom(c), loanID, req.Amount, recordedAt)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *LoanHandler) ListPayments(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}
	items, err := h.loanService.ListPayments(c.Request.Context(), loanID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_payments_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
