package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
)

const loanColumns = `id, customer_id, officer_id, branch_id, principal, annual_rate_pct,
       duration_months, purpose, status, disbursed_at, maturity_date, created_at, updated_at`

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

func scanLoan(row pgx.Row) (*loan.Entity, error) {
	out := &loan.Entity{}
	err := row.Scan(
		&out.ID, &out.CustomerID, &out.OfficerID, &out.BranchID, &out.Principal, &out.AnnualRatePct,
		&out.DurationMonths, &out.Purpose, &out.Status, &out.DisbursedAt, &out.MaturityDate, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) Create(ctx context.Context, in loan.CreateInput) (*loan.Entity, error) {
	q := `
INSERT INTO loans (customer_id, officer_id, branch_id, principal, annual_rate_pct, duration_months, purpose, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,'DRAFT')
RETURNING ` + loanColumns
	return scanLoan(r.pool.QueryRow(ctx, q,
		in.CustomerID, in.OfficerID, in.BranchID,
		in.Terms.Principal, in.Terms.AnnualRatePct, in.Terms.DurationMonths, in.Purpose,
	))
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*loan.Entity, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	return scanLoan(r.pool.QueryRow(ctx, q, id))
}

func (r *LoanRepository) List(ctx context.Context, f loan.ListFilter) ([]loan.Entity, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + loanColumns + ` FROM loans WHERE 1=1`)

	args := []any{}
	argPos := 1
	if strings.TrimSpace(f.CustomerID) != "" {
		builder.WriteString(" AND customer_id = $")
		builder.WriteString(strconv.Itoa(argPos))
		args = append(args, f.CustomerID)
		argPos++
	}
	if strings.TrimSpace(f.OfficerID) != "" {
		builder.WriteString(" AND officer_id = $")
		builder.WriteString(strconv.Itoa(argPos))
		args = append(args, f.OfficerID)
		argPos++
	}
	if strings.TrimSpace(f.BranchID) != "" {
		builder.WriteString(" AND branch_id = $")
		builder.WriteString(strconv.Itoa(argPos))
		args = append(args, f.BranchID)
		argPos++
	}
	if strings.TrimSpace(f.Status) != "" {
		builder.WriteString(" AND status = $")
		builder.WriteString(strconv.Itoa(argPos))
		args = append(args, f.Status)
		argPos++
	}
	builder.WriteString(" ORDER BY created_at DESC")
	builder.WriteString(" LIMIT $")
	builder.WriteString(strconv.Itoa(argPos))
	args = append(args, f.Limit)
	argPos++
	builder.WriteString(" OFFSET $")
	builder.WriteString(strconv.Itoa(argPos))
	args = append(args, f.Offset)

	rows, err := r.pool.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]loan.Entity, 0)
	for rows.Next() {
		item, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTerms writes unconditionally on status; ResolvePermissions is
// the single gate deciding who may edit at which status, so an
// override edit on a non-DRAFT loan still lands.
func (r *LoanRepository) UpdateTerms(ctx context.Context, id string, terms loan.Terms, purpose string) error {
	q := `
UPDATE loans
SET principal = $2, annual_rate_pct = $3, duration_months = $4, purpose = $5, updated_at = NOW()
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, q, id, terms.Principal, terms.AnnualRatePct, terms.DurationMonths, purpose)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus is guarded on the expected current status so a stale
// read never clobbers a concurrent transition.
func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, from, to loan.Status) error {
	q := `UPDATE loans SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	tag, err := r.pool.Exec(ctx, q, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *LoanRepository) SetDisbursed(ctx context.Context, id string, disbursedAt, maturityDate time.Time) error {
	q := `UPDATE loans SET disbursed_at = $2, maturity_date = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, disbursedAt, maturityDate)
	return err
}

func (r *LoanRepository) ListOverdueCandidates(ctx context.Context, asOf time.Time, limit int32) ([]loan.Entity, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
SELECT ` + loanColumns + `
FROM loans
WHERE status = 'ACTIVE' AND maturity_date IS NOT NULL AND maturity_date < $1
ORDER BY maturity_date ASC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, asOf, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]loan.Entity, 0)
	for rows.Next() {
		item, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
