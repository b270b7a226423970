package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
	"github.com/Samuel04-png/loansage-sub000/internal/ws"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, in loan.PaymentInput) (*loan.PaymentEvent, error) {
	q := `
INSERT INTO payments (loan_id, amount, recorded_at, recorded_by)
VALUES ($1, $2, $3, $4)
RETURNING id, loan_id, amount, recorded_at, recorded_by
`
	out := &loan.PaymentEvent{}
	err := r.pool.QueryRow(ctx, q, in.LoanID, in.Amount, in.RecordedAt, in.RecordedBy).
		Scan(&out.ID, &out.LoanID, &out.Amount, &out.RecordedAt, &out.RecordedBy)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByLoan returns payments oldest first; insertion order (seq) breaks
// timestamp ties so the ledger sees a total order.
func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]loan.PaymentEvent, error) {
	q := `
SELECT id, loan_id, amount, recorded_at, recorded_by
FROM payments
WHERE loan_id = $1
ORDER BY recorded_at ASC, seq ASC
`
	rows, err := r.pool.Query(ctx, q, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]loan.PaymentEvent, 0)
	for rows.Next() {
		var item loan.PaymentEvent
		if err := rows.Scan(&item.ID, &item.LoanID, &item.Amount, &item.RecordedAt, &item.RecordedBy); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPaymentEventsSince feeds the realtime notifier with newly
// recorded payments, keyed by the monotonically increasing seq.
func (r *PaymentRepository) ListPaymentEventsSince(ctx context.Context, lastSeq int64, limit int32) ([]ws.RealtimeEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
SELECT p.seq, p.id, p.loan_id, l.branch_id, p.amount::text, p.recorded_at
FROM payments p
JOIN loans l ON l.id = p.loan_id
WHERE p.seq > $1
ORDER BY p.seq ASC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, lastSeq, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ws.RealtimeEvent, 0)
	for rows.Next() {
		var ev ws.RealtimeEvent
		if err := rows.Scan(&ev.Seq, &ev.PaymentID, &ev.LoanID, &ev.BranchID, &ev.Amount, &ev.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
