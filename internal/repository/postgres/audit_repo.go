package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuel04-png/loansage-sub000/internal/jobs"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Record(ctx context.Context, in jobs.AuditInput) error {
	q := `
INSERT INTO audit_trail (actor_id, action, loan_id, payload)
VALUES (NULLIF($1, '')::uuid, $2, NULLIF($3, '')::uuid, $4::jsonb)
`
	_, err := r.pool.Exec(ctx, q, in.ActorID, in.Action, in.LoanID, in.Payload)
	return err
}
