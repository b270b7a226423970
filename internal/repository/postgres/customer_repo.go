package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuel04-png/loansage-sub000/internal/domain/customer"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) Create(ctx context.Context, in customer.CreateInput) (*customer.Entity, error) {
	q := `
INSERT INTO customers (identity_hash, branch_id, full_name, phone, address)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, identity_hash, branch_id, full_name, phone, address, created_at, updated_at
`
	out := &customer.Entity{}
	err := r.pool.QueryRow(ctx, q, in.IdentityHash, in.BranchID, in.FullName, in.Phone, in.Address).
		Scan(&out.ID, &out.IdentityHash, &out.BranchID, &out.FullName, &out.Phone, &out.Address, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Entity, error) {
	q := `SELECT id, identity_hash, branch_id, full_name, phone, address, created_at, updated_at FROM customers WHERE id = $1`
	out := &customer.Entity{}
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&out.ID, &out.IdentityHash, &out.BranchID, &out.FullName, &out.Phone, &out.Address, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) GetByIdentityHash(ctx context.Context, identityHash []byte) (*customer.Entity, error) {
	q := `SELECT id, identity_hash, branch_id, full_name, phone, address, created_at, updated_at FROM customers WHERE identity_hash = $1`
	out := &customer.Entity{}
	err := r.pool.QueryRow(ctx, q, identityHash).
		Scan(&out.ID, &out.IdentityHash, &out.BranchID, &out.FullName, &out.Phone, &out.Address, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) List(ctx context.Context, f customer.ListFilter) ([]customer.Entity, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	q := `
SELECT id, identity_hash, branch_id, full_name, phone, address, created_at, updated_at
FROM customers
WHERE ($1 = '' OR branch_id = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, f.BranchID, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]customer.Entity, 0)
	for rows.Next() {
		var item customer.Entity
		if err := rows.Scan(&item.ID, &item.IdentityHash, &item.BranchID, &item.FullName, &item.Phone, &item.Address, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
