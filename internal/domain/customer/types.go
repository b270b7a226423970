package customer

import (
	"context"
	"time"
)

type Entity struct {
	ID           string    `json:"id"`
	IdentityHash []byte    `json:"-"`
	BranchID     string    `json:"branch_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateInput struct {
	IdentityHash []byte
	BranchID     string
	FullName     string
	Phone        string
	Address      string
}

type ListFilter struct {
	BranchID string
	Limit    int32
	Offset   int32
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Entity, error)
	GetByID(ctx context.Context, id string) (*Entity, error)
	GetByIdentityHash(ctx context.Context, identityHash []byte) (*Entity, error)
	List(ctx context.Context, f ListFilter) ([]Entity, error)
}
