package customer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// HashIdentity derives a stable privacy-preserving key from a national
// ID so raw government identifiers never reach the customers table.
func HashIdentity(idType, idNumber string) []byte {
	input := fmt.Sprintf("%s:%s", strings.TrimSpace(strings.ToUpper(idType)), strings.TrimSpace(idNumber))
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(input))
	return h.Sum(nil)
}

type RegisterInput struct {
	BranchID string
	FullName string
	Phone    string
	Address  string
	IDType   string
	IDNumber string
}

// Register creates a customer, deduplicating on the identity hash: a
// returning customer with the same national ID gets their existing
// record back.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Entity, error) {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.IDNumber) == "" {
		return nil, fmt.Errorf("missing_required_fields")
	}

	hash := HashIdentity(in.IDType, in.IDNumber)
	if existing, err := s.repo.GetByIdentityHash(ctx, hash); err == nil {
		return existing, nil
	}

	return s.repo.Create(ctx, CreateInput{
		IdentityHash: hash,
		BranchID:     strings.TrimSpace(in.BranchID),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
	})
}

func (s *Service) Get(ctx context.Context, customerID string) (*Entity, error) {
	return s.repo.GetByID(ctx, customerID)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Entity, error) {
	return s.repo.List(ctx, f)
}
