package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
)

type candidateListerMock struct {
	candidates []loan.Entity
	asOf       time.Time
}

func (m *candidateListerMock) ListOverdueCandidates(_ context.Context, asOf time.Time, _ int32) ([]loan.Entity, error) {
	m.asOf = asOf
	return m.candidates, nil
}

type markerMock struct {
	marked []string
	actors []loan.Actor
	errFor map[string]error
}

func (m *markerMock) MarkOverdue(_ context.Context, actor loan.Actor, loanID string) (*loan.Entity, error) {
	if err, ok := m.errFor[loanID]; ok {
		return nil, err
	}
	m.marked = append(m.marked, loanID)
	m.actors = append(m.actors, actor)
	return &loan.Entity{ID: loanID, Status: loan.StatusOverdue}, nil
}

func TestSweepOnceMarksMaturedLoans(t *testing.T) {
	lister := &candidateListerMock{candidates: []loan.Entity{
		{ID: "l-1", Status: loan.StatusActive},
		{ID: "l-2", Status: loan.StatusActive},
	}}
	marker := &markerMock{}
	s := NewOverdueSweeper(lister, marker, slog.Default(), time.Hour)

	if err := s.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if len(marker.marked) != 2 {
		t.Fatalf("marked = %v, want both loans", marker.marked)
	}
	for _, actor := range marker.actors {
		if actor.Role != loan.RoleManager {
			t.Fatalf("system actor role = %s, want MANAGER", actor.Role)
		}
	}
	if lister.asOf.IsZero() {
		t.Fatal("asOf not passed to lister")
	}
}

func TestSweepOnceContinuesPastFailures(t *testing.T) {
	lister := &candidateListerMock{candidates: []loan.Entity{
		{ID: "l-1"}, {ID: "l-2"}, {ID: "l-3"},
	}}
	marker := &markerMock{errFor: map[string]error{"l-2": errors.New("concurrent transition")}}
	s := NewOverdueSweeper(lister, marker, slog.Default(), time.Hour)

	if err := s.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if len(marker.marked) != 2 {
		t.Fatalf("marked = %v, want l-1 and l-3", marker.marked)
	}
}
