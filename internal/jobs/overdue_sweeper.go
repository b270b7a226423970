package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
)

type OverdueCandidateLister interface {
	ListOverdueCandidates(ctx context.Context, asOf time.Time, limit int32) ([]loan.Entity, error)
}

type OverdueMarker interface {
	MarkOverdue(ctx context.Context, actor loan.Actor, loanID string) (*loan.Entity, error)
}

// systemActor carries manager override rights so the sweeper can flag
// loans without a human in the loop.
var systemActor = loan.Actor{UserID: "", Role: loan.RoleManager}

// OverdueSweeper periodically moves ACTIVE loans past their maturity
// date to OVERDUE through the guarded workflow.
type OverdueSweeper struct {
	lister    OverdueCandidateLister
	marker    OverdueMarker
	logger    *slog.Logger
	interval  time.Duration
	batchSize int32
	now       func() time.Time
}

func NewOverdueSweeper(lister OverdueCandidateLister, marker OverdueMarker, logger *slog.Logger, interval time.Duration) *OverdueSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueSweeper{
		lister:    lister,
		marker:    marker,
		logger:    logger,
		interval:  interval,
		batchSize: 100,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *OverdueSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("overdue sweep failed", "err", err)
			}
		}
	}
}

func (s *OverdueSweeper) SweepOnce(ctx context.Context) error {
	candidates, err := s.lister.ListOverdueCandidates(ctx, s.now(), s.batchSize)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		if _, err := s.marker.MarkOverdue(ctx, systemActor, candidate.ID); err != nil {
			// A concurrent transition may have moved the loan on; log
			// and continue with the rest of the batch.
			s.logger.Warn("mark overdue skipped", "loan_id", candidate.ID, "err", err)
			continue
		}
		s.logger.Info("loan marked overdue", "loan_id", candidate.ID)
	}

	return nil
}
