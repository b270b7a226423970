package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Samuel04-png/loansage-sub000/internal/config"
	"github.com/Samuel04-png/loansage-sub000/internal/db"
	loandomain "github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
	"github.com/Samuel04-png/loansage-sub000/internal/jobs"
	"github.com/Samuel04-png/loansage-sub000/internal/observability"
	postgresrepo "github.com/Samuel04-png/loansage-sub000/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.Env)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connectCancel()

	pool, err := db.NewPostgresPool(connectCtx, cfg)
	if err != nil {
		logger.Error("failed to connect postgres", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	loanRepo := postgresrepo.NewLoanRepository(pool)
	loanService := loandomain.NewService(
		loanRepo,
		postgresrepo.NewPaymentRepository(pool),
		postgresrepo.NewOutboxRepository(pool),
	)

	worker := jobs.NewWorker(postgresrepo.NewOutboxRepository(pool), postgresrepo.NewAuditRepository(pool))
	sweeper := jobs.NewOverdueSweeper(loanRepo, loanService, logger, cfg.OverdueSweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("overdue sweeper stopped", "err", err)
		}
	}()

	logger.Info("outbox worker starting", "poll_interval", cfg.WorkerPollInterval.String())
	ticker := time.NewTicker(cfg.WorkerPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-ticker.C:
			if err := worker.RunOnce(ctx, cfg.WorkerBatchSize); err != nil {
				logger.Error("outbox drain failed", "err", err)
			}
		}
	}
}
