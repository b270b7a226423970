package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Samuel04-png/loansage-sub000/internal/auth"
	"github.com/Samuel04-png/loansage-sub000/internal/config"
	"github.com/Samuel04-png/loansage-sub000/internal/db"
	customerdomain "github.com/Samuel04-png/loansage-sub000/internal/domain/customer"
	loandomain "github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
	"github.com/Samuel04-png/loansage-sub000/internal/http/handlers"
	"github.com/Samuel04-png/loansage-sub000/internal/observability"
	postgresrepo "github.com/Samuel04-png/loansage-sub000/internal/repository/postgres"
	"github.com/Samuel04-png/loansage-sub000/internal/server"
	"github.com/Samuel04-png/loansage-sub000/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect postgres", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	authRepo := db.NewAuthRepository(pool)
	jwtManager := auth.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSigningKey)
	authService := auth.NewService(authRepo, jwtManager, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	authHandler := handlers.NewAuthHandler(authService, auth.CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure}, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	paymentRepo := postgresrepo.NewPaymentRepository(pool)
	loanService := loandomain.NewService(
		postgresrepo.NewLoanRepository(pool),
		paymentRepo,
		postgresrepo.NewOutboxRepository(pool),
	)
	loanHandler := handlers.NewLoanHandler(loanService)

	customerService := customerdomain.NewService(postgresrepo.NewCustomerRepository(pool))
	customerHandler := handlers.NewCustomerHandler(customerService)

	hub := ws.NewHub()
	notifier := ws.NewNotifier(paymentRepo, hub, cfg.WSPollInterval)
	wsHandler := ws.NewHandler(hub)

	r := server.NewRouter(cfg, logger, server.Dependencies{
		Pinger:          pool,
		AuthHandler:     authHandler,
		LoanHandler:     loanHandler,
		CustomerHandler: customerHandler,
		WSHandler:       wsHandler,
		JWTManager:      jwtManager,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	notifierCtx, notifierCancel := context.WithCancel(context.Background())
	defer notifierCancel()
	go func() {
		if err := notifier.Run(notifierCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("realtime notifier stopped", "err", err)
		}
	}()

	go func() {
		logger.Info("api server starting", "addr", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	notifierCancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("api server stopped")
}
