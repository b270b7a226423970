package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Samuel04-png/loansage-sub000/internal/auth"
	"github.com/Samuel04-png/loansage-sub000/internal/config"
	"github.com/Samuel04-png/loansage-sub000/internal/domain/loan"
	"github.com/Samuel04-png/loansage-sub000/internal/http/handlers"
	"github.com/Samuel04-png/loansage-sub000/internal/http/middleware"
	"github.com/Samuel04-png/loansage-sub000/internal/version"
	"github.com/Samuel04-png/loansage-sub000/internal/ws"
)

type Dependencies struct {
	Pinger          handlers.Pinger
	AuthHandler     *handlers.AuthHandler
	LoanHandler     *handlers.LoanHandler
	CustomerHandler *handlers.CustomerHandler
	WSHandler       *ws.Handler
	JWTManager      *auth.JWTManager
}

var staffRoles = []string{
	string(loan.RoleAdmin),
	string(loan.RoleManager),
	string(loan.RoleAccountant),
	string(loan.RoleLoanOfficer),
	string(loan.RoleCollections),
	string(loan.RoleUnderwriter),
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestBodyLimit(cfg.MaxBodyBytes))
	r.Use(func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	})

	health := handlers.NewHealthHandler(deps.Pinger)
	meta := handlers.NewMetaHandler(cfg.Env, version.Version)

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/v1/meta", meta.GetMeta)

	if deps.AuthHandler != nil && deps.JWTManager != nil {
		authGroup := r.Group("/v1/auth")
		authGroup.POST("/login", deps.AuthHandler.Login)
		authGroup.POST("/refresh", deps.AuthHandler.Refresh)
		authGroup.POST("/logout", deps.AuthHandler.Logout)

		protected := authGroup.Group("")
		protected.Use(middleware.RequireAuth(deps.JWTManager))
		protected.GET("/me", deps.AuthHandler.Me)

		if deps.LoanHandler != nil {
			loanGroup := r.Group("/v1")
			loanGroup.Use(middleware.RequireAuth(deps.JWTManager), middleware.RequireRole(staffRoles...))
			loanGroup.POST("/loans", deps.LoanHandler.CreateLoan)
			loanGroup.GET("/loans", deps.LoanHandler.ListLoans)
			loanGroup.GET("/loans/:loanId", deps.LoanHandler.GetLoan)
			loanGroup.PUT("/loans/:loanId/terms", deps.LoanHandler.UpdateTerms)
			loanGroup.GET("/loans/:loanId/permissions", deps.LoanHandler.GetPermissions)
			loanGroup.GET("/loans/:loanId/financials", deps.LoanHandler.GetFinancials)
			loanGroup.GET("/loans/:loanId/ledger", deps.LoanHandler.GetLedger)

			loanGroup.POST("/loans/:loanId/submit", deps.LoanHandler.Submit)
			loanGroup.POST("/loans/:loanId/return", deps.LoanHandler.ReturnToDraft)
			loanGroup.POST("/loans/:loanId/review", deps.LoanHandler.BeginReview)
			loanGroup.POST("/loans/:loanId/send-back", deps.LoanHandler.SendBack)
			loanGroup.POST("/loans/:loanId/approve", deps.LoanHandler.Approve)
			loanGroup.POST("/loans/:loanId/reject", deps.LoanHandler.Reject)
			loanGroup.POST("/loans/:loanId/disburse", deps.LoanHandler.Disburse)
			loanGroup.POST("/loans/:loanId/activate", deps.LoanHandler.Activate)
			loanGroup.POST("/loans/:loanId/mark-overdue", deps.LoanHandler.MarkOverdue)
			loanGroup.POST("/loans/:loanId/reactivate", deps.LoanHandler.Reactivate)
			loanGroup.POST("/loans/:loanId/close", deps.LoanHandler.Close)

			loanGroup.POST("/loans/:loanId/payments", deps.LoanHandler.RecordPayment)
			loanGroup.GET("/loans/:loanId/payments", deps.LoanHandler.ListPayments)
		}
		if deps.CustomerHandler != nil {
			customerGroup := r.Group("/v1")
			customerGroup.Use(middleware.RequireAuth(deps.JWTManager), middleware.RequireRole(staffRoles...))
			customerGroup.POST("/customers", deps.CustomerHandler.Register)
			customerGroup.GET("/customers", deps.CustomerHandler.ListCustomers)
			customerGroup.GET("/customers/:customerId", deps.CustomerHandler.GetCustomer)
		}
		if deps.WSHandler != nil {
			wsGroup := r.Group("/v1/ws")
			wsGroup.Use(middleware.RequireAuth(deps.JWTManager))
			wsGroup.GET("", deps.WSHandler.HandleWebSocket)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return r
}
