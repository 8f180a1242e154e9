// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerfeed/backend/internal/integration/entrypoint/controller"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	accountController        *controller.AccountController
	transactionController    *controller.TransactionController
	linkingController        *controller.LinkingController
	syncController           *controller.SyncController
	reconciliationController *controller.ReconciliationController
	discrepancyController    *controller.DiscrepancyController
	payeeRuleController      *controller.PayeeRuleController
	suggestionController     *controller.SuggestionController
	reportController         *controller.ReportController
	syncRateLimiter          *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	accountController *controller.AccountController,
	transactionController *controller.TransactionController,
	linkingController *controller.LinkingController,
	syncController *controller.SyncController,
	reconciliationController *controller.ReconciliationController,
	discrepancyController *controller.DiscrepancyController,
	payeeRuleController *controller.PayeeRuleController,
	suggestionController *controller.SuggestionController,
	reportController *controller.ReportController,
	syncRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:         healthController,
		accountController:        accountController,
		transactionController:    transactionController,
		linkingController:        linkingController,
		syncController:           syncController,
		reconciliationController: reconciliationController,
		discrepancyController:    discrepancyController,
		payeeRuleController:      payeeRuleController,
		suggestionController:     suggestionController,
		reportController:         reportController,
		syncRateLimiter:          syncRateLimiter,
		authMiddleware:           authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every /api/v1 route sits
// behind the API key middleware; the key check is a no-op when no key is
// configured.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	if r.authMiddleware != nil {
		v1.Use(r.authMiddleware.Authenticate())
	}
	{
		// Ledger account routes
		if r.accountController != nil {
			accounts := v1.Group("/accounts")
			{
				accounts.GET("", r.accountController.List)
				accounts.POST("", r.accountController.Create)
				accounts.PATCH("/:id", r.accountController.Update)
				accounts.DELETE("/:id", r.accountController.Delete)
			}
		}

		// Ledger transaction routes
		if r.transactionController != nil {
			transactions := v1.Group("/transactions")
			{
				transactions.GET("", r.transactionController.List)
				transactions.POST("", r.transactionController.Create)
				transactions.GET("/:id", r.transactionController.Get)
				transactions.PATCH("/:id", r.transactionController.Update)
				transactions.DELETE("/:id", r.transactionController.Delete)
			}
		}

		// Institution, requisition and account link routes
		if r.linkingController != nil {
			v1.GET("/institutions", r.linkingController.ListInstitutions)

			requisitions := v1.Group("/requisitions")
			{
				requisitions.GET("", r.linkingController.ListRequisitions)
				requisitions.POST("", r.linkingController.CreateRequisition)
				requisitions.GET("/:id", r.linkingController.GetRequisition)
				requisitions.DELETE("/:id", r.linkingController.DeleteRequisition)
			}

			links := v1.Group("/links")
			{
				links.GET("", r.linkingController.ListLinks)
				links.POST("", r.linkingController.CreateLink)
				links.PATCH("/:id", r.linkingController.UpdateLink)
				links.DELETE("/:id", r.linkingController.DeleteLink)
			}
		}

		// Sync routes
		if r.syncController != nil {
			syncGroup := v1.Group("/sync")
			{
				if r.syncRateLimiter != nil {
					syncGroup.POST("/trigger", r.syncRateLimiter.Middleware(), r.syncController.Trigger)
				} else {
					syncGroup.POST("/trigger", r.syncController.Trigger)
				}
				syncGroup.POST("/preview", r.syncController.Preview)
				syncGroup.GET("/status", r.syncController.GetStatus)
				syncGroup.GET("/runs", r.syncController.ListRuns)
				syncGroup.GET("/runs/:id", r.syncController.GetRun)
			}
		}

		// Reconciliation review routes
		if r.reconciliationController != nil {
			reconciliation := v1.Group("/reconciliation")
			{
				reconciliation.GET("/pending", r.reconciliationController.GetPending)
				reconciliation.GET("/linked", r.reconciliationController.GetLinked)
				reconciliation.GET("/summary", r.reconciliationController.GetSummary)
				reconciliation.GET("/candidates/:splitId", r.reconciliationController.GetCandidates)
				reconciliation.POST("/link", r.reconciliationController.ManualLink)
				reconciliation.POST("/unlink", r.reconciliationController.Unlink)
			}
		}

		// Discrepancy routes
		if r.discrepancyController != nil {
			discrepancies := v1.Group("/discrepancies")
			{
				discrepancies.GET("", r.discrepancyController.List)
				discrepancies.POST("/:id/resolve", r.discrepancyController.Resolve)
				discrepancies.POST("/:id/ignore", r.discrepancyController.Ignore)
			}
		}

		// Payee rule routes
		if r.payeeRuleController != nil {
			payeeRules := v1.Group("/payee-rules")
			{
				payeeRules.GET("", r.payeeRuleController.List)
				payeeRules.POST("", r.payeeRuleController.Create)
				payeeRules.POST("/test", r.payeeRuleController.Test)
				payeeRules.PATCH("/reorder", r.payeeRuleController.Reorder)
				payeeRules.PATCH("/:id", r.payeeRuleController.Update)
				payeeRules.DELETE("/:id", r.payeeRuleController.Delete)
			}
		}

		// AI suggestion routes
		if r.suggestionController != nil {
			suggestions := v1.Group("/ai/suggestions")
			{
				suggestions.POST("/start", r.suggestionController.Start)
				suggestions.GET("/status", r.suggestionController.GetStatus)
				suggestions.GET("", r.suggestionController.List)
				suggestions.POST("/:id/approve", r.suggestionController.Approve)
				suggestions.POST("/:id/reject", r.suggestionController.Reject)
				suggestions.DELETE("", r.suggestionController.Clear)
			}
		}

		// Report routes
		if r.reportController != nil {
			v1.GET("/reports/activity", r.reportController.GetActivity)
		}
	}
}
