// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"advance/internal/handlers"
	"advance/internal/middleware"
	"advance/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Options carries the pieces that differ between deployments.
type Options struct {
	JWTSecret string
	Version   string
	Checks    map[string]handlers.Check
	// PoolStats exposes Redis pool counters on /health when set.
	PoolStats handlers.PoolStatsFunc
	// Metrics serves /metrics when set.
	Metrics fiber.Handler
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, svc *Services, opts Options, log *zap.Logger) {
	auth := middleware.NewAuthMiddleware(opts.JWTSecret, svc.Users, log)

	depositHandler := handlers.NewDepositHandler(svc.Deposits, log)
	accountHandler := handlers.NewAccountHandler(svc.Ledger, log)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications, log)
	adminHandler := handlers.NewAdminHandler(svc.Deposits, svc.Ledger, svc.Notifications, log)
	healthHandler := handlers.NewHealthHandler(opts.Version, opts.Checks, opts.PoolStats)

	// Public endpoints (no auth required)
	app.Get("/health", healthHandler.HealthCheck)
	if opts.Metrics != nil {
		app.Get("/metrics", opts.Metrics)
	}

	api := app.Group("/api", auth.Handler)

	// Account routes
	accounts := api.Group("/accounts")
	accounts.Get("/me", middleware.HasPermission(models.PermissionDepositRead), accountHandler.GetAccount)
	accounts.Get("/me/interest", middleware.HasPermission(models.PermissionDepositRead), accountHandler.ListInterest)

	// Deposit routes
	deposits := api.Group("/deposits")
	deposits.Post("/", middleware.HasPermission(models.PermissionDepositWrite), depositHandler.SubmitDeposit)
	deposits.Get("/", middleware.HasPermission(models.PermissionDepositRead), depositHandler.ListDeposits)
	deposits.Get("/can-deposit", middleware.HasPermission(models.PermissionDepositRead), depositHandler.CanDeposit)
	deposits.Get("/monthly-summary", middleware.HasPermission(models.PermissionDepositRead), depositHandler.MonthlySummary)
	deposits.Get("/:id", middleware.HasPermission(models.PermissionDepositRead), depositHandler.GetDeposit)
	deposits.Post("/:id/cancel", middleware.HasPermission(models.PermissionDepositWrite), depositHandler.CancelDeposit)

	// Notification routes; static paths come before /:id
	notifications := api.Group("/notifications")
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Get("/recent", notificationHandler.Recent)
	notifications.Get("/preferences", notificationHandler.GetPreferences)
	notifications.Patch("/preferences", middleware.HasPermission(models.PermissionNotificationWrite), notificationHandler.UpdatePreferences)
	notifications.Post("/read-all", middleware.HasPermission(models.PermissionNotificationWrite), notificationHandler.MarkAllRead)
	notifications.Delete("/read", middleware.HasPermission(models.PermissionNotificationWrite), notificationHandler.ClearRead)
	notifications.Post("/:id/read", middleware.HasPermission(models.PermissionNotificationWrite), notificationHandler.MarkRead)
	notifications.Delete("/:id", middleware.HasPermission(models.PermissionNotificationWrite), notificationHandler.DeleteNotification)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/deposits/pending", adminHandler.PendingDeposits)
	admin.Post("/deposits/:id/approve", middleware.HasPermission(models.PermissionDepositApprove), adminHandler.ApproveDeposit)
	admin.Post("/deposits/:id/reject", middleware.HasPermission(models.PermissionDepositApprove), adminHandler.RejectDeposit)
	admin.Get("/accounts/:userId/reconcile", middleware.HasPermission(models.PermissionLedgerAudit), adminHandler.Reconcile)
	admin.Get("/deliveries", middleware.HasPermission(models.PermissionLedgerAudit), adminHandler.ListDeliveries)
}
