// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"advance/internal/config"
	"advance/internal/handlers"
	applogger "advance/internal/logger"
	"advance/internal/metrics"
	"advance/internal/repositories"
	"advance/internal/repositories/memory"
	"advance/internal/routes"
	"advance/internal/services/events"
	"advance/internal/services/scheduler"
	"advance/internal/services/staff"
	"advance/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 30 * time.Second
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Opens storage (postgres + Redis, or the in-memory store)
// - Wires the deposit, ledger and notification services
// - Starts the scheduled jobs and the HTTP server
func main() {
	// Load environment variables
	config.LoadEnv()
	settings := config.Load()

	zlog, err := applogger.New(settings.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	collector := metrics.New()
	infra := routes.Infra{Metrics: collector}
	checks := map[string]handlers.Check{}
	var poolStats handlers.PoolStatsFunc

	var stores repositories.Stores
	switch settings.Storage {
	case "memory":
		zlog.Warn("using in-memory storage; data is lost on restart")
		stores = memory.NewStore().Stores()
		seedMemoryAdmin(stores, settings, zlog)
	default:
		if err := repositories.InitDB(settings); err != nil {
			zlog.Fatal("failed to initialize database", zap.Error(err))
		}
		defer repositories.Close()

		sqlDB, err := repositories.DB.DB()
		if err != nil {
			zlog.Fatal("failed to get database instance", zap.Error(err))
		}
		if err := sqlDB.Ping(); err != nil {
			zlog.Fatal("failed to ping database", zap.Error(err))
		}
		zlog.Info("connected to database with connection pooling")
		go logPoolStats(sqlDB.Stats, zlog)

		checks["database"] = sqlDB.PingContext
		checks["redis"] = repositories.CacheService.HealthCheck
		poolStats = repositories.CacheService.GetStats

		infra.Cache = repositories.CacheService
		stores = repositories.NewPostgresStores(repositories.DB, repositories.CacheService)
	}

	var kafkaWriter *kafka.Writer
	if len(settings.Kafka.Brokers) > 0 {
		kafkaWriter = events.NewKafkaWriter(settings.Kafka.Brokers, settings.Kafka.DepositTopic)
		infra.Kafka = kafkaWriter
		zlog.Info("publishing deposit events to kafka",
			zap.Strings("brokers", settings.Kafka.Brokers),
			zap.String("topic", settings.Kafka.DepositTopic))
	}
	if !settings.SMTP.Configured() {
		zlog.Warn("SMTP not configured; email notifications will be skipped")
	}
	if !settings.SMS.Configured() {
		zlog.Warn("Africa's Talking not configured; SMS notifications will be skipped")
	}

	svc := routes.BuildServices(stores, infra, settings, zlog)

	sched := scheduler.NewScheduler(svc.Jobs, settings.Schedule, settings.Ledger.Location, zlog)
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{AppName: "advance " + version})

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/deposits", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	// Routes
	routes.SetupRoutes(app, svc, routes.Options{
		JWTSecret: settings.JWTSecret,
		Version:   version,
		Checks:    checks,
		PoolStats: poolStats,
		Metrics:   collector.Handler(),
	}, zlog)

	go func() {
		if err := app.Listen(":" + settings.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", settings.Port), zap.String("storage", settings.Storage))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		zlog.Error("http shutdown", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	select {
	case <-sched.Stop().Done():
	case <-ctx.Done():
		zlog.Warn("scheduled job still running at shutdown")
	}

	// Pending notifications finish before the connections close.
	svc.Bus.Close()
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			zlog.Error("failed to close kafka writer", zap.Error(err))
		}
	}
}

// seedMemoryAdmin creates the ADMIN_* staff account so that an in-memory
// server is usable, and logs a token for it.
func seedMemoryAdmin(stores repositories.Stores, settings config.Settings, zlog *zap.Logger) {
	email := config.GetEnv("ADMIN_EMAIL", "")
	if email == "" {
		zlog.Warn("ADMIN_EMAIL not set; the in-memory store starts without staff")
		return
	}

	user, _, err := staff.Seed(context.Background(), stores.Users, staff.Input{
		Name:     config.GetEnv("ADMIN_NAME", "Administrator"),
		Email:    email,
		Phone:    config.GetEnv("ADMIN_PHONE", ""),
		Password: config.GetEnv("ADMIN_PASSWORD", ""),
	})
	if err != nil {
		zlog.Fatal("failed to seed admin", zap.Error(err))
	}

	token, err := utils.GenerateAccessToken(user, settings.JWTSecret, 24*time.Hour)
	if err != nil {
		zlog.Fatal("failed to sign admin token", zap.Error(err))
	}
	zlog.Info("seeded in-memory admin",
		zap.String("email", user.Email),
		zap.String("token", token))
}

// logPoolStats reports connection pool usage every minute.
func logPoolStats(stats func() sql.DBStats, zlog *zap.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s := stats()
		zlog.Debug("db pool",
			zap.Int("open", s.OpenConnections),
			zap.Int("idle", s.Idle),
			zap.Int("in_use", s.InUse),
			zap.Int64("wait_count", s.WaitCount),
			zap.Duration("wait_duration", s.WaitDuration))
	}
}
