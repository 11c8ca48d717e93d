package main

import (
	"context"
	"log"
	"time"

	"advance/internal/config"
	applogger "advance/internal/logger"
	"advance/internal/repositories"
	"advance/internal/services/staff"
	"advance/internal/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	settings := config.Load()

	zlog, err := applogger.New(settings.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	in := staff.Input{
		Name:     config.GetEnv("ADMIN_NAME", "Administrator"),
		Email:    config.GetEnv("ADMIN_EMAIL", ""),
		Phone:    config.GetEnv("ADMIN_PHONE", ""),
		Password: config.GetEnv("ADMIN_PASSWORD", ""),
	}
	if in.Email == "" || in.Password == "" {
		zlog.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(settings); err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repositories.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	user, created, err := staff.Seed(ctx, users, in)
	if err != nil {
		zlog.Fatal("failed to seed admin", zap.Error(err))
	}
	if !created {
		zlog.Info("admin user already exists", zap.String("email", user.Email))
		return
	}

	if err := repositories.CacheService.InvalidateUser(ctx, user.ID); err != nil {
		zlog.Warn("failed to invalidate cached user", zap.Error(err))
	}

	token, err := utils.GenerateAccessToken(user, settings.JWTSecret, 24*time.Hour)
	if err != nil {
		zlog.Fatal("failed to sign admin token", zap.Error(err))
	}
	zlog.Info("admin account created",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("token", token))
}
