package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/fundbridge/fundbridge/application/usecase"
	"github.com/fundbridge/fundbridge/infrastructure/adapter/postgres"
	"github.com/fundbridge/fundbridge/infrastructure/config"
	"github.com/fundbridge/fundbridge/infrastructure/http/handler"
	"github.com/fundbridge/fundbridge/infrastructure/http/middleware"
	"github.com/fundbridge/fundbridge/infrastructure/service/jwt"
	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
	"github.com/fundbridge/fundbridge/infrastructure/service/password"
	"github.com/fundbridge/fundbridge/infrastructure/service/ratelimit"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "fundbridge",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":                cfg.Environment,
		"approval_threshold": cfg.ApprovalThreshold.String(),
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	// Repositories and the transaction boundary
	txManager := postgres.NewTxManager(db)
	accountRepo := postgres.NewAccountRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	approvalRepo := postgres.NewApprovalRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)

	// Services
	tokenService, err := jwt.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}
	passwordService := password.NewBcryptService(10)

	limiter, err := ratelimit.NewService(ratelimit.Config{
		Enabled:  cfg.RateLimitEnabled,
		RedisURL: cfg.RedisURL,
		Limit:    cfg.RateLimitRequests,
		Window:   cfg.RateLimitWindow,
	}, structuredLogger)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize rate limiter, continuing without", err, nil)
		limiter, _ = ratelimit.NewService(ratelimit.Config{Enabled: false}, structuredLogger)
	}

	// Engine
	auditor := usecase.NewAuditRecorder(auditRepo, structuredLogger)
	balanceValidator := usecase.NewBalanceValidator(accountRepo)
	transferValidator := usecase.NewTransferValidator(accountRepo, balanceValidator)
	engine := usecase.NewTransferEngine(
		transferRepo, accountRepo, approvalRepo,
		transferValidator, auditor, txManager,
		structuredLogger, cfg.ApprovalThreshold,
	)
	processor := usecase.NewApprovalProcessor(
		transferRepo, approvalRepo, engine, auditor, txManager, structuredLogger,
	)
	authUseCase := usecase.NewAuthUseCase(operatorRepo, tokenService, passwordService, auditor, structuredLogger)

	// HTTP boundary
	authMw := middleware.NewAuthMiddleware(tokenService)
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter, structuredLogger, cfg.RateLimitRequests, cfg.RateLimitWindow)

	router := handler.NewRouter(
		handler.NewAuthHandler(authUseCase),
		handler.NewTransferHandler(engine, auditor),
		handler.NewApprovalHandler(processor),
		authMw,
		rateLimitMw,
	)

	var httpHandler http.Handler = middleware.CorrelationIDMiddleware(router)
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		httpHandler = middleware.CORSMiddleware(httpHandler, cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
