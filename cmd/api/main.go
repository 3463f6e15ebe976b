package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beconsistent/consistent-api/internal/assistant"
	"github.com/beconsistent/consistent-api/internal/config"
	consistenthttp "github.com/beconsistent/consistent-api/internal/http"
	"github.com/beconsistent/consistent-api/internal/mail"
	"github.com/beconsistent/consistent-api/internal/repository"
	"github.com/beconsistent/consistent-api/internal/scheduler"
	"github.com/beconsistent/consistent-api/internal/service"
	"github.com/beconsistent/consistent-api/internal/verify"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"log_level", cfg.LogLevel,
	)

	// Database connection
	client, err := repository.NewDB(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("mongodb disconnect failed", "error", err)
		}
	}()
	logger.Info("database connected")

	db := client.Database(cfg.Mongo.Database)

	// Repositories
	taskRepo := repository.NewMongoTask(db)
	userRepo := repository.NewMongoUser(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// Mail transport
	mailer := mail.NewSMTPSender(
		cfg.SMTP.Host, cfg.SMTP.Port,
		cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
	)

	// Services
	taskSvc := service.NewTaskService(taskRepo)
	userSvc := service.NewUserService(userRepo, mailer, cfg.JWTSecret, cfg.BaseURL)
	verifySvc := verify.NewService(verify.NewCodeStore(), mailer)

	var assistantSvc *assistant.Service
	if cfg.Assistant.APIKey != "" {
		llm, err := assistant.NewClient(cfg.Assistant.APIKey, cfg.Assistant.BaseURL, cfg.Assistant.Model)
		if err != nil {
			return err
		}
		assistantSvc = assistant.NewService(llm, taskRepo)
		logger.Info("assistant initialized", "model", cfg.Assistant.Model)
	} else {
		logger.Warn("assistant not initialized: ASSISTANT_API_KEY not set")
	}

	// Scheduled notifier
	notifier := scheduler.NewNotifier(userRepo, taskRepo, mailer, logger)
	if err := notifier.Start(); err != nil {
		return err
	}
	defer notifier.Stop()

	// HTTP Server
	srv := consistenthttp.NewServer(cfg.ServerPort, logger, consistenthttp.RouterDeps{
		Tasks:     taskSvc,
		Users:     userSvc,
		Verify:    verifySvc,
		Assistant: assistantSvc,
		Mailer:    mailer,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
