package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/scouting-system/config"
	"github.com/Dosada05/scouting-system/db"
	"github.com/Dosada05/scouting-system/handlers"
	"github.com/Dosada05/scouting-system/realtime"
	"github.com/Dosada05/scouting-system/repositories"
	api "github.com/Dosada05/scouting-system/routes"
	"github.com/Dosada05/scouting-system/services"
	"github.com/Dosada05/scouting-system/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.Migrate(ctx, dbConn); err != nil {
		logger.Error("failed to apply database schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	// Хранилище фото глобальных записей (Cloudflare R2); без настроек загрузка отключена
	uploader := storage.NewDisabledUploader()
	if cfg.R2.Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Warn("R2 settings are incomplete, photo uploads are disabled")
	}

	var mailer services.Mailer
	if cfg.SMTP.Enabled() {
		mailer = services.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Warn("SMTP settings are incomplete, invite links must be shared manually")
	}

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub()
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	globalRepo := repositories.NewPostgresGlobalPlayerRepository(dbConn)
	formSettingsRepo := repositories.NewPostgresFormSettingsRepository(dbConn)

	// Инициализация сервисов
	sessions := services.NewSessionStore()
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	inviteService := services.NewInviteService(inviteRepo, userRepo, authService, services.NewSQLTxRunner(dbConn), mailer, cfg.PublicURL, logger)
	adminUserService := services.NewAdminUserService(userRepo, sessions)
	duplicateService := services.NewDuplicateService(playerRepo, globalRepo, userRepo, sessions, wsHub, logger)
	globalPlayerService := services.NewGlobalPlayerService(globalRepo, userRepo, uploader, logger)
	formSettingsService := services.NewFormSettingsService(formSettingsRepo)
	logger.Info("Services initialized")

	// Фоновые задачи
	go runPeriodic(ctx, logger, "duplicate drift sweep", cfg.DriftSweepInterval, func(ctx context.Context) error {
		n, err := duplicateService.SweepDrift(ctx)
		if err == nil && n > 0 {
			logger.Warn("duplicate groups need repair", slog.Int("drift", n))
		}
		return err
	})
	go runPeriodic(ctx, logger, "expired invite cleanup", cfg.InviteSweepInterval, func(ctx context.Context) error {
		n, err := inviteService.DeleteExpired(ctx)
		if err == nil && n > 0 {
			logger.Info("expired invites deleted", slog.Int64("count", n))
		}
		return err
	})

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		Invites:       handlers.NewInviteHandler(inviteService),
		Users:         handlers.NewAdminUserHandler(adminUserService),
		Duplicates:    handlers.NewDuplicateHandler(duplicateService),
		GlobalPlayers: handlers.NewGlobalPlayerHandler(globalPlayerService),
		Settings:      handlers.NewSettingsHandler(formSettingsService),
		WebSocket:     handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins),
	}, cfg.JWTSecretKey, cfg.CORSAllowedOrigins)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			cancel()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

// runPeriodic запускает fn сразу и затем по тикеру, пока не отменен ctx.
// Нулевой интервал отключает задачу.
func runPeriodic(ctx context.Context, logger *slog.Logger, name string, interval time.Duration, fn func(context.Context) error) {
	if interval <= 0 {
		logger.Info("scheduler disabled", slog.String("task", name))
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("scheduler started", slog.String("task", name), slog.Duration("interval", interval))

	if err := fn(ctx); err != nil {
		logger.Error("scheduler: initial run failed", slog.String("task", name), slog.Any("error", err))
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				logger.Error("scheduler: periodic run failed", slog.String("task", name), slog.Any("error", err))
			}
		}
	}
}
