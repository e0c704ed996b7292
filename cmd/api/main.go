package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/civic-report/internal/api/http"
	"github.com/spec-kit/civic-report/internal/api/http/handlers"
	"github.com/spec-kit/civic-report/internal/auth"
	"github.com/spec-kit/civic-report/internal/classify"
	"github.com/spec-kit/civic-report/internal/config"
	"github.com/spec-kit/civic-report/internal/events"
	"github.com/spec-kit/civic-report/internal/observability"
	"github.com/spec-kit/civic-report/internal/persistence"
	"github.com/spec-kit/civic-report/internal/service"
	"github.com/spec-kit/civic-report/internal/store"
	"github.com/spec-kit/civic-report/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, err := persistence.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer kv.Close()

	metrics := observability.NewMetrics()

	userStore, err := store.NewUserStore(ctx, kv, logger, metrics)
	if err != nil {
		logger.Fatal("failed to init user store", zap.Error(err))
	}
	complaintStore, err := store.NewComplaintStore(ctx, kv, logger, metrics)
	if err != nil {
		logger.Fatal("failed to init complaint store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	classifier := classify.NewClient(cfg.Classifier, logger)

	authService := service.NewAuthService(*cfg, userStore, dispatcher, logger)
	complaintService := service.NewComplaintService(complaintStore, userStore, classifier, dispatcher, metrics, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userStore)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, kv)
	usersHandler := handlers.NewUsersHandler(authService)
	complaintsHandler := handlers.NewComplaintsHandler(complaintService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Complaints:     complaintsHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
