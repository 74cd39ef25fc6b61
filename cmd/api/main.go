package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/claims-service/internal/api/http"
	"github.com/spec-kit/claims-service/internal/api/http/handlers"
	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/config"
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/observability"
	"github.com/spec-kit/claims-service/internal/persistence"
	"github.com/spec-kit/claims-service/internal/repository"
	"github.com/spec-kit/claims-service/internal/service"
	"github.com/spec-kit/claims-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	claimRepo := repository.NewClaimRepository(pool)
	evidenceRepo := repository.NewEvidenceRepository(pool)
	historyRepo := repository.NewClaimHistoryRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	claimService := service.NewClaimService(service.ClaimDependencies{
		ClaimRepo:    claimRepo,
		EvidenceRepo: evidenceRepo,
		HistoryRepo:  historyRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	paymentService := service.NewPaymentService(paymentRepo)
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:    userRepo,
		ClaimRepo:   claimRepo,
		PaymentRepo: paymentRepo,
		Cache:       redis.Client,
		SummaryTTL:  cfg.Redis.SummaryTTL(),
		Logger:      logger,
	})
	employeeService := service.NewEmployeeService(employeeRepo, cfg.Auth.BcryptCost)
	notificationService := service.NewNotificationService(cfg.Notification, adminService, logger)
	worker.StartNotificationWorker(notificationService, dispatcher)

	if err := authService.SeedAdmin(ctx, cfg.Seed, logger); err != nil {
		logger.Fatal("failed to seed admin user", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Claims:         handlers.NewClaimsHandler(claimService),
		Surveyors:      handlers.NewSurveyorsHandler(adminService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Admin:          handlers.NewAdminHandler(adminService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
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
