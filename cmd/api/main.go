package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/projectfair/backend/internal/api/http"
	"github.com/projectfair/backend/internal/api/http/handlers"
	"github.com/projectfair/backend/internal/auth"
	"github.com/projectfair/backend/internal/config"
	"github.com/projectfair/backend/internal/events"
	"github.com/projectfair/backend/internal/observability"
	"github.com/projectfair/backend/internal/persistence"
	"github.com/projectfair/backend/internal/repository"
	"github.com/projectfair/backend/internal/service"
	"github.com/projectfair/backend/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, logger, cfg.Notification)

	pool := pg.PoolHandle()
	adminRepo := repository.NewAdminRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	codeRepo := repository.NewSecurityCodeRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	revocations := auth.NewRedisRevocationStore(redis.Client)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AdminRepo:         adminRepo,
		StudentRepo:       studentRepo,
		PasswordResetRepo: resetRepo,
		TokenManager:      tokens,
		Revocations:       revocations,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	adminService := service.NewAdminService(cfg.Auth, adminRepo)
	projectService := service.NewProjectService(projectRepo, adminRepo)
	codeService := service.NewSecurityCodeService(cfg.SecurityCodes, codeRepo, projectRepo)
	groupService := service.NewGroupService(service.GroupDependencies{
		Groups:     groupRepo,
		Projects:   projectRepo,
		Codes:      codeRepo,
		Students:   studentRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	if _, err := authService.EnsureDefaultAdmin(ctx, cfg.Auth.DefaultAdminEmail, cfg.Auth.DefaultAdminPassword); err != nil {
		logger.Fatal("failed to create default admin", zap.Error(err))
	}

	extractor := auth.NewExtractor(tokens, adminRepo, studentRepo, revocations, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Dependency{Name: "postgres", Pinger: pg},
			handlers.Dependency{Name: "redis", Pinger: redis},
		),
		Accounts:       handlers.NewAccountsHandler(authService),
		Admins:         handlers.NewAdminsHandler(adminService),
		Projects:       handlers.NewProjectsHandler(projectService),
		SecurityCodes:  handlers.NewSecurityCodesHandler(codeService),
		Groups:         handlers.NewGroupsHandler(groupService),
		AuthMiddleware: auth.NewAuthMiddleware(extractor, metrics),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
