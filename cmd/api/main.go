package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ideationworks/ideation-api/internal/api/http"
	"github.com/ideationworks/ideation-api/internal/api/http/handlers"
	"github.com/ideationworks/ideation-api/internal/auth"
	"github.com/ideationworks/ideation-api/internal/config"
	"github.com/ideationworks/ideation-api/internal/observability"
	"github.com/ideationworks/ideation-api/internal/persistence"
	"github.com/ideationworks/ideation-api/internal/repository"
	"github.com/ideationworks/ideation-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCachedCategoryRepository(
		repository.NewCategoryRepository(pool), redis.Handle(), cfg.Redis.CacheTTL(), logger)
	orgRepo := repository.NewOrganizationRepository(pool)

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL(),
	})
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	credentials := auth.NewBcryptCredentials(cfg.Auth.BcryptCost)

	authService, err := service.NewAuthService(service.AuthDependencies{
		Users:    userRepo,
		Verifier: credentials,
		Hasher:   credentials,
		Tokens:   tokens,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	principals := auth.NewPrincipalResolver(userRepo, metrics)
	authMiddleware := auth.NewAuthMiddleware(tokens, logger, metrics)

	readiness := map[string]handlers.Pinger{"postgres": pg}
	if redis.Enabled() {
		readiness["redis"] = redis
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Users:          handlers.NewUsersHandler(authService, principals),
		Categories:     handlers.NewCategoriesHandler(service.NewCategoryService(categoryRepo)),
		Organizations:  handlers.NewOrganizationsHandler(service.NewOrganizationService(orgRepo), principals),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
