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

	httptransport "github.com/spec-kit/access-gateway/internal/api/http"
	"github.com/spec-kit/access-gateway/internal/api/http/handlers"
	"github.com/spec-kit/access-gateway/internal/auth"
	"github.com/spec-kit/access-gateway/internal/config"
	"github.com/spec-kit/access-gateway/internal/events"
	"github.com/spec-kit/access-gateway/internal/observability"
	"github.com/spec-kit/access-gateway/internal/persistence"
	"github.com/spec-kit/access-gateway/internal/ratelimit"
	"github.com/spec-kit/access-gateway/internal/repository"
	"github.com/spec-kit/access-gateway/internal/service"
	"github.com/spec-kit/access-gateway/internal/worker"
	apperrors "github.com/spec-kit/access-gateway/pkg/util"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.PoolHandle())

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	policy, err := auth.NewPolicy(cfg.Policy)
	if err != nil {
		logger.Fatal("invalid access policy", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	limiter := ratelimit.NewLoginLimiter(redis.Client, cfg.Throttle.MaxAttempts, cfg.Throttle.Window())

	authService, err := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Limiter:    limiter,
		Events:     dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}

	cookie := auth.NewSessionCookie(cfg.Auth.CookieName, cfg.App.IsProduction(), time.Duration(cfg.Auth.CookieMaxAgeSeconds)*time.Second)
	guard := auth.NewGuardMiddleware(auth.NewGuard(tokens, policy), cookie, logger, metrics, dispatcher)

	var upstream fiber.Handler
	if cfg.Upstream.URL != "" {
		upstream, err = httptransport.NewUpstream(cfg.Upstream.URL)
		if err != nil {
			logger.Fatal("invalid upstream", zap.Error(err))
		}
		logger.Info("proxying authorized requests", zap.String("upstream", cfg.Upstream.URL))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: fallbackErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:     handlers.NewAuthHandler(authService, tokens, cookie),
		Gateway:  handlers.NewGatewayHandler(metrics),
		Guard:    guard,
		Upstream: upstream,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// fallbackErrorHandler renders errors that escape the middleware chain, such
// as fiber's own 404 for unrouted paths.
func fallbackErrorHandler(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}})
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
