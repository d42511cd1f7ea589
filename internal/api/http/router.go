package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-gateway/internal/api/http/handlers"
	"github.com/spec-kit/access-gateway/internal/auth"
	"github.com/spec-kit/access-gateway/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Gateway *handlers.GatewayHandler
	Guard   *auth.GuardMiddleware
	// Upstream receives every request the guard allows that no gateway route
	// handles. Nil leaves those requests to fiber's 404.
	Upstream fiber.Handler
}

// RegisterRoutes wires HTTP routes. The guard runs ahead of every route;
// which paths bypass it is decided by the access policy alone.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/register", cfg.Auth.Register)

	if cfg.Gateway != nil {
		app.Get("/admin/_gateway/decisions", auth.RequireRole(domain.RoleAdmin), cfg.Gateway.Decisions)
	}

	if cfg.Upstream != nil {
		app.All("/*", cfg.Upstream)
	}
}
