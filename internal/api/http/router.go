package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ideationworks/ideation-api/internal/api/http/handlers"
	"github.com/ideationworks/ideation-api/internal/auth"
	"github.com/ideationworks/ideation-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.CategoriesHandler
	Organizations  *handlers.OrganizationsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Protected routes get the guard prepended
// here, at registration time.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	guard := cfg.AuthMiddleware.Handle

	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	users := app.Group("/users")
	users.Post("/login", cfg.Users.Login)
	users.Post("/register", cfg.Users.Register)
	users.Get("/my", guard, cfg.Users.My)

	categories := app.Group("/categories")
	categories.Get("/", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Post("/", guard, cfg.Categories.Create)
	categories.Put("/:id", guard, cfg.Categories.Update)
	categories.Delete("/:id", guard, cfg.Categories.Delete)

	orgs := app.Group("/organizations")
	orgs.Get("/", cfg.Organizations.List)
	orgs.Get("/:id", cfg.Organizations.Get)
	orgs.Post("/", guard, cfg.Organizations.Create)
	orgs.Put("/:id", guard, cfg.Organizations.Update)
	orgs.Delete("/:id", guard, cfg.Organizations.Delete)
}
