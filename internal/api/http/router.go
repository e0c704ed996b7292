package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report/internal/api/http/handlers"
	"github.com/spec-kit/civic-report/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/departments", cfg.Complaints.ListDepartments)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.Users.Logout)
	authGroup.Post("/users/import", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Users.ImportUsers)
	authGroup.Get("/users/export", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Users.ExportUsers)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/mine", cfg.Complaints.ListMine)
	complaints.Get("/", auth.RequireGovernment(), cfg.Complaints.ListForDepartment)
	complaints.Get("/department/:code", auth.RequireGovernment(), cfg.Complaints.ListForDepartment)
	complaints.Patch("/:id", auth.RequireGovernment(), cfg.Complaints.Update)
	complaints.Delete("/:id", auth.RequireGovernment(), cfg.Complaints.Delete)
}
