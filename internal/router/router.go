package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/team-mid/arcms-api/internal/config"
	"github.com/team-mid/arcms-api/internal/handler"
	"github.com/team-mid/arcms-api/internal/middleware"
	"github.com/team-mid/arcms-api/internal/observability"
	"github.com/team-mid/arcms-api/internal/session"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	AdminHandler   *handler.AdminHandler
	UploadHandler  *handler.UploadHandler
	SessionStore   *session.Store
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.ScrapeHandler())

	api := app.Group("/arcms/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.SessionStore != nil {
		api.Use(middleware.WithSession(deps.SessionStore))
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api)

		protected := api.Group("", middleware.RequireUser())
		deps.AuthHandler.RegisterProtected(protected)
	}

	if deps.ProfileHandler != nil {
		protected := api.Group("", middleware.RequireUser())
		deps.ProfileHandler.Register(protected)
	}

	if deps.UploadHandler != nil {
		protected := api.Group("", middleware.RequireUser())
		deps.UploadHandler.Register(protected)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", middleware.RequireAdmin())
		deps.AdminHandler.Register(admin)
	}
}
