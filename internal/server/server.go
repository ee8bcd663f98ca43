// Package server assembles the Fiber application: middleware, routes and
// the central error handler.
package server

import (
	"productapi/internal/config"
	"productapi/internal/handlers"
	"productapi/internal/metrics"
	"productapi/internal/middleware"
	"productapi/internal/models"
	"productapi/internal/services"
	"productapi/internal/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// UploadsPath is where locally stored images are served from.
const UploadsPath = "/uploads"

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Config   *config.Config
	Products *services.ProductService
	Auth     *services.AuthService

	// UploadsDir is served at UploadsPath when set.
	UploadsDir string
}

// NewApp builds the Fiber app with every route mounted under /api/v1.
func NewApp(deps Deps) *fiber.App {
	cfg := deps.Config
	limits := upload.Limits{MaxFiles: cfg.UploadMaxFiles, MaxFileSize: cfg.UploadMaxFileSize}

	app := fiber.New(fiber.Config{
		AppName:      "productapi " + cfg.AppVersion,
		ErrorHandler: handlers.ErrorHandler,
		// Room for every attachment plus the form fields.
		BodyLimit: int(limits.MaxFileSize)*limits.MaxFiles + 1<<20,
	})

	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} [${locals:requestid}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(recover.New())

	app.Get("/metrics", metrics.Handler())
	if deps.UploadsDir != "" {
		app.Static(UploadsPath, deps.UploadsDir)
	}

	api := app.Group("/api/v1")
	handlers.NewHealthHandler(cfg.AppVersion).RegisterRoutes(api)
	handlers.NewAuthHandler(deps.Auth).RegisterRoutes(api)

	auth := middleware.AuthRequired(deps.Auth)
	handlers.NewProductHandler(deps.Products, limits).RegisterRoutes(api, auth, middleware.RequireRole(cfg.ProductWriteRoles...))
	handlers.NewAdminHandler(deps.Auth).RegisterRoutes(api, auth, middleware.RequireRole(models.RoleAdmin))

	return app
}
