package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// Web UI
	app.Get("/", handler.Index)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Post("/resolve", handler.Resolve)
		api.Post("/find", handler.Find)
	}
}
