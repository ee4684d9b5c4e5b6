package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers middleware and the API routes on the app.
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Use(recover.New())
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestIDToContextMiddleware())
	app.Use(RequestLoggerMiddleware())

	api := app.Group("/api")
	api.Get("/health", h.Health)
	api.Get("/activity", h.Activity)
	api.Get("/webfinger", h.Webfinger)
	api.Get("/resolve", h.Resolve)
	api.Get("/media", h.Media)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
