package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/heliodash/heliodash/internal/config"
	"github.com/heliodash/heliodash/internal/display"
	"github.com/heliodash/heliodash/internal/handlers"
	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/middleware"
	"github.com/heliodash/heliodash/internal/series"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, acc *series.Accumulator, cfg config.Config, version string) *handlers.Handler {
	opts := display.Options{
		HighExportWatts: cfg.Display.HighExportWatts,
		MaxChartPoints:  cfg.Display.MaxChartPoints,
	}
	h := handlers.New(logger, acc, opts, version)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check and metrics (no auth required)
	app.Get("/health", h.Health)

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key when enabled)
	v1 := app.Group("/v1", authMiddleware)
	v1.Get("/snapshot", h.Snapshot)
	v1.Get("/readings", h.Readings)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, acc *series.Accumulator, cfg config.Config, version string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Heliodash",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, acc, cfg, version)

	return app
}
