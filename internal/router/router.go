package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/mfenderov/hermes-discovery/internal/handler"
	"github.com/mfenderov/hermes-discovery/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Search *handler.SearchHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health checks (before API group, no auth needed)
	app.Get("/health", h.Health.Live)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	searchLimiter := middleware.NewSearchRateLimiter()
	sessionLimiter := middleware.NewSessionReadRateLimiter()
	adminLimiter := middleware.NewAdminRateLimiter()

	// Search routes
	app.Post("/search", searchLimiter.Handler(), h.Search.Search)
	app.Get("/search/session/:sessionId", sessionLimiter.Handler(), h.Search.GetSession)
	app.Get("/search/session/:sessionId/filtered", sessionLimiter.Handler(), h.Search.GetSessionFiltered)

	// Admin routes
	admin := app.Group("/admin", adminLimiter.Handler())
	admin.Get("/stats", h.Admin.GetStats)
	admin.Get("/features", h.Admin.GetFeatures)
	admin.Post("/cache/clear", h.Admin.ClearCache)
}
