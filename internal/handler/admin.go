package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mfenderov/hermes-discovery/internal/cache"
	"github.com/mfenderov/hermes-discovery/internal/feature"
	"github.com/mfenderov/hermes-discovery/internal/governor"
	"github.com/mfenderov/hermes-discovery/internal/platform"
	"github.com/mfenderov/hermes-discovery/internal/session"
)

// AdminHandler exposes the operator-facing surface: aggregate usage
// stats, resolved feature flags, and the one mutating operation this
// system allows from outside the search path — a manual cache clear.
type AdminHandler struct {
	tokens       *governor.TokenGovernor
	quota        *governor.QuotaGovernor
	queryDigest  *cache.QueryDigestCache
	materializer *session.Materializer
	features     *feature.Registry
	adapter      *platform.YouTubeAdapter
}

func NewAdminHandler(
	tokens *governor.TokenGovernor,
	quota *governor.QuotaGovernor,
	queryDigest *cache.QueryDigestCache,
	materializer *session.Materializer,
	features *feature.Registry,
	adapter *platform.YouTubeAdapter,
) *AdminHandler {
	return &AdminHandler{
		tokens:       tokens,
		quota:        quota,
		queryDigest:  queryDigest,
		materializer: materializer,
		features:     features,
		adapter:      adapter,
	}
}

// GetStats handles GET /admin/stats, aggregating every governor/cache/
// session counter this system tracks into one snapshot.
func (h *AdminHandler) GetStats(c fiber.Ctx) error {
	sessionStats, err := h.materializer.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to fetch session statistics",
			},
		})
	}

	return c.JSON(fiber.Map{
		"llmUsage":            h.tokens.Stats(),
		"platformQuota":       h.quota.Stats(),
		"queryDigestHitRatio": h.queryDigest.HitRatio(),
		"sessions":            sessionStats,
	})
}

// GetFeatures handles GET /admin/features, returning the state every
// flag was resolved to at startup.
func (h *AdminHandler) GetFeatures(c fiber.Ctx) error {
	return c.JSON(h.features.StatusSummary())
}

// ClearCache handles POST /admin/cache/clear: drops the in-process
// channel-metadata cache and sweeps expired sessions.
func (h *AdminHandler) ClearCache(c fiber.Ctx) error {
	h.adapter.ClearChannelCache()

	swept, err := h.materializer.Sweep(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to sweep expired sessions",
			},
		})
	}

	return c.JSON(fiber.Map{
		"channelCacheCleared": true,
		"sessionsSwept":       swept,
	})
}
