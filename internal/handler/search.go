package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mfenderov/hermes-discovery/internal/middleware"
	"github.com/mfenderov/hermes-discovery/internal/model"
	"github.com/mfenderov/hermes-discovery/internal/search"
)

// SearchHandler serves the creator-discovery surface: run a search,
// paginate its materialized session, and page it with filters applied.
type SearchHandler struct {
	orchestrator *search.Orchestrator
}

func NewSearchHandler(o *search.Orchestrator) *SearchHandler {
	return &SearchHandler{orchestrator: o}
}

// searchRequest is POST /search's body.
type searchRequest struct {
	Platform string            `json:"platform"`
	Genre    string            `json:"genre"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Filters  map[string]string `json:"filters"`
}

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// Search handles POST /search.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	var req searchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	genre, errMsg := middleware.ValidateGenre(req.Genre)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Genre = genre

	if req.Platform == "" {
		req.Platform = "youtube"
	}
	platform, errMsg := middleware.ValidatePlatform(req.Platform)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Platform = platform

	req.Page, req.PageSize = normalizePaging(req.Page, req.PageSize)

	result, err := h.orchestrator.Run(c.Context(), req.Genre, req.Platform, req.Page, req.PageSize)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Search failed")
	}
	Metrics.SearchRequestsTotal.WithLabelValues(strconv.FormatBool(result.FromCache)).Inc()

	return c.JSON(fiber.Map{
		"sessionId":         result.Session.SessionID,
		"results":           result.Page.Results,
		"channelResults":    result.Page.Results,
		"totalResults":      result.Page.TotalResults,
		"currentPage":       result.Page.CurrentPage,
		"totalPages":        result.Page.TotalPages,
		"fromCache":         result.FromCache,
		"externalUnitsUsed": result.ExternalUnitsUsed,
		"queryInfo": fiber.Map{
			"genre":           req.Genre,
			"normalizedQuery": result.Session.NormalizedQuery,
			"platform":        result.Session.Platform,
		},
	})
}

// GetSession handles GET /search/session/{sessionId}.
func (h *SearchHandler) GetSession(c fiber.Ctx) error {
	sessionID, errMsg := middleware.ValidateSessionID(c.Params("sessionId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	page, pageSize := normalizePaging(queryInt(c, "page", defaultPage), queryInt(c, "pageSize", defaultPageSize))
	sortKey := model.ParseSortKey(c.Query("sortBy"))

	page_, err := h.orchestrator.PaginateSession(c.Context(), sessionID, page, pageSize, sortKey)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read session")
	}
	if page_.Missing {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Session not found")
	}
	if page_.Expired {
		return middleware.ErrorResponse(c, fiber.StatusGone, "SESSION_EXPIRED", "Session has expired")
	}

	return c.JSON(page_)
}

// GetSessionFiltered handles GET /search/session/{sessionId}/filtered.
func (h *SearchHandler) GetSessionFiltered(c fiber.Ctx) error {
	sessionID, errMsg := middleware.ValidateSessionID(c.Params("sessionId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	page, pageSize := normalizePaging(queryInt(c, "page", defaultPage), queryInt(c, "pageSize", defaultPageSize))
	sortKey := model.ParseSortKey(c.Query("sortBy"))

	criteria := model.FilterCriteria{
		Audience:        splitCSV(c.Query("audience")),
		Engagement:      splitCSV(c.Query("engagement")),
		Competitiveness: splitCSV(c.Query("competitiveness")),
		Activity:        splitCSV(c.Query("activity")),
		Genres:          splitCSV(c.Query("genres")),
	}

	page_, err := h.orchestrator.PaginateSessionFiltered(c.Context(), sessionID, page, pageSize, sortKey, criteria)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read session")
	}
	if page_.Missing {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Session not found")
	}
	if page_.Expired {
		return middleware.ErrorResponse(c, fiber.StatusGone, "SESSION_EXPIRED", "Session has expired")
	}

	return c.JSON(page_)
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func queryInt(c fiber.Ctx, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
