package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits for the search surface.
const (
	MaxGenreLen     = 64
	MaxPlatformLen  = 32
	MaxSessionIDLen = 64
)

var (
	// sessionIDRe matches the UUID-v4 session IDs minted by the session
	// materializer (google/uuid's default String() form).
	sessionIDRe = regexp.MustCompile(`^[0-9a-fA-F-]+$`)
	// supportedPlatforms is the set of platform adapters this system
	// ships: only "youtube" (C6). Any other platform name fails validation
	// with "platform is not supported" rather than falling through to
	// YouTube.
	supportedPlatforms = map[string]bool{
		"youtube": true,
	}
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateGenre checks that a genre string is present and within limits.
// Genre is free text (it feeds query expansion, not a lookup table), so
// the only constraints are non-empty and a sane upper bound.
func ValidateGenre(genre string) (string, string) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return "", "genre is required"
	}
	if len(genre) > MaxGenreLen {
		return "", "genre must be at most 64 characters"
	}
	return genre, ""
}

// ValidatePlatform checks that platform names a supported adapter.
func ValidatePlatform(platform string) (string, string) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		return "", "platform is required"
	}
	if len(platform) > MaxPlatformLen {
		return "", "platform must be at most 32 characters"
	}
	if !supportedPlatforms[platform] {
		return "", "platform is not supported"
	}
	return platform, ""
}

// ValidateSessionID checks that a session ID is well-formed.
func ValidateSessionID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "sessionId is required"
	}
	if len(id) > MaxSessionIDLen {
		return "", "sessionId must be at most 64 characters"
	}
	if !sessionIDRe.MatchString(id) {
		return "", "sessionId contains invalid characters"
	}
	return id, ""
}
