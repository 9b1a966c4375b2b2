package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/models"
)

// MinAPIKeyLength is the minimum accepted length for a configured API key.
const MinAPIKeyLength = 32

// ValidateAPIKey reports whether a configured key is usable: long enough
// and not blank.
func ValidateAPIKey(key string) bool {
	return len(key) >= MinAPIKeyLength && strings.TrimSpace(key) != ""
}

// requestKey pulls the presented API key out of the request. X-API-Key
// wins; otherwise the Authorization header, with or without a Bearer
// prefix.
func requestKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}

	auth := c.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return auth
}

// APIKeyAuth gates requests on a configured API key. Keys failing
// ValidateAPIKey are dropped at construction, so a weak key can never
// authenticate even if it appears in the config.
func APIKeyAuth(logger *logging.Logger, apiKeys []string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	allowed := make(map[string]bool, len(apiKeys))
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("Rejecting configured API key",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key),
			)
			continue
		}
		allowed[key] = true
	}

	if len(allowed) == 0 && len(apiKeys) > 0 {
		logger.Error("No usable API keys; every request will be rejected",
			"configured", len(apiKeys),
			"min_required_length", MinAPIKeyLength,
		)
	}

	unauthorized := func(c *fiber.Ctx, message string) error {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UNAUTHORIZED",
				Message: message,
			},
		})
	}

	return func(c *fiber.Ctx) error {
		key := requestKey(c)
		if key == "" {
			logger.Warn("API key missing",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
			)
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}

		if !allowed[key] {
			logger.Warn("Invalid API key",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
				"api_key_prefix", maskAPIKey(key),
			)
			return unauthorized(c, "Invalid API key.")
		}

		return c.Next()
	}
}

// maskAPIKey keeps only the first 4 characters for log output.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
