package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/certidao-digital/atendimento/internal/config"
	"github.com/certidao-digital/atendimento/pkg/util"
)

// HeaderAPIKey carries the shared secret on every authenticated request.
const HeaderAPIKey = "X-API-Key"

// APIKeyMiddleware enforces the shared-secret gate.
type APIKeyMiddleware struct {
	key []byte
}

// NewAPIKeyMiddleware constructs middleware from the configured secret.
func NewAPIKeyMiddleware(cfg config.AuthConfig) *APIKeyMiddleware {
	return &APIKeyMiddleware{key: []byte(cfg.APIKey)}
}

// Handle rejects requests without a matching API key.
func (m *APIKeyMiddleware) Handle(c *fiber.Ctx) error {
	provided := c.Get(HeaderAPIKey)
	if provided == "" {
		return util.NewUnauthorized("missing api key")
	}
	if subtle.ConstantTimeCompare([]byte(provided), m.key) != 1 {
		return util.NewUnauthorized("invalid api key")
	}
	return c.Next()
}
