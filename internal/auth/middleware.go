package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectfair/backend/internal/observability"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

// AuthMiddleware runs the extractor on every request and stores the Principal.
type AuthMiddleware struct {
	extractor *Extractor
	metrics   *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(extractor *Extractor, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{extractor: extractor, metrics: metrics}
}

// Handle resolves credentials. Anonymous requests pass through for public routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.extractor.Extract(c.UserContext(), func(key string) string {
		return c.Get(key)
	})
	if err != nil {
		outcome := observability.AuthUnauthorized
		if apperrors.ToDomainError(err).HTTPStatus >= fiber.StatusInternalServerError {
			outcome = observability.AuthError
		}
		m.metrics.RecordAuthDecision("extract", outcome)
		return err
	}

	if principal == nil {
		m.metrics.RecordAuthDecision("extract", observability.AuthAnonymous)
		return c.Next()
	}

	m.metrics.RecordAuthDecision("extract", observability.AuthAllowed)
	c.Locals(principalKey, principal)
	return c.Next()
}
