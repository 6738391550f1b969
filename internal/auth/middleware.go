package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ideationworks/ideation-api/internal/observability"
	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

const subjectKey = "auth_subject_id"

// TokenVerifier is the part of TokenManager the guard needs.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware validates bearer tokens on protected routes.
type AuthMiddleware struct {
	tokens  TokenVerifier
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier, logger *zap.Logger, metrics *observability.Metrics) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger, metrics: metrics}
}

// Handle enforces authentication. On success the subject id is available via
// SubjectFromLocals and SubjectIDFromContext for the rest of the chain.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return m.deny(c, "missing_token", ErrUnauthenticated)
	}

	subjectID, err := m.tokens.Verify(token)
	if err != nil {
		return m.deny(c, "invalid_token", fmt.Errorf("%w: %w", ErrUnauthenticated, err))
	}

	c.Locals(subjectKey, subjectID)
	c.SetUserContext(ContextWithSubject(c.UserContext(), subjectID))
	return c.Next()
}

func (m *AuthMiddleware) deny(c *fiber.Ctx, reason string, cause error) error {
	m.metrics.RecordAuthFailure(reason)
	m.logger.Debug("request denied",
		zap.String("reason", reason),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	)
	return apperrors.NewUnauthorized(cause)
}

// bearerToken extracts the token from an Authorization header. A wrong scheme
// or an empty token is reported as absent.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// DenyError converts auth failures into the uniform access-denied response and
// leaves every other error to the generic mapping.
func DenyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrPrincipalNotFound) {
		return apperrors.NewUnauthorized(err)
	}
	return apperrors.MapError(err)
}
