// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization middleware for the fiber
// web framework.
package middleware

import (
	"context"
	"strings"

	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserLookup resolves the user behind a token. The user repository
// satisfies it.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	secret string
	users  UserLookup
	log    *zap.Logger
}

// NewAuthMiddleware creates the middleware. When users is nil the token is
// trusted without checking the account's state.
func NewAuthMiddleware(secret string, users UserLookup, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: secret,
		users:  users,
		log:    logger.OrNop(log).Named("auth"),
	}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid signature and expiry
// - An active account whose token version matches the token
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), m.secret)
	if err != nil {
		m.log.Debug("token rejected", zap.Error(err))
		return utils.Unauthorized(c, "invalid token")
	}

	if m.users != nil {
		user, err := m.users.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			m.log.Info("token for unknown user", zap.Uint("user_id", claims.UserID), zap.Error(err))
			return utils.Unauthorized(c, "invalid token")
		}
		if !user.IsActive {
			return utils.Unauthorized(c, "account disabled")
		}
		if user.TokenVersion != claims.TokenVersion {
			m.log.Info("token version mismatch",
				zap.Uint("user_id", claims.UserID),
				zap.Int("token_version", claims.TokenVersion),
				zap.Int("current_version", user.TokenVersion))
			return utils.Unauthorized(c, "session expired")
		}
		// The stored role wins over a stale token.
		claims.Role = user.Role
	}

	utils.SetUserClaims(c, claims)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !utils.IsStaff(claims) {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "unauthorized")
		}

		// If user is admin, allow all permissions
		if utils.IsStaff(claims) || claims.HasPermission(permission) {
			return c.Next()
		}

		return utils.Forbidden(c, "insufficient permissions")
	}
}
