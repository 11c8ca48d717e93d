package utils

import (
	"errors"

	"advance/internal/models"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

var ErrNoClaims = errors.New("no user claims in request context")

// SetUserClaims stores verified claims for the rest of the handler chain.
func SetUserClaims(c *fiber.Ctx, claims *models.UserClaims) {
	c.Locals(claimsKey, claims)
	c.Locals("userID", claims.UserID)
}

// GetUserClaims returns the claims stored by the auth middleware. Claims
// without a user id are treated as missing.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals(claimsKey).(*models.UserClaims)
	if !ok || claims == nil || claims.UserID == 0 {
		return nil, ErrNoClaims
	}
	return claims, nil
}

func IsStaff(claims *models.UserClaims) bool {
	return claims != nil && claims.Role == models.RoleAdmin
}

// CanAccess reports whether claims may read a record owned by ownerID.
func CanAccess(claims *models.UserClaims, ownerID uint) bool {
	return claims != nil && (claims.UserID == ownerID || IsStaff(claims))
}
