package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/domain"
	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

// Authorize ensures the bound identity has one of the allowed roles. It must
// run after Authenticate.
func Authorize(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if !identity.Role.Valid() {
			return apperrors.NewForbidden("forbidden")
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("forbidden")
		}
		return c.Next()
	}
}

