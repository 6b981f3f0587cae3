package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/domain"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// RequireRole admits callers whose token carries one of roles. It must run
// after AuthMiddleware.Handle.
func RequireRole(roles ...domain.Role) fiber.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Access token required")
		}
		if _, ok := allowed[principal.Role]; !ok {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequireAdmin guards storefront management routes.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
