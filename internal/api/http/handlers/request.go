package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/service"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// bindAndValidate parses a JSON body into req and checks its validate tags.
// An empty body leaves req zeroed.
func bindAndValidate(c *fiber.Ctx, req any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	return dto.Validate(req)
}

func callerFrom(c *fiber.Ctx) (service.Caller, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Caller{}, apperrors.NewUnauthorized("Access token required")
	}
	return service.Caller{UserID: principal.UserID, Role: principal.Role}, nil
}
