package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/service"
)

// UsersHandler exposes account endpoints for customers.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     domain.RoleCustomer,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authResponse(result))
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password, false)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(result))
}

// Profile handles GET /auth/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	user, err := h.auth.GetProfile(c.UserContext(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProfileResponse{User: dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /auth/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), caller.UserID, req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.ProfileResponse{User: dto.NewUserResponse(user)})
}

// ForgotPassword handles POST /auth/forgot-password. The answer is the same
// whether or not the address is registered.
func (h *UsersHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "If that email is registered, a reset link has been sent"})
}

// ResetPassword handles POST /auth/reset-password/:token.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password has been reset"})
}

// ChangePassword handles POST /auth/change-password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), caller.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated"})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:      dto.NewUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}
}
