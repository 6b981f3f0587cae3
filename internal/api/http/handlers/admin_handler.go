package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/service"
)

// AdminHandler exposes administrator auth and the store-wide order list.
type AdminHandler struct {
	auth   *service.AuthService
	orders *service.OrderService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, orderService *service.OrderService) *AdminHandler {
	return &AdminHandler{auth: authService, orders: orderService}
}

// Login handles POST /admin/login. Customer accounts get the same 401 as a
// wrong password.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password, true)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(result))
}

// Register handles POST /admin/register.
func (h *AdminHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      domain.RoleAdmin,
		AdminCode: req.AdminCode,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authResponse(result))
}

// ListOrders handles GET /admin/orders.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListAllOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderListResponse(orders))
}
