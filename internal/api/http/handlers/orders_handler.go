package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/service"
)

// OrdersHandler manages order endpoints.
type OrdersHandler struct {
	service *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: orderService}
}

// CreateOrder POST /orders.
func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.OrderCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.UserContext(), caller, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// ListOrders GET /orders. Always the caller's own orders, admins included.
func (h *OrdersHandler) ListOrders(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListOrders(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderListResponse(orders))
}

// DeleteOrder DELETE /orders/:id.
func (h *OrdersHandler) DeleteOrder(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteOrder(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Order deleted successfully"})
}

// CancelOrder PATCH /orders/:id/cancel.
func (h *OrdersHandler) CancelOrder(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.CancelOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.CancelOrder(c.UserContext(), caller, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// UpdateStatus PATCH /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.UpdateStatus(c.UserContext(), caller, c.Params("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// AssignCourier PATCH /orders/:id/delivery-boy.
func (h *OrdersHandler) AssignCourier(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.AssignCourierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.AssignDeliveryCourier(c.UserContext(), caller, c.Params("id"), req.Name, req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(order))
}
