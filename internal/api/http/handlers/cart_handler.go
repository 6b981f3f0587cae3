package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/catalog"
	"github.com/spec-kit/pizza-service/internal/service"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// CartHandler serves the menu and the caller's cart.
type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{carts: cartService}
}

// Menu GET /menu?category=.
func (h *CartHandler) Menu(c *fiber.Ctx) error {
	return c.JSON(dto.MenuResponse{
		Pizzas:     catalog.Pizzas(c.Query("category")),
		Categories: catalog.Categories(),
		Sizes:      catalog.Sizes(),
	})
}

// Get GET /cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	cart, err := h.carts.Get(c.UserContext(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// AddItem POST /cart/items.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cart, err := h.carts.AddItem(c.UserContext(), caller.UserID, req.PizzaID, req.Size, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// UpdateItem PATCH /cart/items/:index.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return apperrors.NewValidationError("invalid item index", nil)
	}
	var req dto.UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cart, err := h.carts.UpdateQuantity(c.UserContext(), caller.UserID, index, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// RemoveItem DELETE /cart/items/:index.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return apperrors.NewValidationError("invalid item index", nil)
	}
	cart, err := h.carts.RemoveItem(c.UserContext(), caller.UserID, index)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// Clear DELETE /cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.carts.Clear(c.UserContext(), caller.UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
