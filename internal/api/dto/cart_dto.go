package dto

import (
	"time"

	"github.com/spec-kit/pizza-service/internal/catalog"
	"github.com/spec-kit/pizza-service/internal/domain"
)

// AddCartItemRequest adds a catalog pizza in a given size.
type AddCartItemRequest struct {
	PizzaID  int    `json:"pizzaId" validate:"required"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	PizzaID  int    `json:"pizzaId"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

// CartResponse includes derived totals so the storefront does not recompute them.
type CartResponse struct {
	Items     []CartLineResponse `json:"items"`
	Total     int                `json:"total"`
	ItemCount int                `json:"itemCount"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}

func NewCartResponse(c *domain.Cart) CartResponse {
	resp := CartResponse{
		Items:     make([]CartLineResponse, 0, len(c.Lines)),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
	for _, line := range c.Lines {
		resp.Items = append(resp.Items, CartLineResponse{
			PizzaID:  line.PizzaID,
			Name:     line.Name,
			Size:     line.Size,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	if !c.UpdatedAt.IsZero() {
		updated := c.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// MenuResponse is the static catalog.
type MenuResponse struct {
	Pizzas     []catalog.Pizza `json:"pizzas"`
	Categories []string        `json:"categories"`
	Sizes      []catalog.Size  `json:"sizes"`
}
