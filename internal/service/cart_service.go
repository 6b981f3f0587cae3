package service

import (
	"context"

	"github.com/spec-kit/pizza-service/internal/catalog"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/repository"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// CartService prices catalog entries into a per-user cart.
type CartService struct {
	carts repository.CartRepository
}

// NewCartService builds the service.
func NewCartService(carts repository.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// Get returns the caller's cart, empty if none is stored.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.Get(ctx, userID)
}

// AddItem adds quantity units of a pizza in a size, merging with an existing
// line for the same pizza and size.
func (s *CartService) AddItem(ctx context.Context, userID string, pizzaID int, sizeKey string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}
	pizza, ok := catalog.FindPizza(pizzaID)
	if !ok {
		return nil, apperrors.NewValidationError("Unknown pizza", map[string]any{"pizzaId": pizzaID})
	}
	size, ok := catalog.FindSize(sizeKey)
	if !ok {
		return nil, apperrors.NewValidationError("Unknown size", map[string]any{"size": sizeKey})
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].PizzaID == pizza.ID && cart.Lines[i].Size == size.Key {
			cart.Lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, domain.CartLine{
			PizzaID:  pizza.ID,
			Name:     pizza.Name,
			Size:     size.Key,
			Quantity: quantity,
			Price:    catalog.Price(pizza, size),
		})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of the line at index; zero or less
// removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, index, quantity int) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cart.Lines) {
		return nil, apperrors.NewNotFound("Cart item", nil)
	}
	if quantity <= 0 {
		cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	} else {
		cart.Lines[index].Quantity = quantity
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops the line at index.
func (s *CartService) RemoveItem(ctx context.Context, userID string, index int) (*domain.Cart, error) {
	return s.UpdateQuantity(ctx, userID, index, 0)
}

// Clear empties the caller's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Delete(ctx, userID)
}
