package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/pizza-service/internal/domain"
)

// CartRepository keeps each user's cart in Redis as a JSON blob.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

type cartLineRecord struct {
	PizzaID  int    `json:"pizzaId"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type cartRecord struct {
	Lines     []cartLineRecord `json:"lines"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository stores carts with the given expiry; every save refreshes it.
func NewCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &cartRepository{client: client, ttl: ttl}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get returns an empty cart when nothing is stored for the user.
func (r *cartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	const op = "repository.cart.Get"
	cart := &domain.Cart{UserID: userID, Lines: []domain.CartLine{}}

	raw, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rec cartRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, l := range rec.Lines {
		cart.Lines = append(cart.Lines, domain.CartLine{
			PizzaID:  l.PizzaID,
			Name:     l.Name,
			Size:     l.Size,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}
	cart.UpdatedAt = rec.UpdatedAt
	return cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	const op = "repository.cart.Save"
	if len(cart.Lines) == 0 {
		return r.Delete(ctx, cart.UserID)
	}

	cart.UpdatedAt = time.Now().UTC()
	rec := cartRecord{Lines: make([]cartLineRecord, 0, len(cart.Lines)), UpdatedAt: cart.UpdatedAt}
	for _, l := range cart.Lines {
		rec.Lines = append(rec.Lines, cartLineRecord{
			PizzaID:  l.PizzaID,
			Name:     l.Name,
			Size:     l.Size,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.client.Set(ctx, cartKey(cart.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("repository.cart.Delete: %w", err)
	}
	return nil
}
