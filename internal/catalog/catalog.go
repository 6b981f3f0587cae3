// Package catalog holds the static menu and size-based pricing.
package catalog

import (
	"math"
	"strings"
)

// Pizza is a menu entry.
type Pizza struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
	Category    string   `json:"category"`
	Spicy       bool     `json:"spicy"`
	Vegetarian  bool     `json:"vegetarian"`
	Popular     bool     `json:"popular"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
}

// Size is a price variant applied on top of a pizza's base price.
type Size struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// DefaultSize is used when a cart line names no size.
const DefaultSize = "medium"

var pizzas = []Pizza{
	{
		ID:          1,
		Name:        "Margherita Classic",
		Description: "Traditional Italian pizza with fresh mozzarella, tomato sauce, and fresh basil",
		Price:       299,
		Image:       "🍕",
		Ingredients: []string{"Mozzarella", "Tomato Sauce", "Fresh Basil", "Olive Oil"},
		Category:    "Classic",
		Vegetarian:  true,
		Popular:     true,
		Rating:      4.8,
		Reviews:     156,
	},
	{
		ID:          2,
		Name:        "Pepperoni Supreme",
		Description: "Spicy pepperoni slices with melted cheese and tangy tomato sauce",
		Price:       399,
		Image:       "🍕",
		Ingredients: []string{"Pepperoni", "Mozzarella", "Tomato Sauce", "Oregano"},
		Category:    "Meat",
		Spicy:       true,
		Popular:     true,
		Rating:      4.9,
		Reviews:     203,
	},
	{
		ID:          3,
		Name:        "Veggie Delight",
		Description: "Fresh vegetables including bell peppers, mushrooms, onions, and olives",
		Price:       349,
		Image:       "🍕",
		Ingredients: []string{"Bell Peppers", "Mushrooms", "Onions", "Olives", "Mozzarella"},
		Category:    "Vegetarian",
		Vegetarian:  true,
		Rating:      4.6,
		Reviews:     98,
	},
	{
		ID:          4,
		Name:        "Chicken Tikka",
		Description: "Indian-inspired pizza with tender chicken tikka, onions, and coriander",
		Price:       449,
		Image:       "🍕",
		Ingredients: []string{"Chicken Tikka", "Onions", "Coriander", "Mozzarella", "Tikka Sauce"},
		Category:    "Fusion",
		Spicy:       true,
		Popular:     true,
		Rating:      4.7,
		Reviews:     134,
	},
	{
		ID:          5,
		Name:        "BBQ Chicken",
		Description: "Smoky BBQ sauce with grilled chicken, red onions, and cilantro",
		Price:       429,
		Image:       "🍕",
		Ingredients: []string{"Grilled Chicken", "BBQ Sauce", "Red Onions", "Cilantro", "Mozzarella"},
		Category:    "BBQ",
		Rating:      4.5,
		Reviews:     87,
	},
}

var categories = []string{"All", "Classic", "Meat", "Vegetarian", "Fusion", "BBQ"}

var sizes = []Size{
	{Key: "small", Name: "Small", Label: "S", Multiplier: 0.8},
	{Key: "medium", Name: "Medium", Label: "M", Multiplier: 1.0},
	{Key: "large", Name: "Large", Label: "L", Multiplier: 1.3},
}

// Pizzas returns the menu, optionally narrowed to one category.
// An empty category or "All" returns everything.
func Pizzas(category string) []Pizza {
	out := make([]Pizza, 0, len(pizzas))
	for _, p := range pizzas {
		if category == "" || strings.EqualFold(category, "All") || strings.EqualFold(category, p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the menu filters.
func Categories() []string {
	return append([]string(nil), categories...)
}

// Sizes lists the available size variants.
func Sizes() []Size {
	return append([]Size(nil), sizes...)
}

// FindPizza looks a pizza up by id.
func FindPizza(id int) (Pizza, bool) {
	for _, p := range pizzas {
		if p.ID == id {
			return p, true
		}
	}
	return Pizza{}, false
}

// FindSize looks a size up by key or display name.
func FindSize(key string) (Size, bool) {
	if key == "" {
		key = DefaultSize
	}
	for _, s := range sizes {
		if strings.EqualFold(s.Key, key) || strings.EqualFold(s.Name, key) {
			return s, true
		}
	}
	return Size{}, false
}

// Price is the rounded unit price of a pizza in the given size.
func Price(p Pizza, s Size) int {
	return int(math.Round(float64(p.Price) * s.Multiplier))
}
