package domain

import "time"

// CartLine is a priced catalog entry sitting in a user's cart.
type CartLine struct {
	PizzaID  int
	Name     string
	Size     string
	Quantity int
	Price    int
}

// Cart is the per-user basket kept between sessions.
type Cart struct {
	UserID    string
	Lines     []CartLine
	UpdatedAt time.Time
}

// Total is the sum of price × quantity over all lines.
func (c *Cart) Total() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Price * line.Quantity
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}
