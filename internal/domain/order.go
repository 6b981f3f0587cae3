package domain

import "time"

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// EstimatedDeliveryWindow is added to the order time to produce the delivery ETA.
const EstimatedDeliveryWindow = 45 * time.Minute

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPreparing, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further progress is expected. Nothing blocks
// an administrator from moving a terminal order elsewhere.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PaymentStatus enumerates payment states recorded on an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ContactDetails is the purchaser snapshot taken when the order is placed.
type ContactDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// LineItem is one product/size/quantity/price entry of an order.
type LineItem struct {
	Name     string
	Size     string
	Quantity int
	Price    float64
}

// Courier identifies the person delivering an order.
type Courier struct {
	Name  string
	Phone string
}

// Payment records how an order was or will be paid.
type Payment struct {
	Method        string
	Status        PaymentStatus
	TransactionID string
}

// Order is the aggregate for a checkout.
type Order struct {
	ID                string
	UserID            string
	UserDetails       ContactDetails
	Items             []LineItem
	Total             float64
	DeliveryAddress   string
	Status            OrderStatus
	CancelReason      string
	DeliveryBoy       *Courier
	Payment           *Payment
	OrderDate         time.Time
	EstimatedDelivery time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ItemsTotal sums price × quantity over the line items. The stored Total is
// whatever the client sent; this is only used for logging discrepancies.
func (o *Order) ItemsTotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}
