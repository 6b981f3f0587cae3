package dto

import (
	"time"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/service"
)

// LineItemPayload mirrors one cart line sent at checkout.
type LineItemPayload struct {
	Name     string  `json:"name" validate:"required"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// ContactDetailsPayload is the purchaser snapshot.
type ContactDetailsPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type PaymentPayload struct {
	Method        string `json:"method"`
	Status        string `json:"status,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

// OrderCreateRequest payload for checkout.
type OrderCreateRequest struct {
	Items           []LineItemPayload      `json:"items" validate:"dive"`
	Total           float64                `json:"total" validate:"gte=0"`
	DeliveryAddress string                 `json:"deliveryAddress"`
	UserDetails     *ContactDetailsPayload `json:"userDetails"`
	Payment         *PaymentPayload        `json:"payment"`
}

// ToInput converts the payload for the order service.
func (r OrderCreateRequest) ToInput() service.OrderCreateInput {
	in := service.OrderCreateInput{
		Items:           make([]domain.LineItem, 0, len(r.Items)),
		Total:           r.Total,
		DeliveryAddress: r.DeliveryAddress,
	}
	for _, item := range r.Items {
		in.Items = append(in.Items, domain.LineItem{
			Name:     item.Name,
			Size:     item.Size,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	if r.UserDetails != nil {
		in.UserDetails = &service.ContactOverride{
			Name:    r.UserDetails.Name,
			Email:   r.UserDetails.Email,
			Phone:   r.UserDetails.Phone,
			Address: r.UserDetails.Address,
		}
	}
	if r.Payment != nil {
		in.Payment = &domain.Payment{
			Method:        r.Payment.Method,
			Status:        domain.PaymentStatus(r.Payment.Status),
			TransactionID: r.Payment.TransactionID,
		}
	}
	return in
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignCourierRequest names the delivery person.
type AssignCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CourierPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// OrderResponse carries the id twice: the storefront reads _id, newer
// clients read id.
type OrderResponse struct {
	MongoID           string                `json:"_id"`
	ID                string                `json:"id"`
	User              string                `json:"user"`
	UserDetails       ContactDetailsPayload `json:"userDetails"`
	Items             []LineItemPayload     `json:"items"`
	Total             float64               `json:"total"`
	DeliveryAddress   string                `json:"deliveryAddress"`
	Status            domain.OrderStatus    `json:"status"`
	CancelReason      string                `json:"cancelReason,omitempty"`
	DeliveryBoy       *CourierPayload       `json:"deliveryBoy,omitempty"`
	Payment           *PaymentPayload       `json:"payment,omitempty"`
	OrderDate         time.Time             `json:"orderDate"`
	EstimatedDelivery time.Time             `json:"estimatedDelivery"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		MongoID: o.ID,
		ID:      o.ID,
		User:    o.UserID,
		UserDetails: ContactDetailsPayload{
			Name:    o.UserDetails.Name,
			Email:   o.UserDetails.Email,
			Phone:   o.UserDetails.Phone,
			Address: o.UserDetails.Address,
		},
		Items:             make([]LineItemPayload, 0, len(o.Items)),
		Total:             o.Total,
		DeliveryAddress:   o.DeliveryAddress,
		Status:            o.Status,
		CancelReason:      o.CancelReason,
		OrderDate:         o.OrderDate,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, LineItemPayload{
			Name:     item.Name,
			Size:     item.Size,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	if o.DeliveryBoy != nil {
		resp.DeliveryBoy = &CourierPayload{Name: o.DeliveryBoy.Name, Phone: o.DeliveryBoy.Phone}
	}
	if o.Payment != nil {
		resp.Payment = &PaymentPayload{
			Method:        o.Payment.Method,
			Status:        string(o.Payment.Status),
			TransactionID: o.Payment.TransactionID,
		}
	}
	return resp
}

// NewOrderListResponse maps a slice, never returning null.
func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
