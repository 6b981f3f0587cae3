package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/pizza-service/internal/domain"
)

// EventType enumerates supported event identifiers. Values double as AMQP
// routing keys.
type EventType string

const (
	EventOrderCreated         EventType = "order.created"
	EventOrderStatusChanged   EventType = "order.status_changed"
	EventOrderCancelled       EventType = "order.cancelled"
	EventOrderCourierAssigned EventType = "order.courier_assigned"
	EventOrderDeleted         EventType = "order.deleted"
)

// AllEventTypes lists every event the order workflow emits.
func AllEventTypes() []EventType {
	return []EventType{
		EventOrderCreated,
		EventOrderStatusChanged,
		EventOrderCancelled,
		EventOrderCourierAssigned,
		EventOrderDeleted,
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	OrderID   string    `json:"order_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, orderID string, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	UserID    string             `json:"user_id"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// OrderCancelledPayload payload.
type OrderCancelledPayload struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}

// OrderCourierAssignedPayload payload.
type OrderCourierAssignedPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
}

// OrderDeletedPayload payload.
type OrderDeletedPayload struct {
	UserID string `json:"user_id"`
}
