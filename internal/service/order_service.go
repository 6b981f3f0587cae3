package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/repository"
	"github.com/spec-kit/pizza-service/pkg/sanitize"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// OrderService coordinates order workflows.
type OrderService struct {
	orders     repository.OrderRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewOrderService builds the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:     deps.OrderRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// ContactOverride replaces individual fields of the purchaser snapshot.
// Empty fields keep the account's value.
type ContactOverride struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// OrderCreateInput describes checkout payload.
type OrderCreateInput struct {
	Items           []domain.LineItem
	Total           float64
	DeliveryAddress string
	UserDetails     *ContactOverride
	Payment         *domain.Payment
}

// CreateOrder places an order for the caller. Items and total are stored as
// sent.
func (s *OrderService) CreateOrder(ctx context.Context, caller Caller, in OrderCreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.NewValidationError("Order must contain at least one item", nil)
	}

	user, err := s.users.GetByID(ctx, caller.UserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	if err != nil {
		return nil, err
	}

	details := domain.ContactDetails{
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Address: user.Address,
	}
	if o := in.UserDetails; o != nil {
		details.Name = overlay(details.Name, o.Name)
		details.Email = overlay(details.Email, o.Email)
		details.Phone = overlay(details.Phone, o.Phone)
		details.Address = overlay(details.Address, o.Address)
	}
	details.Name = sanitize.Text(details.Name)
	details.Email = sanitize.Email(details.Email)
	details.Phone = sanitize.Text(details.Phone)
	details.Address = sanitize.Text(details.Address)

	deliveryAddress := sanitize.Text(in.DeliveryAddress)
	if strings.TrimSpace(deliveryAddress) == "" {
		deliveryAddress = details.Address
	}

	placed := s.now().UTC().Truncate(time.Millisecond)
	order := &domain.Order{
		UserID:            user.ID,
		UserDetails:       details,
		Items:             append([]domain.LineItem(nil), in.Items...),
		Total:             in.Total,
		DeliveryAddress:   deliveryAddress,
		Status:            domain.OrderStatusPreparing,
		OrderDate:         placed,
		EstimatedDelivery: placed.Add(domain.EstimatedDeliveryWindow),
		CreatedAt:         placed,
		UpdatedAt:         placed,
	}
	if in.Payment != nil {
		payment := *in.Payment
		if payment.Status == "" {
			payment.Status = domain.PaymentStatusPending
		}
		order.Payment = &payment
	}

	if sum := order.ItemsTotal(); math.Abs(sum-order.Total) > 0.005 {
		s.logger.Debug("order total differs from line items",
			zap.String("user_id", user.ID),
			zap.Float64("total", order.Total),
			zap.Float64("items_total", sum))
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	itemCount := 0
	for _, it := range order.Items {
		itemCount += it.Quantity
	}
	s.publish(ctx, events.EventOrderCreated, order.ID, caller, events.OrderCreatedPayload{
		UserID:    order.UserID,
		Email:     order.UserDetails.Email,
		Total:     order.Total,
		ItemCount: itemCount,
	})
	return order, nil
}

func overlay(base, override string) string {
	if strings.TrimSpace(override) == "" {
		return base
	}
	return override
}

// ListOrders returns the caller's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, caller Caller) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, caller.UserID)
}

// ListAllOrders returns every order, newest first.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// CancelOrder cancels one of the caller's orders. Delivered orders stay
// delivered.
func (s *OrderService) CancelOrder(ctx context.Context, caller Caller, orderID, reason string) (*domain.Order, error) {
	existing, err := s.orders.GetForUser(ctx, caller.UserID, orderID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("Order", nil)
	}
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.OrderStatusDelivered {
		return nil, apperrors.NewConflict("Delivered orders cannot be cancelled", map[string]any{"status": existing.Status})
	}

	reason = strings.TrimSpace(sanitize.Text(reason))
	order, err := s.orders.CancelForUser(ctx, caller.UserID, orderID, reason)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// delivered (or deleted) between the read and the write
		return nil, apperrors.NewConflict("Order can no longer be cancelled", nil)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventOrderCancelled, order.ID, caller, events.OrderCancelledPayload{
		UserID: order.UserID,
		Reason: reason,
	})
	return order, nil
}

// DeleteOrder removes one of the caller's orders regardless of status.
func (s *OrderService) DeleteOrder(ctx context.Context, caller Caller, orderID string) error {
	err := s.orders.DeleteForUser(ctx, caller.UserID, orderID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NewNotFound("Order", nil)
	}
	if err != nil {
		return err
	}
	s.publish(ctx, events.EventOrderDeleted, orderID, caller, events.OrderDeletedPayload{UserID: caller.UserID})
	return nil
}

// UpdateStatus sets any of the known statuses; there is no transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, caller Caller, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status", map[string]any{
			"allowed": []domain.OrderStatus{
				domain.OrderStatusPreparing,
				domain.OrderStatusOutForDelivery,
				domain.OrderStatusDelivered,
				domain.OrderStatusCancelled,
			},
		})
	}

	existing, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("Order", nil)
	}
	if err != nil {
		return nil, err
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("Order", nil)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventOrderStatusChanged, order.ID, caller, events.OrderStatusChangedPayload{
		UserID:    order.UserID,
		OldStatus: existing.Status,
		NewStatus: order.Status,
	})
	return order, nil
}

// AssignDeliveryCourier overwrites the courier on an order.
func (s *OrderService) AssignDeliveryCourier(ctx context.Context, caller Caller, orderID, name, phone string) (*domain.Order, error) {
	courier := domain.Courier{
		Name:  strings.TrimSpace(sanitize.Text(name)),
		Phone: strings.TrimSpace(sanitize.Text(phone)),
	}
	if courier.Name == "" {
		return nil, apperrors.NewValidationError("Delivery person name is required", nil)
	}

	order, err := s.orders.SetCourier(ctx, orderID, courier)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("Order", nil)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventOrderCourierAssigned, order.ID, caller, events.OrderCourierAssignedPayload{
		UserID: order.UserID,
		Name:   courier.Name,
		Phone:  courier.Phone,
	})
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType events.EventType, orderID string, caller Caller, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, orderID, events.Actor{UserID: caller.UserID, Role: caller.Role}, payload)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish order event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
