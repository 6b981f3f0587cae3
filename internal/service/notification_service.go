package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/mail"
	"github.com/spec-kit/pizza-service/internal/repository"
)

// NotificationService handles emitting notifications for order events.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mail       *asyncMailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, mailer mail.Mailer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		mail:       newAsyncMailer(mailer, logger),
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderStatusChanged)
	n.dispatcher.Subscribe(events.EventOrderCancelled, n.handleOrderCancelled)
	n.dispatcher.Subscribe(events.EventOrderCourierAssigned, n.handleCourierAssigned)
	n.dispatcher.Subscribe(events.EventOrderDeleted, n.handleOrderDeleted)
}

func (n *NotificationService) handleOrderCreated(_ context.Context, event events.Event) error {
	n.logger.Info("OrderCreated", zap.String("order_id", event.OrderID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleOrderDeleted(_ context.Context, event events.Event) error {
	n.logger.Info("OrderDeleted", zap.String("order_id", event.OrderID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleOrderStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderStatusChanged", zap.String("order_id", event.OrderID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.OrderStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if payload.OldStatus == payload.NewStatus {
		return nil
	}
	return n.emailPurchaser(ctx, payload.UserID,
		"Your order is "+statusLabel(payload.NewStatus),
		fmt.Sprintf("Your order %s is now %s.", shortID(event.OrderID), statusLabel(payload.NewStatus)))
}

func (n *NotificationService) handleOrderCancelled(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderCancelled", zap.String("order_id", event.OrderID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.OrderCancelledPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	body := fmt.Sprintf("Your order %s has been cancelled.", shortID(event.OrderID))
	if payload.Reason != "" {
		body += "\n\nReason: " + payload.Reason
	}
	return n.emailPurchaser(ctx, payload.UserID, "Your order was cancelled", body)
}

func (n *NotificationService) handleCourierAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderCourierAssigned", zap.String("order_id", event.OrderID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.OrderCourierAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	body := fmt.Sprintf("%s will deliver your order %s.", payload.Name, shortID(event.OrderID))
	if payload.Phone != "" {
		body += " You can reach them at " + payload.Phone + "."
	}
	return n.emailPurchaser(ctx, payload.UserID, "Your delivery partner is on the way", body)
}

// emailPurchaser mails the order owner if they opted into email updates.
func (n *NotificationService) emailPurchaser(ctx context.Context, userID, subject, body string) error {
	if n.users == nil {
		return nil
	}
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load purchaser %s: %w", userID, err)
	}
	if !user.Notifications.Email {
		n.logger.Debug("email notifications disabled", zap.String("user_id", userID))
		return nil
	}
	n.mail.send(mail.Message{
		To:      user.Email,
		Subject: subject,
		Body:    fmt.Sprintf("Hello %s,\n\n%s\n\nThank you for ordering with us.", user.Name, body),
	})
	return nil
}

// Wait blocks until background mail sends have finished.
func (n *NotificationService) Wait() {
	n.mail.wait()
}

func statusLabel(s domain.OrderStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[len(id)-8:]
	}
	return "#" + id
}
