package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/service"
)

// Subscriber attaches itself to a dispatcher.
type Subscriber interface {
	Register(dispatcher events.Dispatcher)
}

// StartNotificationWorker registers notification handlers and any extra
// subscribers, such as the broker forwarder, on the dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, logger *zap.Logger, extra ...Subscriber) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	for _, sub := range extra {
		if sub == nil {
			continue
		}
		sub.Register(dispatcher)
	}
	logger.Info("notification worker started",
		zap.Int("event_types", len(events.AllEventTypes())),
		zap.Int("extra_subscribers", len(extra)))
}
