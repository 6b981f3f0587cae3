package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/mail"
)

const defaultMailTimeout = 30 * time.Second

// Caller identifies who is invoking a service operation.
type Caller struct {
	UserID string
	Role   domain.Role
}

// asyncMailer sends mail on detached goroutines so request latency never
// depends on the SMTP server. Failures are only logged.
type asyncMailer struct {
	mailer  mail.Mailer
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func newAsyncMailer(mailer mail.Mailer, logger *zap.Logger) *asyncMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &asyncMailer{mailer: mailer, logger: logger, timeout: defaultMailTimeout}
}

func (a *asyncMailer) send(msg mail.Message) {
	if a.mailer == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.mailer.Send(ctx, msg); err != nil {
			a.logger.Warn("background email failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err))
		}
	}()
}

// wait blocks until all in-flight sends finish.
func (a *asyncMailer) wait() {
	a.wg.Wait()
}
