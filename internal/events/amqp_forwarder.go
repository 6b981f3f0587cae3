package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/config"
)

const dialDelay = 2 * time.Second

type channelPublisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPForwarder republishes dispatcher events onto a RabbitMQ topic exchange.
type AMQPForwarder struct {
	conn     *amqp.Connection
	ch       channelPublisher
	exchange string
	logger   *zap.Logger
}

// DialAMQPForwarder connects to the broker, retrying the dial, and declares a
// durable topic exchange.
func DialAMQPForwarder(cfg config.BrokerConfig, logger *zap.Logger) (*AMQPForwarder, error) {
	const op = "events.DialAMQPForwarder"

	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}
	var (
		conn *amqp.Connection
		err  error
	)
	for attempt := 1; attempt <= retries; attempt++ {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		logger.Warn("amqp dial failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < retries {
			time.Sleep(dialDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AMQPForwarder{conn: conn, ch: ch, exchange: cfg.Exchange, logger: logger}, nil
}

// Register subscribes the forwarder to every order event.
func (f *AMQPForwarder) Register(dispatcher Dispatcher) {
	if f == nil || dispatcher == nil {
		return
	}
	dispatcher.SubscribeAll(f.Forward)
}

// Forward publishes one event as persistent JSON keyed by its type. Failures
// are logged and swallowed.
func (f *AMQPForwarder) Forward(_ context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		f.logger.Error("encode event", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}
	err = f.ch.Publish(f.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.Timestamp,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		f.logger.Error("publish event",
			zap.String("exchange", f.exchange),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// Close tears down the broker connection.
func (f *AMQPForwarder) Close() error {
	if f == nil || f.conn == nil {
		return nil
	}
	return f.conn.Close()
}
