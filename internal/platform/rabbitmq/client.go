package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/phrazzld/sift-api/internal/queue"
)

// Common errors returned by the broker client
var (
	// ErrNotConnected is returned when an operation is attempted before
	// Connect has succeeded or after Close
	ErrNotConnected = errors.New("not connected to broker")

	// ErrConnectExhausted is returned when all connection attempts fail.
	// It always wraps the last underlying connection error.
	ErrConnectExhausted = errors.New("exhausted broker connection attempts")
)

// ClientConfig holds connection settings for the broker client.
type ClientConfig struct {
	// URL is the AMQP connection string
	URL string

	// ConnectAttempts bounds how many times Connect dials the broker
	ConnectAttempts int

	// ConnectDelay is the fixed pause between attempts
	ConnectDelay time.Duration
}

// DefaultClientConfig returns a ClientConfig with reasonable defaults.
func DefaultClientConfig(url string) ClientConfig {
	return ClientConfig{
		URL:             url,
		ConnectAttempts: 5,
		ConnectDelay:    3 * time.Second,
	}
}

// Client owns the connection and channel to the message broker. It is the
// only component that touches the AMQP transport; everything above it deals
// in queue names, message bodies, and ack decisions.
type Client struct {
	config  ClientConfig
	logger  *slog.Logger
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewClient creates an unconnected broker client.
func NewClient(config ClientConfig, logger *slog.Logger) *Client {
	if config.ConnectAttempts <= 0 {
		config.ConnectAttempts = 5
	}
	if config.ConnectDelay <= 0 {
		config.ConnectDelay = 3 * time.Second
	}

	return &Client{
		config: config,
		logger: logger.With("component", "rabbitmq_client"),
	}
}

// Connect dials the broker, retrying up to the configured attempt count
// with a fixed delay between attempts. Exhausting the attempts is an
// unrecoverable startup condition: the last error is propagated wrapped in
// ErrConnectExhausted.
func (c *Client) Connect(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= c.config.ConnectAttempts; attempt++ {
		c.logger.Info("connecting to broker",
			"attempt", attempt,
			"max_attempts", c.config.ConnectAttempts)

		conn, err := amqp.Dial(c.config.URL)
		if err == nil {
			channel, chErr := conn.Channel()
			if chErr == nil {
				c.conn = conn
				c.channel = channel
				c.logger.Info("connected to broker")
				return nil
			}
			// A connection without a usable channel is no connection at all.
			_ = conn.Close()
			err = chErr
		}

		lastErr = err
		c.logger.Warn("broker connection attempt failed",
			"attempt", attempt,
			"error", err)

		if attempt < c.config.ConnectAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrConnectExhausted, ctx.Err())
			case <-time.After(c.config.ConnectDelay):
			}
		}
	}

	c.logger.Error("failed to connect to broker",
		"attempts", c.config.ConnectAttempts,
		"error", lastErr)
	return fmt.Errorf("%w: %v", ErrConnectExhausted, lastErr)
}

// DeclareQueue declares a durable queue, optionally priority-capable.
// Declaration is idempotent: redeclaring with identical arguments succeeds.
func (c *Client) DeclareQueue(name string, maxPriority int) error {
	if c.channel == nil {
		return ErrNotConnected
	}

	var args amqp.Table
	if maxPriority > 0 {
		args = amqp.Table{"x-max-priority": int32(maxPriority)}
	}

	_, err := c.channel.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		args,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	c.logger.Debug("queue declared", "queue", name, "max_priority", maxPriority)
	return nil
}

// Publish sends a persistent message to the named queue through the default
// exchange. The broker's store-and-forward semantics make the message
// durable across process restarts.
func (c *Client) Publish(ctx context.Context, queueName string, body []byte, priority uint8) error {
	if c.channel == nil {
		return ErrNotConnected
	}

	err := c.channel.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Priority:     priority,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	c.logger.Debug("message published", "queue", queueName, "priority", priority)
	return nil
}

// Consume drains the named queue, invoking handler once per delivery and
// resolving each delivery according to the handler's decision. It blocks
// until ctx is cancelled or the delivery stream closes; an in-flight handler
// is allowed to finish before Consume returns.
func (c *Client) Consume(ctx context.Context, queueName string, prefetch int, handler queue.Handler) error {
	if c.channel == nil {
		return ErrNotConnected
	}

	if prefetch > 0 {
		if err := c.channel.Qos(prefetch, 0, false); err != nil {
			return fmt.Errorf("failed to set prefetch for %s: %w", queueName, err)
		}
	}

	deliveries, err := c.channel.Consume(
		queueName,
		"",    // consumer tag, broker-generated
		false, // autoAck: handlers decide explicitly
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", queueName, err)
	}

	c.logger.Info("consuming", "queue", queueName, "prefetch", prefetch)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping", "queue", queueName)
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery stream for %s closed", queueName)
			}
			c.resolve(ctx, queueName, delivery, handler(ctx, delivery.Body))
		}
	}
}

// resolve applies the handler's decision to the delivery. Ack failures are
// logged, not propagated: the broker will redeliver and the handler must
// already be idempotent under at-least-once semantics.
func (c *Client) resolve(ctx context.Context, queueName string, delivery amqp.Delivery, decision queue.Decision) {
	var err error
	switch decision {
	case queue.Ack:
		err = delivery.Ack(false)
	case queue.NackRequeue:
		err = delivery.Nack(false, true)
	case queue.Drop:
		err = delivery.Nack(false, false)
	default:
		c.logger.Error("unknown ack decision, dropping delivery",
			"queue", queueName, "decision", int(decision))
		err = delivery.Nack(false, false)
	}

	if err != nil {
		c.logger.Error("failed to resolve delivery",
			"queue", queueName,
			"decision", int(decision),
			"error", err)
	}
}

// Close releases the channel and then the connection, best-effort.
// Close-time errors are logged and swallowed.
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing channel", "error", err)
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Warn("error closing connection", "error", err)
		}
		c.conn = nil
	}
	c.logger.Info("broker connection closed")
}
