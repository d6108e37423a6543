package rabbit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const handleTimeout = 30 * time.Second

// Handler processes one delivery. Returning an error nacks the message with
// requeue; nil acks it.
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Consumer drains a single queue and dispatches deliveries to a handler.
type Consumer struct {
	conn     *Connection
	logger   *slog.Logger
	queue    string
	tag      string
	prefetch int
}

// NewConsumer builds a consumer for the named queue.
func NewConsumer(conn *Connection, logger *slog.Logger, queue, tag string, prefetch int) *Consumer {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Consumer{conn: conn, logger: logger, queue: queue, tag: tag, prefetch: prefetch}
}

// Run consumes until the context is cancelled. A closed delivery channel
// triggers a reconnect and resubscription.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	for {
		if c.conn.IsClosed() {
			if err := c.conn.Reconnect(); err != nil {
				return fmt.Errorf("reconnect: %w", err)
			}
		}

		ch := c.conn.Channel()
		if err := ch.Qos(c.prefetch, 0, false); err != nil {
			return fmt.Errorf("set qos: %w", err)
		}

		deliveries, err := ch.Consume(c.queue, c.tag, false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", c.queue, err)
		}

		c.logger.Info("consumer started",
			slog.String("queue", c.queue),
			slog.String("tag", c.tag),
		)

		again, err := c.drain(ctx, deliveries, handler)
		if err != nil || !again {
			return err
		}

		c.logger.Warn("delivery channel closed, reconnecting", slog.String("queue", c.queue))
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("reconnect after channel close: %w", err)
		}
	}
}

// drain consumes until the context ends (again=false) or the delivery
// channel closes (again=true).
func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery, handler Handler) (again bool, err error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return true, nil
			}
			c.handle(ctx, d, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery, handler Handler) {
	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := handler(handleCtx, d.RoutingKey, d.Body); err != nil {
		c.logger.Error("message processing failed",
			slog.String("queue", c.queue),
			slog.String("routing_key", d.RoutingKey),
			slog.String("error", err.Error()),
		)
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.logger.Error("nack failed", slog.String("error", nackErr.Error()))
		}
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		c.logger.Error("ack failed", slog.String("error", ackErr.Error()))
	}
}
