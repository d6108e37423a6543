// Package rabbit is the RabbitMQ adapter carrying order and delivery
// lifecycle events between the order service, the courier simulation and
// the notification dispatcher.
package rabbit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chowline/chowline/internal/events"
)

const (
	dialAttempts = 5
	dialBaseWait = time.Second
	dialMaxWait  = 10 * time.Second
)

// Connection wraps an AMQP connection plus channel and declares the
// exchange/queue topology on connect.
type Connection struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	url     string
	logger  *slog.Logger
}

// Dial connects to RabbitMQ with bounded retries and a doubling delay
// capped at a ceiling, then declares the topology.
func Dial(url string, logger *slog.Logger) (*Connection, error) {
	c := &Connection{url: url, logger: logger}

	var err error
	wait := dialBaseWait
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		if err = c.connect(); err == nil {
			return c, nil
		}
		if attempt == dialAttempts {
			break
		}
		logger.Warn("rabbitmq connection failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
		time.Sleep(wait)
		wait *= 2
		if wait > dialMaxWait {
			wait = dialMaxWait
		}
	}
	return nil, fmt.Errorf("connect rabbitmq after %d attempts: %w", dialAttempts, err)
}

func (c *Connection) connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()
	return nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(events.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", events.Exchange, err)
	}

	bindings := []struct {
		queue string
		keys  []string
	}{
		{events.QueueAssignments, []string{events.KeyOrderPlaced}},
		{events.QueueNotifications, []string{
			events.KeyOrderPlaced,
			events.KeyOrderAssigned,
			events.KeyDeliveryUpdate,
			events.KeyOrderDelivered,
		}},
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}
		for _, key := range b.keys {
			if err := ch.QueueBind(b.queue, key, events.Exchange, false, nil); err != nil {
				return fmt.Errorf("bind %s to %s: %w", b.queue, key, err)
			}
		}
	}
	return nil
}

// Channel returns the current channel.
func (c *Connection) Channel() *amqp.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// IsClosed reports whether the underlying connection is gone.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect re-establishes the connection and topology.
func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

// Close shuts the channel and connection down.
func (c *Connection) Close() error {
	return c.close()
}

func (c *Connection) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
