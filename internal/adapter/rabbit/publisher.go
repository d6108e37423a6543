package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chowline/chowline/internal/events"
)

const publishTimeout = 10 * time.Second

// Publisher emits lifecycle events to the food_orders topic exchange.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher creates a publisher over an established connection.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

// Publish serializes the payload as JSON and sends it with the given
// routing key. Messages are persistent; a dead broker triggers one
// reconnect attempt before failing.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(ctx, events.Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		p.logger.Error("event publish failed",
			slog.String("routing_key", routingKey),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.Debug("event published",
		slog.String("routing_key", routingKey),
		slog.Int("bytes", len(body)),
	)
	return nil
}
