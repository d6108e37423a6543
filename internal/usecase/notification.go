package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/domain/repository"
	"github.com/chowline/chowline/internal/events"
)

// NotificationUseCase turns lifecycle events into per-user notification
// records. Delivery is best-effort: a failed append is logged and dropped,
// never retried against the originating flow.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
	logger        *slog.Logger
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(notifications repository.NotificationRepository, logger *slog.Logger) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications, logger: logger}
}

// RecordFromEvent maps a routed event body to a notification row. Unknown
// routing keys are ignored.
func (u *NotificationUseCase) RecordFromEvent(ctx context.Context, routingKey string, body []byte) error {
	var (
		userID  int64
		title   string
		message string
	)

	switch routingKey {
	case events.KeyOrderPlaced:
		var ev events.OrderPlaced
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		userID = ev.UserID
		title = "Order received"
		message = fmt.Sprintf("Your order %s has been placed.", ev.OrderID)
	case events.KeyOrderAssigned:
		var ev events.OrderAssigned
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		userID = ev.UserID
		title = "Rider assigned"
		message = fmt.Sprintf("Rider %s is picking up your order %s.", ev.RiderID, ev.OrderID)
	case events.KeyDeliveryUpdate:
		var ev events.DeliveryUpdate
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		userID = ev.UserID
		title = "Delivery update"
		message = fmt.Sprintf("Your order %s is %d%% of the way to you.", ev.OrderID, ev.Progress)
	case events.KeyOrderDelivered:
		var ev events.OrderDelivered
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		userID = ev.UserID
		title = "Order delivered"
		message = fmt.Sprintf("Your order %s has been delivered. Enjoy!", ev.OrderID)
	default:
		u.logger.Warn("unhandled routing key", slog.String("routing_key", routingKey))
		return nil
	}

	_, err := u.notifications.Append(ctx, model.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		RoutingKey: routingKey,
		Transport:  "inapp",
		Delivered:  true,
	})
	if err != nil {
		u.logger.Error("notification append failed",
			slog.String("routing_key", routingKey),
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// ListByUser returns the notification feed for a user, most recent first.
func (u *NotificationUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return u.notifications.ListByUser(ctx, userID)
}
