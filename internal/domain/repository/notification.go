package repository

import (
	"context"

	"github.com/chowline/chowline/internal/domain/model"
)

// NotificationRepository appends and lists per-user notification records.
type NotificationRepository interface {
	Append(ctx context.Context, n model.Notification) (*model.Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Notification, error)
}
