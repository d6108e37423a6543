package repository

import (
	"context"

	"github.com/chowline/chowline/internal/domain/model"
)

// OrderRepository persists immutable order records. Only the informational
// status field is updated after creation.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
}
