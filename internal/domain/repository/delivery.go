package repository

import (
	"context"

	"github.com/chowline/chowline/internal/domain/model"
)

// AssignmentUpdate carries a single advancement of a delivery assignment.
// Progress and status are applied with monotonic guards: a stale update can
// never move either backwards, and a DELIVERED row is never touched again.
type AssignmentUpdate struct {
	Status   model.AssignmentStatus
	RiderID  *string
	Location model.Coordinate
	Progress int
}

// AssignmentRepository owns delivery assignments, the one entity with
// ongoing background mutation.
type AssignmentRepository interface {
	Create(ctx context.Context, a model.DeliveryAssignment) (*model.DeliveryAssignment, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.DeliveryAssignment, error)
	// ClaimActive selects up to limit non-terminal assignments and locks them
	// for the caller for the duration of the claim transaction.
	ClaimActive(ctx context.Context, limit int) ([]model.DeliveryAssignment, error)
	Advance(ctx context.Context, orderID string, upd AssignmentUpdate) (*model.DeliveryAssignment, error)
}
