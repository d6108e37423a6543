package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/domain/repository"
	"github.com/chowline/chowline/internal/events"
)

// DeliveryUseCase tracks delivery assignments through their state machine.
// It is driven from two sides: order.placed events open assignments, and
// the courier simulation advances them until DELIVERED.
type DeliveryUseCase struct {
	assignments repository.AssignmentRepository
	orders      repository.OrderRepository
	publisher   EventPublisher
	logger      *slog.Logger
}

// NewDeliveryUseCase constructs DeliveryUseCase.
func NewDeliveryUseCase(
	assignments repository.AssignmentRepository,
	orders repository.OrderRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *DeliveryUseCase {
	return &DeliveryUseCase{assignments: assignments, orders: orders, publisher: publisher, logger: logger}
}

// Open creates the assignment for a freshly placed order. A redelivered
// event is a no-op: each order has exactly one assignment.
func (u *DeliveryUseCase) Open(ctx context.Context, ev events.OrderPlaced) error {
	_, err := u.assignments.Create(ctx, model.DeliveryAssignment{
		OrderID:         ev.OrderID,
		UserID:          ev.UserID,
		Status:          model.AssignmentStatusCreated,
		CurrentLocation: ev.StartLocation,
		StartLocation:   ev.StartLocation,
		DestLocation:    ev.DestLocation,
		Progress:        0,
	})
	if errors.Is(err, domainErrors.ErrAlreadyExists) {
		u.logger.Info("assignment already open", slog.String("order_id", ev.OrderID))
		return nil
	}
	return err
}

// Snapshot returns the current state of an assignment.
func (u *DeliveryUseCase) Snapshot(ctx context.Context, orderID string) (*model.DeliveryAssignment, error) {
	return u.assignments.GetByOrderID(ctx, orderID)
}

// ActiveBatch claims up to limit non-terminal assignments for advancement.
func (u *DeliveryUseCase) ActiveBatch(ctx context.Context, limit int) ([]model.DeliveryAssignment, error) {
	return u.assignments.ClaimActive(ctx, limit)
}

// Assign binds a simulated rider to a CREATED assignment and publishes
// order.assigned. Assignments already holding a rider keep it.
func (u *DeliveryUseCase) Assign(ctx context.Context, a model.DeliveryAssignment) (*model.DeliveryAssignment, error) {
	rider := "rider-" + uuid.NewString()
	if a.RiderID != nil {
		rider = *a.RiderID
	}

	updated, err := u.assignments.Advance(ctx, a.OrderID, repository.AssignmentUpdate{
		Status:   model.AssignmentStatusAssigned,
		RiderID:  &rider,
		Location: a.CurrentLocation,
		Progress: a.Progress,
	})
	if err != nil {
		return nil, err
	}

	u.mirrorOrderStatus(ctx, updated.OrderID, model.OrderStatusAssigned)
	u.publish(ctx, events.KeyOrderAssigned, events.OrderAssigned{
		OrderID: updated.OrderID,
		UserID:  updated.UserID,
		RiderID: rider,
	})
	return updated, nil
}

// Step moves an assigned delivery forward by step progress points. The
// courier position is interpolated linearly between start and destination;
// reaching 100 flips the assignment to DELIVERED and emits order.delivered.
func (u *DeliveryUseCase) Step(ctx context.Context, a model.DeliveryAssignment, step int) (*model.DeliveryAssignment, error) {
	if a.Status.Terminal() {
		return nil, domainErrors.ErrAssignmentComplete
	}

	progress := a.Progress + step
	if progress > 100 {
		progress = 100
	}
	status := model.AssignmentStatusInTransit
	if progress >= 100 {
		status = model.AssignmentStatusDelivered
	}

	updated, err := u.assignments.Advance(ctx, a.OrderID, repository.AssignmentUpdate{
		Status:   status,
		RiderID:  a.RiderID,
		Location: interpolate(a.StartLocation, a.DestLocation, progress),
		Progress: progress,
	})
	if err != nil {
		return nil, err
	}

	rider := ""
	if updated.RiderID != nil {
		rider = *updated.RiderID
	}

	u.mirrorOrderStatus(ctx, updated.OrderID, model.OrderStatus(updated.Status))
	u.publish(ctx, events.KeyDeliveryUpdate, events.DeliveryUpdate{
		OrderID:  updated.OrderID,
		UserID:   updated.UserID,
		RiderID:  rider,
		Status:   updated.Status,
		Location: updated.CurrentLocation,
		Progress: updated.Progress,
	})
	if updated.Status.Terminal() {
		u.publish(ctx, events.KeyOrderDelivered, events.OrderDelivered{
			OrderID: updated.OrderID,
			UserID:  updated.UserID,
			RiderID: rider,
		})
	}
	return updated, nil
}

// interpolate places the courier along the straight line between from and
// to according to progress in [0,100].
func interpolate(from, to model.Coordinate, progress int) model.Coordinate {
	f := float64(progress) / 100
	return model.Coordinate{
		Lat: from.Lat + (to.Lat-from.Lat)*f,
		Lng: from.Lng + (to.Lng-from.Lng)*f,
	}
}

// mirrorOrderStatus copies the assignment status onto the order record.
// Failures are logged only: the assignment remains the source of truth.
func (u *DeliveryUseCase) mirrorOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) {
	if err := u.orders.UpdateStatus(ctx, orderID, status); err != nil {
		u.logger.Error("order status mirror failed",
			slog.String("order_id", orderID),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
	}
}

func (u *DeliveryUseCase) publish(ctx context.Context, key string, payload any) {
	if err := u.publisher.Publish(ctx, key, payload); err != nil {
		u.logger.Error("event publish failed",
			slog.String("routing_key", key),
			slog.String("error", err.Error()),
		)
	}
}
