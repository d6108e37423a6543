package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/domain/repository"
)

const assignmentColumns = `order_id, user_id, status, rider_id,
       cur_lat, cur_lng, start_lat, start_lng, dest_lat, dest_lng,
       progress, created_at, updated_at`

func scanAssignment(row pgx.Row) (*model.DeliveryAssignment, error) {
	var a model.DeliveryAssignment
	err := row.Scan(
		&a.OrderID, &a.UserID, &a.Status, &a.RiderID,
		&a.CurrentLocation.Lat, &a.CurrentLocation.Lng,
		&a.StartLocation.Lat, &a.StartLocation.Lng,
		&a.DestLocation.Lat, &a.DestLocation.Lng,
		&a.Progress, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) Create(ctx context.Context, a model.DeliveryAssignment) (*model.DeliveryAssignment, error) {
	const query = `INSERT INTO assignments
                   (order_id, user_id, status, rider_id, cur_lat, cur_lng, start_lat, start_lng, dest_lat, dest_lng, progress)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		a.OrderID, a.UserID, a.Status, a.RiderID,
		a.CurrentLocation.Lat, a.CurrentLocation.Lng,
		a.StartLocation.Lat, a.StartLocation.Lng,
		a.DestLocation.Lat, a.DestLocation.Lng,
		a.Progress,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) GetByOrderID(ctx context.Context, orderID string) (*model.DeliveryAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE order_id=$1`
	a, err := scanAssignment(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ClaimActive picks non-terminal assignments least recently touched and
// bumps updated_at inside the claim transaction so concurrent pollers skip
// them (FOR UPDATE SKIP LOCKED).
func (r *assignmentRepository) ClaimActive(ctx context.Context, limit int) ([]model.DeliveryAssignment, error) {
	selectQuery := `SELECT ` + assignmentColumns + `
                    FROM assignments
                    WHERE status <> 'DELIVERED'
                    ORDER BY updated_at
                    LIMIT $1
                    FOR UPDATE SKIP LOCKED`

	var claimed []model.DeliveryAssignment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAssignment(rows)
			if err != nil {
				return err
			}
			claimed = append(claimed, *a)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, a := range claimed {
			if _, err := tx.Exec(ctx, `UPDATE assignments SET updated_at=NOW() WHERE order_id=$1`, a.OrderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Advance applies a single state-machine step. Guards hold regardless of
// caller behavior: progress never decreases (GREATEST), status never moves
// backwards, a DELIVERED row is never mutated again.
func (r *assignmentRepository) Advance(ctx context.Context, orderID string, upd repository.AssignmentUpdate) (*model.DeliveryAssignment, error) {
	var result *model.DeliveryAssignment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lockQuery := `SELECT ` + assignmentColumns + ` FROM assignments WHERE order_id=$1 FOR UPDATE`
		current, err := scanAssignment(tx.QueryRow(ctx, lockQuery, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if current.Status.Terminal() {
			return domainErrors.ErrAssignmentComplete
		}

		status := current.Status
		if upd.Status.Rank() > status.Rank() {
			status = upd.Status
		}

		rider := current.RiderID
		if rider == nil && upd.RiderID != nil {
			rider = upd.RiderID
		}

		const update = `UPDATE assignments
                        SET status=$1, rider_id=$2, cur_lat=$3, cur_lng=$4,
                            progress=GREATEST(progress, $5), updated_at=NOW()
                        WHERE order_id=$6 AND status <> 'DELIVERED'
                        RETURNING ` + assignmentColumns
		result, err = scanAssignment(tx.QueryRow(ctx, update,
			status, rider, upd.Location.Lat, upd.Location.Lng, upd.Progress, orderID,
		))
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
