package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
)

func (r *orderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, user_id, restaurant_id, total, status, idempotency_key)
                             VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
		if err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.UserID, order.RestaurantID, order.Total, order.Status, order.IdempotencyKey,
		).Scan(&order.CreatedAt); err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, name, unit_price, quantity) VALUES ($1, $2, $3, $4)`
		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, item.Name, item.UnitPrice, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT id, user_id, restaurant_id, total, status, idempotency_key, created_at FROM orders WHERE id=$1`
	var order model.Order
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.RestaurantID, &order.Total, &order.Status, &order.IdempotencyKey, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if order.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT id, user_id, restaurant_id, total, status, idempotency_key, created_at
                   FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.RestaurantID, &o.Total, &o.Status, &o.IdempotencyKey, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if result[i].Items, err = r.items(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) items(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	const query = `SELECT name, unit_price, quantity FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
