package postgres

import (
	"context"

	"github.com/chowline/chowline/internal/domain/model"
)

func (r *notificationRepository) Append(ctx context.Context, n model.Notification) (*model.Notification, error) {
	const query = `INSERT INTO notifications (user_id, title, message, routing_key, transport, delivered)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, sent_at`
	err := r.storage.pool.QueryRow(ctx, query,
		n.UserID, n.Title, n.Message, n.RoutingKey, n.Transport, n.Delivered,
	).Scan(&n.ID, &n.SentAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	const query = `SELECT id, user_id, title, message, routing_key, transport, delivered, sent_at
                   FROM notifications WHERE user_id=$1 ORDER BY sent_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.RoutingKey, &n.Transport, &n.Delivered, &n.SentAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
