package dto

import "time"

// NotificationResponse is one entry of the user's notification feed.
type NotificationResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	RoutingKey string    `json:"routing_key"`
	SentAt     time.Time `json:"sent_at"`
}
