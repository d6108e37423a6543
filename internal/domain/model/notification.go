package model

import "time"

// Notification is an append-only record produced for each order/delivery
// state transition of interest. Best-effort: never authoritative.
type Notification struct {
	ID         int64
	UserID     int64
	Title      string
	Message    string
	RoutingKey string
	Transport  string
	Delivered  bool
	SentAt     time.Time
}
