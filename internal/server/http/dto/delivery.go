package dto

import "time"

// AssignmentResponse is the delivery tracking projection.
type AssignmentResponse struct {
	OrderID  string            `json:"order_id"`
	Status   string            `json:"status"`
	RiderID  *string           `json:"rider_id,omitempty"`
	Location CoordinatePayload `json:"location"`
	Progress int               `json:"progress"`
	Updated  time.Time         `json:"updated_at"`
}
