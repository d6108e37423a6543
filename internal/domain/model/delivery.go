package model

import "time"

// AssignmentStatus is the delivery state machine. Transitions are
// one-directional: CREATED -> ASSIGNED -> IN_TRANSIT -> DELIVERED.
// DELIVERED is terminal.
type AssignmentStatus string

const (
	AssignmentStatusCreated   AssignmentStatus = "CREATED"
	AssignmentStatusAssigned  AssignmentStatus = "ASSIGNED"
	AssignmentStatusInTransit AssignmentStatus = "IN_TRANSIT"
	AssignmentStatusDelivered AssignmentStatus = "DELIVERED"
)

var assignmentRank = map[AssignmentStatus]int{
	AssignmentStatusCreated:   0,
	AssignmentStatusAssigned:  1,
	AssignmentStatusInTransit: 2,
	AssignmentStatusDelivered: 3,
}

// Rank returns the position of the status along the state machine, or -1
// for an unknown value.
func (s AssignmentStatus) Rank() int {
	if r, ok := assignmentRank[s]; ok {
		return r
	}
	return -1
}

// CanAdvanceTo reports whether moving to next is a legal forward transition.
func (s AssignmentStatus) CanAdvanceTo(next AssignmentStatus) bool {
	cur, nxt := s.Rank(), next.Rank()
	return cur >= 0 && nxt >= 0 && nxt > cur
}

// Terminal reports whether no further transition is possible.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentStatusDelivered
}

// DeliveryAssignment tracks the delivery paired 1:1 with an order. It is the
// only entity mutated after creation: the courier simulation advances
// Progress (monotone non-decreasing, 0..100) and Status until DELIVERED.
type DeliveryAssignment struct {
	OrderID         string
	UserID          int64
	Status          AssignmentStatus
	RiderID         *string
	CurrentLocation Coordinate
	StartLocation   Coordinate
	DestLocation    Coordinate
	Progress        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
