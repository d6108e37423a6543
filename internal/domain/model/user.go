package model

import "time"

// User describes a registered customer account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Addresses    []Address
	CreatedAt    time.Time
}

// Address is a delivery destination attached to a user.
type Address struct {
	ID       int64
	UserID   int64
	Label    string
	Street   string
	City     string
	Location Coordinate
}
