package repository

import (
	"context"

	"github.com/chowline/chowline/internal/domain/model"
)

// UserRepository persists customer accounts and their delivery addresses.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	AddAddress(ctx context.Context, userID int64, addr model.Address) (*model.Address, error)
	ListAddresses(ctx context.Context, userID int64) ([]model.Address, error)
}
