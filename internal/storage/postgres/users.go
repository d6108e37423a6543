package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
)

func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, name, email, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Name = name
	u.Email = email
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	addresses, err := r.ListAddresses(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Addresses = addresses
	return &u, nil
}

func (r *userRepository) AddAddress(ctx context.Context, userID int64, addr model.Address) (*model.Address, error) {
	const query = `INSERT INTO addresses (user_id, label, street, city, lat, lng)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query, userID, addr.Label, addr.Street, addr.City, addr.Location.Lat, addr.Location.Lng).Scan(&addr.ID)
	if err != nil {
		return nil, err
	}
	addr.UserID = userID
	return &addr, nil
}

func (r *userRepository) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	const query = `SELECT id, user_id, label, street, city, lat, lng FROM addresses WHERE user_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Address
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.Street, &a.City, &a.Location.Lat, &a.Location.Lng); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
