package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chowline/chowline/internal/domain/repository"
)

const (
	connectAttempts = 5
	connectBaseWait = time.Second
	connectMaxWait  = 10 * time.Second
)

// DBPool is the subset of pgxpool.Pool the storage layer depends on.
// Declared as an interface so repository tests can substitute a mock pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type restaurantRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type assignmentRepository struct {
	storage *Storage
}

type notificationRepository struct {
	storage *Storage
}

// New creates storage with schema initialization. Connection establishment
// retries a bounded number of times with a doubling delay capped at a
// ceiling; the error is returned (and the service exits) after exhaustion.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	var pool *pgxpool.Pool
	wait := connectBaseWait
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				break
			}
			pool.Close()
		}

		if attempt == connectAttempts {
			return nil, fmt.Errorf("connect db after %d attempts: %w", connectAttempts, err)
		}

		logger.Warn("database connection failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > connectMaxWait {
			wait = connectMaxWait
		}
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Restaurants() repository.RestaurantRepository {
	return &restaurantRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Assignments() repository.AssignmentRepository {
	return &assignmentRepository{storage: s}
}

func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS addresses (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            label TEXT NOT NULL DEFAULT '',
            street TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            lng DOUBLE PRECISION NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS restaurants (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            lng DOUBLE PRECISION NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS menu_items (
            id SERIAL PRIMARY KEY,
            restaurant_id BIGINT NOT NULL REFERENCES restaurants(id),
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            base_price NUMERIC(12,2) NOT NULL,
            currency TEXT NOT NULL DEFAULT 'USD',
            UNIQUE (restaurant_id, name)
        )`,
		`CREATE TABLE IF NOT EXISTS pricing_rules (
            id SERIAL PRIMARY KEY,
            restaurant_id BIGINT NOT NULL REFERENCES restaurants(id),
            rule_type TEXT NOT NULL,
            strategy TEXT NOT NULL,
            value NUMERIC(12,4) NOT NULL,
            position INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            restaurant_id BIGINT NOT NULL REFERENCES restaurants(id),
            total NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            idempotency_key TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            name TEXT NOT NULL,
            unit_price NUMERIC(12,2) NOT NULL,
            quantity INT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS assignments (
            order_id TEXT PRIMARY KEY REFERENCES orders(id),
            user_id BIGINT NOT NULL,
            status TEXT NOT NULL,
            rider_id TEXT,
            cur_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            cur_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
            start_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            start_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
            dest_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            dest_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
            progress INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            routing_key TEXT NOT NULL,
            transport TEXT NOT NULL DEFAULT 'mock',
            delivered BOOLEAN NOT NULL DEFAULT TRUE,
            sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_active ON assignments(status, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, sent_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes a function inside a transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
