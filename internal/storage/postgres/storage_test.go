package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/domain/repository"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectations(t *testing.T, mock pgxmockv3.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitSchemaExecutesAllStatements(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	for _, stmt := range []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS addresses",
		"CREATE TABLE IF NOT EXISTS restaurants",
		"CREATE TABLE IF NOT EXISTS menu_items",
		"CREATE TABLE IF NOT EXISTS pricing_rules",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS assignments",
		"CREATE TABLE IF NOT EXISTS notifications",
		"CREATE INDEX IF NOT EXISTS idx_orders_user",
		"CREATE INDEX IF NOT EXISTS idx_assignments_active",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user",
	} {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectations(t, mock)
}

func TestUserRepositoryCreateMapsUniqueViolation(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ada", "ada@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := storage.Users().Create(context.Background(), "Ada", "ada@example.com", "hash")
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	expectations(t, mock)
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, email, password_hash, created_at FROM users").
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Users().GetByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectations(t, mock)
}

func TestOrderRepositoryCreatePersistsItemsAtomically(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	order := model.Order{
		ID:           "ord-1",
		UserID:       7,
		RestaurantID: 3,
		Total:        decimal.RequireFromString("32.40"),
		Status:       model.OrderStatusCreated,
		Items: []model.OrderItem{
			{Name: "Margherita", UnitPrice: decimal.RequireFromString("10.80"), Quantity: 3},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(order.ID, order.UserID, order.RestaurantID, order.Total, order.Status, "").
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(order.ID, "Margherita", order.Items[0].UnitPrice, 3).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	created, err := storage.Orders().Create(context.Background(), order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be populated")
	}
	expectations(t, mock)
}

func TestOrderRepositoryUpdateStatusNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(model.OrderStatusDelivered, "missing").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	err := storage.Orders().UpdateStatus(context.Background(), "missing", model.OrderStatusDelivered)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectations(t, mock)
}

func TestAssignmentRepositoryGetByOrderIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM assignments WHERE order_id").
		WithArgs("unknown").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Assignments().GetByOrderID(context.Background(), "unknown")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectations(t, mock)
}

func assignmentRow(status model.AssignmentStatus, rider *string, progress int) *pgxmockv3.Rows {
	now := time.Now()
	return pgxmockv3.NewRows([]string{
		"order_id", "user_id", "status", "rider_id",
		"cur_lat", "cur_lng", "start_lat", "start_lng", "dest_lat", "dest_lng",
		"progress", "created_at", "updated_at",
	}).AddRow("ord-1", int64(7), status, rider, 1.0, 1.0, 0.0, 0.0, 10.0, 10.0, progress, now, now)
}

func TestAssignmentRepositoryAdvanceNeverRegressesStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	rider := "rider-abc"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM assignments WHERE order_id(.+)FOR UPDATE").
		WithArgs("ord-1").
		WillReturnRows(assignmentRow(model.AssignmentStatusInTransit, &rider, 40))
	// Stale ASSIGNED update arrives late: stored status must stay IN_TRANSIT.
	mock.ExpectQuery("UPDATE assignments").
		WithArgs(model.AssignmentStatusInTransit, &rider, 2.0, 2.0, 20, "ord-1").
		WillReturnRows(assignmentRow(model.AssignmentStatusInTransit, &rider, 40))
	mock.ExpectCommit()

	upd := repository.AssignmentUpdate{
		Status:   model.AssignmentStatusAssigned,
		Location: model.Coordinate{Lat: 2.0, Lng: 2.0},
		Progress: 20,
	}
	got, err := storage.Assignments().Advance(context.Background(), "ord-1", upd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.AssignmentStatusInTransit {
		t.Fatalf("status regressed to %s", got.Status)
	}
	expectations(t, mock)
}

func TestAssignmentRepositoryAdvanceRejectsTerminal(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	rider := "rider-abc"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM assignments WHERE order_id(.+)FOR UPDATE").
		WithArgs("ord-1").
		WillReturnRows(assignmentRow(model.AssignmentStatusDelivered, &rider, 100))
	mock.ExpectRollback()

	_, err := storage.Assignments().Advance(context.Background(), "ord-1", repository.AssignmentUpdate{
		Status:   model.AssignmentStatusInTransit,
		Progress: 50,
	})
	if !errors.Is(err, domainErrors.ErrAssignmentComplete) {
		t.Fatalf("expected ErrAssignmentComplete, got %v", err)
	}
	expectations(t, mock)
}

func TestNotificationRepositoryAppend(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(int64(7), "Order placed", "your order is on its way", "order.placed", "mock", true).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "sent_at"}).AddRow(int64(1), time.Now()))

	n, err := storage.Notifications().Append(context.Background(), model.Notification{
		UserID:     7,
		Title:      "Order placed",
		Message:    "your order is on its way",
		RoutingKey: "order.placed",
		Transport:  "mock",
		Delivered:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID != 1 {
		t.Fatalf("expected id 1, got %d", n.ID)
	}
	expectations(t, mock)
}
