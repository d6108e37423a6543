package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/chowline/chowline/internal/config"
	"github.com/chowline/chowline/internal/domain/repository"
)

// Module opens the Postgres pool and binds the repository interfaces.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.UserRepository { return s.Users() },
		func(s *Storage) repository.RestaurantRepository { return s.Restaurants() },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.AssignmentRepository { return s.Assignments() },
		func(s *Storage) repository.NotificationRepository { return s.Notifications() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
