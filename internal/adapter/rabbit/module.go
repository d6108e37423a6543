package rabbit

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/chowline/chowline/internal/config"
)

// Module wires the RabbitMQ connection and publisher.
var Module = fx.Options(
	fx.Provide(newConnection),
	fx.Provide(NewPublisher),
	fx.Invoke(registerLifecycle),
)

type connectionParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newConnection(p connectionParams) (*Connection, error) {
	return Dial(p.Config.AMQPURL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, conn *Connection) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return conn.Close()
		},
	})
}
