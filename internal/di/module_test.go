package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/chowline/chowline/internal/adapter/rabbit"
	"github.com/chowline/chowline/internal/app"
	"github.com/chowline/chowline/internal/config"
	"github.com/chowline/chowline/internal/domain/repository"
	"github.com/chowline/chowline/internal/storage/postgres"
	"github.com/chowline/chowline/internal/test"
	"github.com/chowline/chowline/internal/usecase"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		AMQPURL:         "amqp://stub",
		AuthSecret:      "secret",
		AdminSecret:     "ops-secret",
		CourierTick:     time.Millisecond,
		CourierStep:     10,
		WorkerPoolSize:  1,
		PollBatchSize:   1,
		ShutdownTimeout: time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.OrderingFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(&rabbit.Connection{}),
			fx.Replace(usecase.EventPublisher(&test.PublisherStub{})),
			fx.Replace(repository.UserRepository(test.NewUserRepositoryStub())),
			fx.Replace(repository.RestaurantRepository(&test.RestaurantRepositoryStub{})),
			fx.Replace(repository.OrderRepository(&test.OrderRepositoryStub{})),
			fx.Replace(repository.AssignmentRepository(test.NewAssignmentRepositoryStub())),
			fx.Replace(repository.NotificationRepository(&test.NotificationRepositoryStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected ordering facade instance")
	}
}
