package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/chowline/chowline/internal/adapter/rabbit"
	"github.com/chowline/chowline/internal/config"
	"github.com/chowline/chowline/internal/events"
	"github.com/chowline/chowline/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewOrderingFacade,
		newHTTPServer,
		newCourier,
		newConsumers,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type courierParams struct {
	fx.In

	Facade *OrderingFacade
	Config *config.Config
	Logger *slog.Logger
}

func newCourier(p courierParams) *worker.Courier {
	return worker.NewCourier(
		p.Facade,
		p.Config.CourierTick,
		p.Config.CourierStep,
		p.Config.PollBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

// consumers bundles the two queue subscriptions: assignment opening and
// notification fan-in.
type consumers struct {
	assignments *rabbit.Consumer
	notifier    *rabbit.Consumer
	facade      *OrderingFacade
	logger      *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type consumersParams struct {
	fx.In

	Conn   *rabbit.Connection
	Facade *OrderingFacade
	Config *config.Config
	Logger *slog.Logger
}

func newConsumers(p consumersParams) *consumers {
	return &consumers{
		assignments: rabbit.NewConsumer(p.Conn, p.Logger, events.QueueAssignments, "courier", p.Config.PollBatchSize),
		notifier:    rabbit.NewConsumer(p.Conn, p.Logger, events.QueueNotifications, "notifier", p.Config.PollBatchSize),
		facade:      p.Facade,
		logger:      p.Logger,
	}
}

// Start launches both consumer loops. They run until the context given to
// Stop's cancel fires or the broker connection is lost for good.
func (c *consumers) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	if c.assignments != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.assignments.Run(runCtx, c.handleAssignmentEvent); err != nil {
				c.logger.Error("assignment consumer stopped", slog.String("error", err.Error()))
			}
		}()
	}
	if c.notifier != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.notifier.Run(runCtx, c.facade.RecordNotification); err != nil {
				c.logger.Error("notification consumer stopped", slog.String("error", err.Error()))
			}
		}()
	}
}

// Stop cancels the consumer loops and waits for in-flight deliveries.
func (c *consumers) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.wg.Wait()
}

func (c *consumers) handleAssignmentEvent(ctx context.Context, routingKey string, body []byte) error {
	var ev events.OrderPlaced
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", routingKey, err)
	}
	return c.facade.OpenAssignment(ctx, ev)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Courier    *worker.Courier
	Consumers  *consumers
	Config     *config.Config
	AppCtx     context.Context
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting chowline", slog.String("addr", p.Server.Addr))
			// Background loops outlive the start hook, so they run off the
			// application context rather than the hook's.
			p.Consumers.Start(p.AppCtx)
			p.Courier.Start(p.AppCtx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Courier.Stop()
			p.Consumers.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("chowline stopped")
			return nil
		},
	})
}
