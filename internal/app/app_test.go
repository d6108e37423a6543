package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chowline/chowline/internal/config"
	testhelpers "github.com/chowline/chowline/internal/test"
	"github.com/chowline/chowline/internal/worker"
)

func newTestCourier() *worker.Courier {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewCourier(&testhelpers.CourierFacadeStub{}, 10*time.Millisecond, 10, 1, 1, logger)
}

func newIdleConsumers() *consumers {
	return &consumers{logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewCourierUsesConfig(t *testing.T) {
	courier := newCourier(courierParams{
		Facade: &OrderingFacade{},
		Config: &config.Config{CourierTick: 15 * time.Second, CourierStep: 20, PollBatchSize: 3, WorkerPoolSize: 4},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if courier == nil {
		t.Fatal("expected courier instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Courier:    newTestCourier(),
		Consumers:  newIdleConsumers(),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
		AppCtx:     context.Background(),
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     &http.Server{Addr: "bad addr"},
		Courier:    newTestCourier(),
		Consumers:  newIdleConsumers(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
		AppCtx:     context.Background(),
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}
