package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
)

// DeliveryFacade exposes the subset of application functionality required by the courier.
type DeliveryFacade interface {
	AssignmentsForAdvance(ctx context.Context, limit int) ([]model.DeliveryAssignment, error)
	AssignRider(ctx context.Context, a model.DeliveryAssignment) (*model.DeliveryAssignment, error)
	AdvanceDelivery(ctx context.Context, a model.DeliveryAssignment, step int) (*model.DeliveryAssignment, error)
}

// Courier simulates riders: it polls active assignments on a fixed tick and
// advances each one concurrently until delivery.
type Courier struct {
	facade       DeliveryFacade
	tickInterval time.Duration
	step         int
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.DeliveryAssignment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewCourier constructs the courier worker pool.
func NewCourier(facade DeliveryFacade, tickInterval time.Duration, step, batchSize, workers int, logger *slog.Logger) *Courier {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if step <= 0 {
		step = 10
	}
	return &Courier{
		facade:       facade,
		tickInterval: tickInterval,
		step:         step,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.DeliveryAssignment, batchSize*workers),
	}
}

// Start launches the background simulation.
func (c *Courier) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(runCtx)
	}

	c.wg.Add(1)
	go c.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (c *Courier) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Courier) dispatch(ctx context.Context) {
	defer c.wg.Done()
	defer close(c.jobs)
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.fetchAndDispatch(ctx)
		}
	}
}

func (c *Courier) fetchAndDispatch(ctx context.Context) {
	assignments, err := c.facade.AssignmentsForAdvance(ctx, c.batchSize)
	if err != nil {
		c.logger.Error("fetch active assignments failed", slog.String("error", err.Error()))
		return
	}
	for _, a := range assignments {
		select {
		case <-ctx.Done():
			return
		case c.jobs <- a:
		}
	}
}

func (c *Courier) worker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-c.jobs:
			if !ok {
				return
			}
			c.handleAssignment(ctx, a)
		}
	}
}

// handleAssignment moves one assignment a single stage forward per tick:
// CREATED gains a rider, anything later gains progress. Races with a
// concurrent tick surface as ErrAssignmentComplete and are dropped.
func (c *Courier) handleAssignment(ctx context.Context, a model.DeliveryAssignment) {
	var err error
	switch a.Status {
	case model.AssignmentStatusCreated:
		_, err = c.facade.AssignRider(ctx, a)
	case model.AssignmentStatusAssigned, model.AssignmentStatusInTransit:
		_, err = c.facade.AdvanceDelivery(ctx, a, c.step)
	default:
		return
	}
	if err != nil {
		if errors.Is(err, domainErrors.ErrAssignmentComplete) {
			return
		}
		c.logger.Error("advance assignment failed",
			slog.String("order_id", a.OrderID),
			slog.String("status", string(a.Status)),
			slog.String("error", err.Error()),
		)
	}
}
