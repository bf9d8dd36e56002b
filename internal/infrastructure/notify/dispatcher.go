package notify

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchbook-app/matchbook/internal/platform/logging"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

const (
	defaultDispatchWorkers = 4
	defaultDispatchTimeout = 10 * time.Second
)

// Sender performs one synchronous delivery of an event.
type Sender interface {
	Send(ctx context.Context, event usecase.Event) error
}

// Dispatcher fans events out to a Sender on a bounded worker pool so that
// booking and match mutations never block on webhook latency.
type Dispatcher struct {
	sender  Sender
	pool    *ants.Pool
	logger  *logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, workers int, logger *logging.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = defaultDispatchWorkers
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		sender:  sender,
		pool:    pool,
		logger:  logger,
		timeout: defaultDispatchTimeout,
	}, nil
}

// Publish hands the event to the pool and returns immediately. The request
// context is not reused: it is usually cancelled as soon as the HTTP
// response is written, long before delivery completes.
func (d *Dispatcher) Publish(_ context.Context, event usecase.Event) {
	if d == nil || d.sender == nil || d.pool == nil {
		return
	}

	d.wg.Add(1)
	err := d.pool.Submit(func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, event); err != nil {
			d.logger.WarnContext(ctx, "event delivery failed",
				"event_type", event.Type,
				"match_id", event.MatchID,
				"error", err,
			)
		}
	})
	if err != nil {
		d.wg.Done()
		d.logger.Warn("event dispatch rejected", "event_type", event.Type, "error", err)
	}
}

// Close waits for in-flight deliveries and releases the pool.
func (d *Dispatcher) Close() {
	if d == nil || d.pool == nil {
		return
	}
	d.wg.Wait()
	d.pool.Release()
}
