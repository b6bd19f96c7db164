package notification

import (
	"context"
	"time"

	domain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/infrastructure/logging"

	"go.uber.org/zap"
)

const drainTimeout = 10 * time.Second

// Dispatcher moves delivery off the request path. Deliver only enqueues;
// Run hands batches to next until its context ends, then drains what is left.
type Dispatcher struct {
	next  Deliverer
	queue chan []domain.Notification
	log   *zap.Logger
}

func NewDispatcher(next Deliverer, size int, log *zap.Logger) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{next: next, queue: make(chan []domain.Notification, size), log: logging.OrNop(log)}
}

// Deliver queues ns. A full queue drops the batch; the notifications are
// already committed and stay readable in the portal.
func (d *Dispatcher) Deliver(_ context.Context, ns []domain.Notification) {
	if len(ns) == 0 {
		return
	}
	select {
	case d.queue <- ns:
	default:
		d.log.Warn("mail queue full; batch dropped", zap.Int("notifications", len(ns)))
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case ns := <-d.queue:
			d.next.Deliver(ctx, ns)
		case <-ctx.Done():
			d.drain()
			return ctx.Err()
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case ns := <-d.queue:
			d.next.Deliver(ctx, ns)
		default:
			return
		}
	}
}
