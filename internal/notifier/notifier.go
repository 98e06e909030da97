// Package notifier tells restaurant staff about new reservations. Every
// channel is best effort: a failure is logged and reported as "not delivered",
// never returned to the caller.
package notifier

import (
	"context"
	"sync"

	"github.com/daralachab/reservation-api/internal/models"
	"go.uber.org/zap"
)

type Notifier interface {
	Name() string
	// Notify reports whether the message was delivered.
	Notify(ctx context.Context, r models.Reservation) bool
}

// Dispatcher fans a reservation out to every configured channel. Channels run
// one after another; in async mode the whole fan-out runs in the background
// and Wait drains it on shutdown.
type Dispatcher struct {
	notifiers []Notifier
	async     bool
	log       *zap.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(log *zap.Logger, async bool, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, async: async, log: log}
}

// Dispatch notifies every channel about r. It does not return an error.
func (d *Dispatcher) Dispatch(ctx context.Context, r models.Reservation) {
	// the request may finish before the sends do
	ctx = context.WithoutCancel(ctx)

	if !d.async {
		d.run(ctx, r)
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(ctx, r)
	}()
}

func (d *Dispatcher) run(ctx context.Context, r models.Reservation) {
	for _, n := range d.notifiers {
		d.notify(ctx, n, r)
	}
}

func (d *Dispatcher) notify(ctx context.Context, n Notifier, r models.Reservation) (delivered bool) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Error("notifier panicked",
				zap.String("channel", n.Name()),
				zap.String("reservation_id", r.ID),
				zap.Any("panic", p),
			)
			delivered = false
		}
	}()

	delivered = n.Notify(ctx, r)
	d.log.Info("notification dispatched",
		zap.String("channel", n.Name()),
		zap.String("reservation_id", r.ID),
		zap.Bool("delivered", delivered),
	)
	return delivered
}

// Wait blocks until background sends finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
