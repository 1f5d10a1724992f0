package grid

import (
	"context"
	"sync"

	"github.com/grindlemire/go-grid/internal/debug"
)

// Dispatcher runs functions on the goroutine that owns a Table. Child load
// results are delivered through it so every table mutation happens on that
// one goroutine.
type Dispatcher interface {
	// QueueUpdate enqueues fn to run on the owning goroutine. Safe to call
	// from any goroutine.
	QueueUpdate(fn func())
}

// Loop is a minimal event loop implementing Dispatcher. The goroutine that
// calls Run, Next or RunPending is the owning goroutine.
type Loop struct {
	queue     chan func()
	stopCh    chan struct{}
	stopOnce  sync.Once
	queueSize int
}

// NewLoop creates a loop. The default queue holds 256 pending updates.
func NewLoop(opts ...LoopOption) (*Loop, error) {
	l := &Loop{queueSize: 256}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.queue = make(chan func(), l.queueSize)
	l.stopCh = make(chan struct{})
	return l, nil
}

// QueueUpdate enqueues fn. It blocks while the queue is full so results
// are never dropped, and returns immediately once the loop is stopped.
func (l *Loop) QueueUpdate(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.stopCh:
		debug.Log("Loop.QueueUpdate: loop stopped, update dropped")
	}
}

// Run processes updates until ctx is done or Stop is called. It returns
// ctx.Err() when the context ends the loop and nil after Stop.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.stopCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Next blocks until one update is available and runs it.
func (l *Loop) Next(ctx context.Context) error {
	select {
	case fn := <-l.queue:
		fn()
		return nil
	case <-l.stopCh:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunPending runs every update already queued without waiting for more
// and returns how many ran.
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Stop ends Run and releases blocked QueueUpdate callers.
// Stop is idempotent - multiple calls are safe.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Watch forwards every value received on ch to fn on the loop goroutine
// until ch is closed or the loop stops.
//
// Example:
//
//	events := make(chan tcell.Event)
//	grid.Watch(loop, events, func(ev tcell.Event) { handle(ev) })
func Watch[V any](l *Loop, ch <-chan V, fn func(V)) {
	go func() {
		for {
			select {
			case <-l.stopCh:
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				select {
				case l.queue <- func() { fn(v) }:
				case <-l.stopCh:
					return
				}
			}
		}
	}()
}
