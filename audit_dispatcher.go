package authgate

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/testware-io/authgate/auditlog"
)

// auditDispatcher decouples event production from sink delivery: callers
// hand events to a buffered channel and return immediately, a single
// goroutine drains into the sink. The caller's response never waits on,
// and never learns about, a sink failure.
type auditDispatcher struct {
	cfg       AuditConfig
	sink      AuditSink
	ch        chan auditlog.Event
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	onDrop    func()
	closed    atomic.Bool
	closeOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan auditlog.Event, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			// Drain whatever is already buffered, then stop.
			for {
				select {
				case event := <-d.ch:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit enqueues one event. With DropIfFull set, a full buffer drops the
// event and bumps the counter; otherwise Emit blocks until the buffer
// accepts it or ctx ends. A nil or closed dispatcher swallows events.
func (d *auditDispatcher) Emit(ctx context.Context, event auditlog.Event) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
			if d.onDrop != nil {
				d.onDrop()
			}
		}
		return
	}

	select {
	case d.ch <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close stops intake, drains the buffer into the sink, and waits for the
// worker. Idempotent.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many events were lost to a full buffer.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
