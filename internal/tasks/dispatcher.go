package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/metrics"
)

// Dispatcher errors.
var (
	ErrQueueFull = errors.New("task queue is full")
	ErrClosed    = errors.New("dispatcher is shut down")
)

// Executor runs a single task.
type Executor interface {
	Execute(ctx context.Context, taskURI string) (*Outcome, error)
}

// ErrorSink records errors that cannot be attached to a task.
type ErrorSink interface {
	StoreError(ctx context.Context, message string) error
}

// Dispatcher runs submitted tasks one at a time on a background worker.
// Submitting never blocks; a task already queued or running is not queued
// again.
type Dispatcher struct {
	exec    Executor
	sink    ErrorSink
	log     *logrus.Entry
	metrics *metrics.Metrics

	queue   chan string
	mu      sync.Mutex
	pending map[string]struct{}
	closed  bool
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewDispatcher creates a dispatcher holding at most size waiting tasks.
func NewDispatcher(exec Executor, sink ErrorSink, size int, log *logrus.Entry, m *metrics.Metrics) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		exec:    exec,
		sink:    sink,
		log:     log,
		metrics: m,
		queue:   make(chan string, size),
		pending: make(map[string]struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. Cancelling ctx does not stop it; use Shutdown.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	workCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel
	go d.work(workCtx)
}

// Submit queues taskURI. It reports false when the task is already queued or
// running.
func (d *Dispatcher) Submit(taskURI string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false, ErrClosed
	}
	if _, ok := d.pending[taskURI]; ok {
		d.log.WithField("task", taskURI).Debug("task already queued, ignoring")
		return false, nil
	}

	select {
	case d.queue <- taskURI:
		d.pending[taskURI] = struct{}{}
		d.metrics.SetQueueDepth(len(d.queue))
		return true, nil
	default:
		return false, fmt.Errorf("%w: dropping %s", ErrQueueFull, taskURI)
	}
}

// Shutdown stops accepting tasks and waits for the queue to drain. When ctx
// expires first the running task is cancelled; its terminal status is still
// written.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.log.Warn("shutdown timeout reached, cancelling running task")
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	defer close(d.done)
	defer d.cancel()

	for taskURI := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		d.execute(ctx, taskURI)

		d.mu.Lock()
		delete(d.pending, taskURI)
		d.mu.Unlock()
	}
}

// execute is the error boundary of the worker.
func (d *Dispatcher) execute(ctx context.Context, taskURI string) {
	log := d.log.WithField("task", taskURI)
	defer func() {
		if r := recover(); r != nil {
			d.report(ctx, log, fmt.Errorf("panic while executing task %s: %v", taskURI, r))
		}
	}()

	outcome, err := d.exec.Execute(ctx, taskURI)
	if err != nil {
		d.report(ctx, log, fmt.Errorf("task %s: %w", taskURI, err))
		return
	}
	log.WithField("outcome", outcome.Result).Debug("task handled")
}

func (d *Dispatcher) report(ctx context.Context, log *logrus.Entry, err error) {
	log.WithError(err).Error("task execution failed")
	if d.sink == nil {
		return
	}
	if serr := d.sink.StoreError(context.WithoutCancel(ctx), err.Error()); serr != nil {
		log.WithError(serr).Error("failed to store error")
	}
}
