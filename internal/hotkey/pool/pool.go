// Package pool runs hotkey actions on a bounded worker pool, so a
// slow or stuck action never stalls the interception pipeline.
package pool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/t4euyoon/keygate/internal/logging"
)

// Task is one queued action execution. Done, when set, is called
// exactly once after Run returns or panics; a panic is delivered as a
// *PanicError. Completion runs on the worker goroutine.
type Task struct {
	Run  func(ctx context.Context) error
	Done func(err error)
}

// Pool executes tasks asynchronously with bounded queuing, graceful
// shutdown and panic recovery.
type Pool struct {
	queueSize int
	workers   int
	logger    *logging.Logger

	mu      sync.Mutex // protects queue creation/destruction
	queue   chan task
	running atomic.Bool
	wg      sync.WaitGroup

	enqueued    atomic.Uint64
	processed   atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	dropped     atomic.Uint64
	totalTimeNs atomic.Int64
}

type task struct {
	ctx  context.Context
	run  func(ctx context.Context) error
	done func(err error)
}

// Option configures a Pool.
type Option func(*Pool)

// WithQueueSize sets the task queue size.
func WithQueueSize(size int) Option {
	return func(p *Pool) {
		if size > 0 {
			p.queueSize = size
		}
	}
}

// WithWorkers sets the number of worker goroutines.
func WithWorkers(count int) Option {
	return func(p *Pool) {
		if count > 0 {
			p.workers = count
		}
	}
}

// WithLogger sets the logger for worker diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l.WithComponent("pool")
		}
	}
}

// New creates a worker pool. Call Start before enqueueing.
func New(opts ...Option) *Pool {
	p := &Pool{
		queueSize: 64,
		workers:   4,
		logger:    logging.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return ErrAlreadyRunning
	}

	p.queue = make(chan task, p.queueSize)
	p.running.Store(true)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return nil
}

// Stop stops the pool gracefully. It waits for queued tasks to finish
// or until the context is cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running.Load() {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.running.Store(false)
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue adds a task for asynchronous execution. It never blocks:
// a full queue fails immediately with ErrQueueFull.
func (p *Pool) Enqueue(ctx context.Context, t Task) error {
	if !p.running.Load() {
		return ErrNotRunning
	}
	if t.Run == nil {
		return fmt.Errorf("enqueue: task has no Run")
	}

	select {
	case p.queue <- task{ctx: ctx, run: t.Run, done: t.Done}:
		p.enqueued.Add(1)
		return nil
	default:
		p.dropped.Add(1)
		return ErrQueueFull
	}
}

// worker processes tasks from the queue until it closes.
func (p *Pool) worker() {
	defer p.wg.Done()
	for tk := range p.queue {
		p.execute(tk)
	}
}

// execute runs one task with panic recovery and fires its completion.
func (p *Pool) execute(tk task) {
	p.processed.Add(1)
	start := time.Now()

	err := p.runProtected(tk)

	switch {
	case err == nil:
		p.succeeded.Add(1)
	case isPanic(err):
		p.panicked.Add(1)
	default:
		p.failed.Add(1)
	}
	p.totalTimeNs.Add(time.Since(start).Nanoseconds())

	if tk.done != nil {
		p.complete(tk.done, err)
	}
}

// runProtected invokes the task body, converting a panic into a
// *PanicError instead of killing the worker.
func (p *Pool) runProtected(tk task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			p.logger.Error("task panic: %v\n%s", r, stack)
			err = &PanicError{Value: r, Stack: stack}
		}
	}()

	// A context cancelled while the task sat in the queue skips the body.
	select {
	case <-tk.ctx.Done():
		return tk.ctx.Err()
	default:
	}
	return tk.run(tk.ctx)
}

// complete fires the completion handler, protecting the worker from a
// panicking handler.
func (p *Pool) complete(done func(error), err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("completion panic: %v\n%s", r, debug.Stack())
		}
	}()
	done(err)
}

func isPanic(err error) bool {
	_, ok := err.(*PanicError)
	return ok
}

// QueueDepth returns the number of tasks waiting in the queue, or 0
// when the pool is not running.
func (p *Pool) QueueDepth() int {
	if !p.running.Load() {
		return 0
	}
	return len(p.queue)
}

// IsRunning reports whether the pool is accepting tasks.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Stats contains worker pool statistics.
type Stats struct {
	// Enqueued is the total number of tasks accepted.
	Enqueued uint64

	// Processed is the number of tasks that have been executed.
	Processed uint64

	// Succeeded is the number of tasks that returned nil.
	Succeeded uint64

	// Failed is the number of tasks that returned an error.
	Failed uint64

	// Panicked is the number of tasks that panicked.
	Panicked uint64

	// Dropped is the number of tasks rejected by a full queue.
	Dropped uint64

	// QueueDepth is the current number of waiting tasks.
	QueueDepth int

	// TotalDuration is the cumulative task execution time.
	TotalDuration time.Duration

	// AvgDuration is the average task execution time.
	AvgDuration time.Duration
}

// Stats returns a snapshot of pool statistics.
func (p *Pool) Stats() Stats {
	processed := p.processed.Load()
	totalNs := p.totalTimeNs.Load()

	var avgNs int64
	if processed > 0 {
		avgNs = totalNs / int64(processed)
	}

	return Stats{
		Enqueued:      p.enqueued.Load(),
		Processed:     processed,
		Succeeded:     p.succeeded.Load(),
		Failed:        p.failed.Load(),
		Panicked:      p.panicked.Load(),
		Dropped:       p.dropped.Load(),
		QueueDepth:    p.QueueDepth(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}
