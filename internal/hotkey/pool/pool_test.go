package pool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPool_StartStop(t *testing.T) {
	p := New()

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !p.IsRunning() {
		t.Error("expected pool to be running after Start()")
	}

	if err := p.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if p.IsRunning() {
		t.Error("expected pool to not be running after Stop()")
	}

	if err := p.Stop(ctx); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestPool_EnqueueNotRunning(t *testing.T) {
	p := New()
	err := p.Enqueue(context.Background(), Task{Run: func(context.Context) error { return nil }})
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestPool_ExecutesTask(t *testing.T) {
	p := New(WithWorkers(2), WithQueueSize(16))
	p.Start()
	defer p.Stop(context.Background())

	executed := make(chan struct{})
	err := p.Enqueue(context.Background(), Task{
		Run: func(context.Context) error {
			close(executed)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Enqueue() failed: %v", err)
	}

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestPool_CompletionReceivesResult(t *testing.T) {
	p := New(WithWorkers(1))
	p.Start()
	defer p.Stop(context.Background())

	taskErr := errors.New("action failed")
	got := make(chan error, 1)
	p.Enqueue(context.Background(), Task{
		Run:  func(context.Context) error { return taskErr },
		Done: func(err error) { got <- err },
	})

	select {
	case err := <-got:
		if !errors.Is(err, taskErr) {
			t.Errorf("completion got %v, want task error", err)
		}
	case <-time.After(time.Second):
		t.Fatal("completion was not called within timeout")
	}
}

func TestPool_PanicReachesCompletion(t *testing.T) {
	p := New(WithWorkers(1))
	p.Start()
	defer p.Stop(context.Background())

	got := make(chan error, 1)
	p.Enqueue(context.Background(), Task{
		Run:  func(context.Context) error { panic("boom") },
		Done: func(err error) { got <- err },
	})

	select {
	case err := <-got:
		if !errors.Is(err, ErrTaskPanicked) {
			t.Errorf("completion got %v, want ErrTaskPanicked", err)
		}
		var pe *PanicError
		if !errors.As(err, &pe) {
			t.Fatalf("completion got %T, want *PanicError", err)
		}
		if pe.Value != "boom" {
			t.Errorf("PanicError.Value = %v, want boom", pe.Value)
		}
		if pe.Stack == "" {
			t.Error("PanicError.Stack should carry the stack trace")
		}
	case <-time.After(time.Second):
		t.Fatal("completion was not called within timeout")
	}

	if got := p.Stats().Panicked; got != 1 {
		t.Errorf("Stats.Panicked = %d, want 1", got)
	}

	// The worker survives the panic.
	executed := make(chan struct{})
	p.Enqueue(context.Background(), Task{
		Run: func(context.Context) error { close(executed); return nil },
	})
	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestPool_QueueFull(t *testing.T) {
	p := New(WithWorkers(1), WithQueueSize(1))
	p.Start()

	blocker := make(chan struct{})
	defer close(blocker)
	started := make(chan struct{})

	// Occupy the worker.
	p.Enqueue(context.Background(), Task{
		Run: func(context.Context) error {
			close(started)
			<-blocker
			return nil
		},
	})
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker did not start processing within timeout")
	}

	// Fill the queue.
	if err := p.Enqueue(context.Background(), Task{Run: func(context.Context) error { return nil }}); err != nil {
		t.Fatalf("Enqueue() into free queue failed: %v", err)
	}

	// Next enqueue must be rejected, not block.
	err := p.Enqueue(context.Background(), Task{Run: func(context.Context) error { return nil }})
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if got := p.Stats().Dropped; got != 1 {
		t.Errorf("Stats.Dropped = %d, want 1", got)
	}
}

func TestPool_CancelledContextSkipsBody(t *testing.T) {
	p := New(WithWorkers(1))
	p.Start()
	defer p.Stop(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	got := make(chan error, 1)
	p.Enqueue(ctx, Task{
		Run:  func(context.Context) error { ran = true; return nil },
		Done: func(err error) { got <- err },
	})

	select {
	case err := <-got:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("completion got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("completion was not called within timeout")
	}
	if ran {
		t.Error("task body should be skipped for a cancelled context")
	}
}

func TestPool_StopWaitsForQueued(t *testing.T) {
	p := New(WithWorkers(1), WithQueueSize(8))
	p.Start()

	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		p.Enqueue(context.Background(), Task{
			Run: func(context.Context) error {
				time.Sleep(5 * time.Millisecond)
				done <- struct{}{}
				return nil
			},
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if len(done) != 3 {
		t.Errorf("Stop() returned with %d of 3 tasks finished", len(done))
	}
}

func TestPool_Stats(t *testing.T) {
	p := New(WithWorkers(1))
	p.Start()
	defer p.Stop(context.Background())

	finished := make(chan struct{}, 2)
	p.Enqueue(context.Background(), Task{
		Run:  func(context.Context) error { return nil },
		Done: func(error) { finished <- struct{}{} },
	})
	p.Enqueue(context.Background(), Task{
		Run:  func(context.Context) error { return errors.New("bad") },
		Done: func(error) { finished <- struct{}{} },
	})

	for i := 0; i < 2; i++ {
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("tasks did not finish within timeout")
		}
	}

	stats := p.Stats()
	if stats.Enqueued != 2 || stats.Processed != 2 {
		t.Errorf("Stats = %+v, want 2 enqueued and processed", stats)
	}
	if stats.Succeeded != 1 || stats.Failed != 1 {
		t.Errorf("Stats = %+v, want 1 succeeded and 1 failed", stats)
	}
}
