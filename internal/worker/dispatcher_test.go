package worker

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDispatcher_RunsEnqueuedTasks(t *testing.T) {
	d := NewDispatcher(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	if err := d.Start(ctx, &wg); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	done := make(chan struct{})
	if !d.Enqueue(func(ctx context.Context) { close(done) }) {
		t.Fatalf("expected enqueue to succeed")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("task was not executed")
	}

	d.Stop()
	wg.Wait()
}

func TestDispatcher_StartTwiceFails(t *testing.T) {
	d := NewDispatcher(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	if err := d.Start(ctx, &wg); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	if err := d.Start(ctx, &wg); err == nil {
		t.Fatalf("expected second start to fail")
	}

	d.Stop()
	wg.Wait()
}

func TestDispatcher_RejectsWhenFull(t *testing.T) {
	// Not started: nothing drains the queue.
	d := NewDispatcher(1)

	if !d.Enqueue(func(ctx context.Context) {}) {
		t.Fatalf("expected first enqueue to succeed")
	}
	if d.Enqueue(func(ctx context.Context) {}) {
		t.Fatalf("expected enqueue on a full queue to be rejected")
	}
	if d.Pending() != 1 {
		t.Fatalf("expected 1 pending task, got %d", d.Pending())
	}
}

func TestDispatcher_RecoversFromPanickingTask(t *testing.T) {
	d := NewDispatcher(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	if err := d.Start(ctx, &wg); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	done := make(chan struct{})
	d.Enqueue(func(ctx context.Context) { panic("boom") })
	d.Enqueue(func(ctx context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not survive panicking task")
	}

	d.Stop()
	wg.Wait()
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	d := NewDispatcher(1)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	if err := d.Start(ctx, &wg); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	cancel()
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop on context cancel")
	}
}
