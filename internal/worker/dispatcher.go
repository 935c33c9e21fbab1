package worker

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Task is one unit of detached work, typically a notification delivery for a
// single quote event.
type Task func(ctx context.Context)

// Dispatcher runs enqueued tasks on a single background goroutine behind a
// bounded queue. Enqueue never blocks the request path: when the queue is
// full the task is rejected and the caller decides what to record.
type Dispatcher struct {
	tasks     chan Task
	mu        sync.Mutex
	isRunning bool
	quit      chan struct{}
}

func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		tasks: make(chan Task, queueSize),
		quit:  make(chan struct{}),
	}
}

// Start launches the worker goroutine. It drains tasks until ctx is
// cancelled or Stop is called, then marks wg done.
func (d *Dispatcher) Start(ctx context.Context, wg *sync.WaitGroup) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isRunning {
		return errors.New("dispatcher is already running")
	}
	d.isRunning = true
	wg.Add(1)

	go func() {
		defer wg.Done()
		log.Println("[worker] notification dispatcher started")
		for {
			select {
			case task := <-d.tasks:
				d.run(ctx, task)
			case <-d.quit:
				log.Println("[worker] notification dispatcher stopped by toggle")
				return
			case <-ctx.Done():
				log.Println("[worker] shutdown signal received, stopping notification dispatcher")
				return
			}
		}
	}()

	return nil
}

// Stop halts the worker. Queued tasks that have not started are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isRunning {
		return
	}
	d.isRunning = false
	close(d.quit)
}

// Enqueue offers a task to the queue. Returns false when the queue is full
// so callers can log and move on instead of blocking a request.
func (d *Dispatcher) Enqueue(task Task) bool {
	select {
	case d.tasks <- task:
		return true
	default:
		return false
	}
}

// Pending reports how many tasks are waiting in the queue.
func (d *Dispatcher) Pending() int {
	return len(d.tasks)
}

func (d *Dispatcher) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[worker] recovered from panicking task: %v", r)
		}
	}()
	task(ctx)
}
