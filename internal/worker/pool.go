// Package worker runs detached tasks whose outcome the dispatching caller never waits for.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of detached work. Its error is logged and otherwise dropped.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool manages a fixed number of workers draining a shared task queue.
type Pool struct {
	size    int
	jobs    chan Task
	timeout time.Duration
	logger  *zap.Logger
	done    <-chan struct{}
}

// NewPool creates a pool. timeout bounds each task run; zero means no bound beyond the pool context.
func NewPool(size int, timeout time.Duration, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		size:    size,
		jobs:    make(chan Task, size*16),
		timeout: timeout,
		logger:  logger,
	}
}

// Start launches the worker goroutines. Tasks run under ctx, not under the dispatcher's context,
// so a detached write outlives the request that triggered it.
func (p *Pool) Start(ctx context.Context) {
	p.done = ctx.Done()
	for i := 0; i < p.size; i++ {
		go p.worker(ctx, i)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	p.logger.Debug("worker started", zap.Int("worker", id))
	for {
		select {
		case task := <-p.jobs:
			p.run(ctx, id, task)
		case <-ctx.Done():
			p.logger.Debug("worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

func (p *Pool) run(ctx context.Context, id int, task Task) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		p.logger.Warn("detached task failed",
			zap.Int("worker", id),
			zap.String("task", task.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("detached task done", zap.Int("worker", id), zap.String("task", task.Name))
}

// Dispatch queues a task without ever blocking. A task that finds the queue full, or the pool
// stopped, is dropped with a warning.
func (p *Pool) Dispatch(task Task) {
	select {
	case <-p.done:
		p.logger.Warn("pool stopped, dropping task", zap.String("task", task.Name))
		return
	default:
	}

	select {
	case p.jobs <- task:
	default:
		p.logger.Warn("task queue full, dropping task", zap.String("task", task.Name), zap.Int("capacity", cap(p.jobs)))
	}
}

// Jobs returns the jobs channel for testing.
func (p *Pool) Jobs() chan Task {
	return p.jobs
}
