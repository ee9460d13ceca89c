package services

import (
	"context"
	"sync"

	"github.com/yungbote/mrkr-backend/internal/logger"
)

type task struct {
	name string
	fn   func(ctx context.Context)
}

// WorkerPool is the single process-wide pool of background workers. Submit
// never blocks the caller; tasks queue until a worker is free. Shutdown is
// graceful: in-flight and queued tasks drain before it returns.
type WorkerPool struct {
	log *logger.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []task
	closed bool

	workers sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewWorkerPool(maxWorkers int, baseLog *logger.Logger) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		log:    baseLog.With("service", "WorkerPool"),
		ctx:    ctx,
		cancel: cancel,
	}
	pool.cond = sync.NewCond(&pool.mu)

	pool.workers.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go pool.work()
	}
	pool.log.Info("Worker pool initialized", "max_workers", maxWorkers)
	return pool
}

// Submit enqueues a task and returns immediately. Tasks submitted after
// Shutdown are dropped with a warning.
func (p *WorkerPool) Submit(name string, fn func(ctx context.Context)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn("Task submitted after shutdown, dropping", "task", name)
		return
	}
	p.log.Debug("Submitting task to worker pool", "task", name)
	p.queue = append(p.queue, task{name: name, fn: fn})
	p.cond.Signal()
}

func (p *WorkerPool) work() {
	defer p.workers.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.closed {
			p.mu.Unlock()
			return
		}
		next := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		next.fn(p.ctx)
	}
}

// Shutdown stops accepting tasks and waits until the queue drains and all
// workers exit.
func (p *WorkerPool) Shutdown() {
	p.log.Info("Shutting down worker pool...")
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.workers.Wait()
	p.cancel()
	p.log.Info("Worker pool drained")
}
