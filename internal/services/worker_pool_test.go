package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/yungbote/mrkr-backend/internal/logger"
)

func TestWorkerPool_DrainsOnShutdown(t *testing.T) {
	pool := NewWorkerPool(2, logger.NewNop())

	var done int64
	for i := 0; i < 50; i++ {
		pool.Submit("increment", func(ctx context.Context) {
			atomic.AddInt64(&done, 1)
		})
	}
	pool.Shutdown()

	if got := atomic.LoadInt64(&done); got != 50 {
		t.Fatalf("completed tasks want=50 got=%d", got)
	}
}

func TestWorkerPool_DropsAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1, logger.NewNop())
	pool.Shutdown()

	var ran int64
	pool.Submit("late", func(ctx context.Context) {
		atomic.AddInt64(&ran, 1)
	})
	if got := atomic.LoadInt64(&ran); got != 0 {
		t.Fatalf("task submitted after shutdown must not run, got %d", got)
	}
}
