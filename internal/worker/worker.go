package worker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Task is one queued job body. ctx is the pool's base context.
type Task func(ctx context.Context)

// Pool runs tasks on a fixed number of goroutines.
type Pool interface {
	Submit(ctx context.Context, t Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(base context.Context, n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{tasks: make(chan Task), base: base}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				if t != nil {
					t(p.base)
				}
			}
		}()
	}
	return p
}

type pool struct {
	tasks chan Task
	base  context.Context
	wg    sync.WaitGroup
	once  sync.Once
}

// Submit blocks until a worker accepts t or ctx is done.
func (p *pool) Submit(ctx context.Context, t Task) error {
	select {
	case p.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop waits for running tasks to finish. Submit must not be called afterwards.
func (p *pool) Stop() {
	p.once.Do(func() { close(p.tasks) })
	p.wg.Wait()
}

// RunWithTimeout 在 timeout 內執行 fn，逾時則取消 context 並回傳錯誤
func RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("job timed out after %v", timeout)
	}
}
