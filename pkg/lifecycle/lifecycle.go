// Package lifecycle runs startup checks and shutdown cleanup for the server
// and the trainer.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator collects startup hooks, runs them together in WaitForStartup,
// and releases shutdown hooks when Shutdown cancels its context.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	startup []func() error
	stopped sync.WaitGroup
	ready   atomic.Bool
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup queues fn for the next WaitForStartup.
func (c *Coordinator) OnStartup(fn func() error) {
	c.mu.Lock()
	c.startup = append(c.startup, fn)
	c.mu.Unlock()
}

// OnShutdown starts fn immediately. fn should block on Context().Done()
// before releasing anything.
func (c *Coordinator) OnShutdown(fn func()) {
	c.stopped.Go(fn)
}

// Ready reports whether the last WaitForStartup succeeded.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup runs the queued startup hooks concurrently and waits for
// all of them. Any failures are joined into the returned error and leave the
// coordinator not ready.
func (c *Coordinator) WaitForStartup() error {
	c.mu.Lock()
	hooks := c.startup
	c.startup = nil
	c.mu.Unlock()

	errs := make([]error, len(hooks))
	var wg sync.WaitGroup
	for i, fn := range hooks {
		wg.Go(func() { errs[i] = fn() })
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		c.ready.Store(false)
		return fmt.Errorf("startup failed: %w", err)
	}
	c.ready.Store(true)
	return nil
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.stopped.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown hooks still running after %v", timeout)
	}
}
