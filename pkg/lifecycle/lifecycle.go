// Package lifecycle ties hooks and background loops to one cancellable
// process context.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem can take traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator owns the process context. Shutdown cancels it and waits for
// every shutdown hook and worker to return.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool
}

// New returns a Coordinator with a live context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn now, concurrently with other startup hooks.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn now. Hooks block on <-Context().Done() before
// releasing their resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Go starts a worker that must return once ctx is cancelled. Shutdown
// waits for it alongside the shutdown hooks.
func (c *Coordinator) Go(fn func(ctx context.Context)) {
	c.shutdown.Go(func() { fn(c.ctx) })
}

// Ready reports whether every startup hook has finished.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks on the startup hooks, then marks the coordinator
// ready.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the context and waits up to timeout for hooks and
// workers to drain.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
