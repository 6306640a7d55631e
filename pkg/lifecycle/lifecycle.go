// Package lifecycle coordinates subsystem startup and shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator collects startup and shutdown hooks from subsystems and runs
// them concurrently at the right point in the process lifecycle. Its context
// is cancelled when Shutdown begins.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	ready         bool
	startupHooks  []func()
	shutdownHooks []func()
}

// New creates a Coordinator with a cancellable root context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers fn to run when WaitForStartup is called. Hooks run
// concurrently with each other.
func (c *Coordinator) OnStartup(fn func()) {
	c.mu.Lock()
	c.startupHooks = append(c.startupHooks, fn)
	c.mu.Unlock()
}

// OnShutdown registers fn to run during Shutdown, after the coordinator
// context has been cancelled.
func (c *Coordinator) OnShutdown(fn func()) {
	c.mu.Lock()
	c.shutdownHooks = append(c.shutdownHooks, fn)
	c.mu.Unlock()
}

// Ready reports whether all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// WaitForStartup runs every registered startup hook and blocks until all of
// them finish, then marks the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.mu.Lock()
	hooks := c.startupHooks
	c.mu.Unlock()

	var wg sync.WaitGroup
	for _, fn := range hooks {
		wg.Go(fn)
	}
	wg.Wait()

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
}

// Shutdown cancels the coordinator context, runs the shutdown hooks
// concurrently, and waits for them up to timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	c.mu.Lock()
	hooks := c.shutdownHooks
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, fn := range hooks {
			wg.Go(fn)
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timed out after %v", timeout)
	}
}
