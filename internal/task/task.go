// Package task manages the lifecycle of goroutines for the free-running
// processes of the harness, such as the reference clock source driving a
// real DUT.
package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arloliu/go-uartsim/logger"
)

// Func is a task body executed repeatedly by Start.
// It should return true to continue running, or false to stop the goroutine.
type Func func() bool

// CtxFunc is a one-shot task body executed by Go. It should return when the
// given context is cancelled.
type CtxFunc func(ctx context.Context)

// Manager manages the lifecycle of goroutines within the harness.
//
// It uses a context.Context to signal termination: when Stop is called, all
// running tasks are cancelled, and Wait blocks until they have terminated.
// After Wait returns the manager is reusable.
type Manager struct {
	pctx   context.Context
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger logger.Logger
	count  atomic.Int32
	mu     sync.RWMutex // protects ctx and cancel
}

// NewManager creates a Manager with the given parent context and logger.
func NewManager(ctx context.Context, l logger.Logger) *Manager {
	mgr := &Manager{pctx: ctx, logger: l}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

// getContext safely returns the current context.
func (mgr *Manager) getContext() context.Context {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	return mgr.ctx
}

// Start runs fn in a loop on a new goroutine until fn returns false or the
// manager is stopped.
func (mgr *Manager) Start(name string, fn Func) error {
	mgr.logger.Debug("start task", "name", name)

	ctx, err := mgr.liveContext(name)
	if err != nil {
		return err
	}

	mgr.spawn(name, func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if !fn() {
					return
				}
			}
		}
	})

	return nil
}

// Go runs fn once on a new goroutine, passing the manager's context. fn is
// expected to return when the context is cancelled.
func (mgr *Manager) Go(name string, fn CtxFunc) error {
	mgr.logger.Debug("start one-shot task", "name", name)

	ctx, err := mgr.liveContext(name)
	if err != nil {
		return err
	}

	mgr.spawn(name, func() {
		fn(ctx)
	})

	return nil
}

// Stop signals all running tasks to terminate.
func (mgr *Manager) Stop() {
	mgr.mu.Lock()
	if mgr.cancel != nil {
		mgr.cancel()
	}
	mgr.mu.Unlock()
}

// Wait blocks until all tasks have terminated, then re-arms the manager for
// further use.
func (mgr *Manager) Wait() {
	mgr.wg.Wait()

	mgr.mu.Lock()
	mgr.ctx, mgr.cancel = context.WithCancel(mgr.pctx)
	mgr.mu.Unlock()
}

// Count returns the number of currently running tasks.
func (mgr *Manager) Count() int {
	return int(mgr.count.Load())
}

func (mgr *Manager) liveContext(name string) (context.Context, error) {
	ctx := mgr.getContext()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("task: manager already stopped, cannot start %s", name)
	default:
	}

	return ctx, nil
}

func (mgr *Manager) spawn(name string, body func()) {
	mgr.wg.Add(1)
	mgr.count.Add(1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				mgr.logger.Error("panic in task", "name", name, "panic", r)
			}
			mgr.count.Add(-1)
			mgr.logger.Debug("task terminated", "name", name, "task_count", mgr.Count())
			mgr.wg.Done()
		}()

		body()
	}()
}
