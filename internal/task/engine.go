// Package task is the lifecycle and supervision layer of the node. Every
// subsystem spawns its concurrent and blocking work through an Executor,
// which couples task lifetime to the node-wide exit broadcast, escalates
// unrecovered faults into a coordinated shutdown and keeps per-task
// in-flight accounting.
package task

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultBlockingWorkers bounds the blocking pool when no explicit size is
// configured.
const DefaultBlockingWorkers = 512

// Engine is the execution engine. Async units run on plain goroutines;
// blocking units go through a dedicated bounded pool so long synchronous
// operations cannot starve cooperative progress elsewhere.
type Engine struct {
	closed   atomic.Bool
	blocking *semaphore.Weighted
}

func NewEngine(blockingWorkers int) *Engine {
	if blockingWorkers <= 0 {
		blockingWorkers = DefaultBlockingWorkers
	}
	return &Engine{
		blocking: semaphore.NewWeighted(int64(blockingWorkers)),
	}
}

// Close marks the engine torn down. It never waits for outstanding work:
// units dispatched before Close keep running, new scheduling attempts fail
// the Upgrade check and degrade to a no-op at the call site.
func (e *Engine) Close() {
	e.closed.Store(true)
}

// Ref returns a non-owning handle to the engine.
func (e *Engine) Ref() Ref {
	return Ref{e: e}
}

// Ref is a non-owning engine handle. Holders must Upgrade before scheduling
// and treat failure as "engine already torn down, do not schedule". Holding
// a Ref never delays engine teardown.
type Ref struct {
	e *Engine
}

// Upgrade returns the engine while it is alive.
func (r Ref) Upgrade() (*Engine, bool) {
	if r.e == nil || r.e.closed.Load() {
		return nil, false
	}
	return r.e, true
}

// Go dispatches fn onto the engine and returns the handle to its outcome.
// An unrecovered panic inside fn resolves the handle as Faulted instead of
// crashing the process.
func Go[R any](e *Engine, ctx context.Context, fn func(context.Context) R) *Join[R] {
	j := newJoin[R]()
	go run(j, ctx, fn)
	return j
}

// GoBlocking dispatches fn to the blocking pool. The unit waits for a pool
// slot before running; the handle resolves once fn has run.
func GoBlocking[R any](e *Engine, fn func() R) *Join[R] {
	j := newJoin[R]()
	go func() {
		if err := e.blocking.Acquire(context.Background(), 1); err != nil {
			j.fault(err.Error())
			return
		}
		defer e.blocking.Release(1)
		run(j, context.Background(), func(context.Context) R { return fn() })
	}()
	return j
}

func run[R any](j *Join[R], ctx context.Context, fn func(context.Context) R) {
	defer func() {
		if rec := recover(); rec != nil {
			j.fault(diagnostic(rec))
		}
	}()
	j.complete(fn(ctx))
}

// faultSentinel stands in for panic payloads which carry no usable message.
const faultSentinel = "<none>"

func diagnostic(rec any) string {
	switch v := rec.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return faultSentinel
	}
}
