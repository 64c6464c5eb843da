package task

import (
	"context"
	"log/slog"

	"github.com/meridianchain/meridian/internal/metrics"
	"github.com/meridianchain/meridian/internal/shutdown"
)

// Executor is the cloneable handle through which subsystems spawn work.
// Clones share the engine reference, the exit receiver and the shutdown
// sender; only the logger differs between them. It is safe for concurrent
// use, no spawn path takes a lock.
type Executor struct {
	engine   Ref
	exit     shutdown.Exit
	shutdown shutdown.Sender
	log      *slog.Logger
}

func NewExecutor(engine Ref, exit shutdown.Exit, sender shutdown.Sender, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		engine:   engine,
		exit:     exit,
		shutdown: sender,
		log:      log,
	}
}

// CloneWithName returns an executor whose logger carries an added "service"
// field. The receiver and its logger are left untouched.
func (ex *Executor) CloneWithName(serviceName string) *Executor {
	return &Executor{
		engine:   ex.engine,
		exit:     ex.exit,
		shutdown: ex.shutdown,
		log:      ex.log.With("service", serviceName),
	}
}

// Runtime returns the non-owning engine reference.
func (ex *Executor) Runtime() Ref {
	return ex.engine
}

// Exit returns a fresh clone of the exit receiver, independent of all other
// clones.
func (ex *Executor) Exit() shutdown.Exit {
	return ex.exit
}

// ShutdownSender returns a duplicate of the shutdown-reason sender, usable
// to request a node-wide halt from anywhere.
func (ex *Executor) ShutdownSender() shutdown.Sender {
	return ex.shutdown
}

func (ex *Executor) Logger() *slog.Logger {
	return ex.log
}

// Spawn dispatches fn as fire-and-forget work, raced against the exit
// broadcast and watched by the panic monitor. When the engine is already
// torn down the call degrades to a debug-logged no-op.
func (ex *Executor) Spawn(fn func(context.Context), name string) {
	j := SpawnHandle(ex, func(ctx context.Context) struct{} {
		fn(ctx)
		return struct{}{}
	}, name)
	if j != nil {
		ex.spawnMonitor(j, name)
	}
}

// SpawnWithoutExit dispatches fn without coupling it to the exit broadcast
// and without the panic monitor. Meant for work that manages its own
// shutdown and cleanup, typically driven by an external serving loop; the
// caller wires cancellation if it wants any.
func (ex *Executor) SpawnWithoutExit(fn func(context.Context), name string) {
	engine, ok := ex.engine.Upgrade()
	if !ok {
		ex.log.Debug("cannot spawn task, engine torn down", "task", name)
		return
	}

	gauge := metrics.AsyncTasksGauge(name)
	if gauge != nil {
		gauge.Inc()
	}

	inner := Go(engine, context.Background(), func(ctx context.Context) struct{} {
		fn(ctx)
		return struct{}{}
	})

	log := ex.log
	go func() {
		<-inner.Done()
		if gauge != nil {
			gauge.Dec()
		}
		log.Debug("async task completed", "task", name)
	}()
}

// SpawnBlocking dispatches a synchronous unit to the blocking pool, watched
// by the panic monitor.
func (ex *Executor) SpawnBlocking(fn func(), name string) {
	j := SpawnBlockingHandle(ex, func() struct{} {
		fn()
		return struct{}{}
	}, name)
	if j != nil {
		ex.spawnMonitor(j, name)
	}
}

// SpawnHandle dispatches fn raced against the exit broadcast and returns
// the handle to the raced outcome, or nil when the engine is already torn
// down. If the exit broadcast wins, fn's context is cancelled, the outcome
// is Cancelled and the in-flight gauge is decremented at abandonment; fn
// itself is not forcibly stopped and may keep running past that point.
func SpawnHandle[R any](ex *Executor, fn func(context.Context) R, name string) *Join[R] {
	engine, ok := ex.engine.Upgrade()
	if !ok {
		ex.log.Debug("cannot spawn task, engine torn down", "task", name)
		return nil
	}

	gauge := metrics.AsyncTasksGauge(name)
	if gauge != nil {
		gauge.Inc()
	}

	ctx, cancel := context.WithCancel(context.Background())
	inner := Go(engine, ctx, fn)
	outer := newJoin[R]()

	exit := ex.exit
	log := ex.log
	go func() {
		select {
		case <-inner.Done():
			cancel()
			v, out := inner.Result()
			if out == Faulted {
				outer.fault(inner.Diagnostic())
			} else {
				log.Debug("async task completed", "task", name)
				outer.complete(v)
			}
		case <-exit.Done():
			cancel()
			log.Debug("async task shutdown, exit received", "task", name)
			outer.cancel()
		}
		if gauge != nil {
			gauge.Dec()
		}
	}()
	return outer
}

// SpawnBlockingHandle dispatches fn to the blocking pool and returns the
// handle to its outcome, or nil when the engine is already torn down. The
// duration observation spans dispatch to completion, queueing for a pool
// slot included. Blocking units are not raced against the exit broadcast.
func SpawnBlockingHandle[R any](ex *Executor, fn func() R, name string) *Join[R] {
	engine, ok := ex.engine.Upgrade()
	if !ok {
		ex.log.Debug("cannot spawn blocking task, engine torn down", "task", name)
		return nil
	}

	timer := metrics.BlockingTasksTimer(name)
	gauge := metrics.BlockingTasksGauge(name)
	if gauge != nil {
		gauge.Inc()
	}

	inner := GoBlocking(engine, fn)
	outer := newJoin[R]()

	log := ex.log
	go func() {
		v, out := inner.Result()
		if out == Faulted {
			log.Debug("blocking task ended unexpectedly", "task", name, "message", inner.Diagnostic())
			outer.fault(inner.Diagnostic())
		} else {
			log.Debug("blocking task completed", "task", name)
			outer.complete(v)
		}
		if timer != nil {
			timer.ObserveDuration()
		}
		if gauge != nil {
			gauge.Dec()
		}
	}()
	return outer
}
