package shutdown

import (
	"context"
	"log/slog"
	"sync"
)

// Coordinator owns the exit-signal origin and the receiving end of the
// shutdown-reason channel. The first reason to arrive fires the broadcast;
// later reasons may still be buffered but change nothing observable.
//
// The coordinator belongs to the top-level process. Subsystems only ever see
// Sender and Exit clones handed out through the task executor.
type Coordinator struct {
	signal  *Signal
	exit    Exit
	reasons chan Reason

	mx    sync.Mutex
	first Reason
	fired bool
}

// reasonBuffer bounds how many late reasons can pile up before TrySend
// starts dropping them.
const reasonBuffer = 4

func NewCoordinator() *Coordinator {
	signal, exit := NewExit()
	return &Coordinator{
		signal:  signal,
		exit:    exit,
		reasons: make(chan Reason, reasonBuffer),
	}
}

// Sender returns a duplicate of the shutdown-reason sender.
func (c *Coordinator) Sender() Sender {
	return Sender{ch: c.reasons}
}

// Exit returns a fresh clone of the exit receiver.
func (c *Coordinator) Exit() Exit {
	return c.exit
}

// Wait blocks until the first shutdown reason arrives, fires the exit
// broadcast and returns that reason. A cancelled ctx counts as a clean halt.
// Subsequent calls return the recorded first reason immediately.
func (c *Coordinator) Wait(ctx context.Context) Reason {
	c.mx.Lock()
	if c.fired {
		first := c.first
		c.mx.Unlock()
		return first
	}
	c.mx.Unlock()

	var reason Reason
	select {
	case reason = <-c.reasons:
	case <-ctx.Done():
		reason = Success("context cancelled")
	}

	c.mx.Lock()
	if !c.fired {
		c.first = reason
		c.fired = true
	} else {
		reason = c.first
	}
	c.mx.Unlock()

	slog.DebugContext(ctx, "shutdown reason received, firing exit broadcast",
		"reason", reason.Message(), "failed", reason.Failed())
	c.signal.Fire()
	return reason
}
