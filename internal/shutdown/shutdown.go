// Package shutdown carries the node-wide exit broadcast and the channel of
// shutdown reasons. Every subsystem reaches it through the task executor,
// never directly.
package shutdown

import (
	"sync"
)

// Reason explains why the node is halting. It is immutable once built.
type Reason struct {
	failure bool
	message string
}

// Success builds a reason for a clean, requested halt.
func Success(message string) Reason {
	return Reason{message: message}
}

// Failure builds a reason for a halt forced by an error condition.
func Failure(message string) Reason {
	return Reason{failure: true, message: message}
}

func (r Reason) Message() string {
	return r.message
}

// Failed reports whether the node is halting due to an error.
func (r Reason) Failed() bool {
	return r.failure
}

func (r Reason) String() string {
	if r.failure {
		return "failure: " + r.message
	}
	return "success: " + r.message
}

// Signal is the single origin of the exit broadcast. Fire resolves every
// Exit clone, existing and future, exactly once.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// NewExit creates the broadcast origin and its first receiver.
func NewExit() (*Signal, Exit) {
	ch := make(chan struct{})
	return &Signal{ch: ch}, Exit{ch: ch}
}

// Fire resolves the broadcast. Safe to call more than once.
func (s *Signal) Fire() {
	s.once.Do(func() {
		close(s.ch)
	})
}

// Exit is one receiver of the exit broadcast. Copying the value is the clone
// operation: every copy observes the same single resolution.
type Exit struct {
	ch <-chan struct{}
}

// Done returns the channel closed when the broadcast fires.
func (e Exit) Done() <-chan struct{} {
	return e.ch
}

// Triggered reports whether the broadcast already fired. Idempotent.
func (e Exit) Triggered() bool {
	select {
	case <-e.ch:
		return true
	default:
		return false
	}
}

// Sender is a duplicate-able handle over the shutdown-reason channel. Any
// subsystem holding one can request a node-wide halt.
type Sender struct {
	ch chan<- Reason
}

// NewChannel builds a reason channel together with its sending handle, for
// owners wiring a coordinator of their own.
func NewChannel(buffer int) (Sender, <-chan Reason) {
	ch := make(chan Reason, buffer)
	return Sender{ch: ch}, ch
}

// TrySend offers a reason without blocking. A full channel drops the reason
// and returns false; the caller must not retry on behalf of the same event.
// The channel is never closed, so a send cannot panic.
func (s Sender) TrySend(r Reason) bool {
	if s.ch == nil {
		return false
	}
	select {
	case s.ch <- r:
		return true
	default:
		return false
	}
}
