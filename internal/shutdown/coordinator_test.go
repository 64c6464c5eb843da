package shutdown_test

import (
	"context"
	"testing"
	"time"

	"github.com/meridianchain/meridian/internal/shutdown"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorFirstReasonWins(t *testing.T) {
	t.Parallel()

	c := shutdown.NewCoordinator()
	exit := c.Exit()
	s := c.Sender()

	require.True(t, s.TrySend(shutdown.Failure("disk full")))
	// late reasons may be buffered but change nothing observable
	s.TrySend(shutdown.Success("too late"))
	s.TrySend(shutdown.Failure("also too late"))

	reason := c.Wait(t.Context())
	require.True(t, reason.Failed())
	require.Equal(t, "disk full", reason.Message())

	select {
	case <-exit.Done():
	case <-time.After(time.Second):
		t.Fatal("exit broadcast did not fire")
	}

	// repeated waits return the recorded first reason
	again := c.Wait(t.Context())
	require.Equal(t, reason, again)
}

func TestCoordinatorContextCancelled(t *testing.T) {
	t.Parallel()

	c := shutdown.NewCoordinator()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	reason := c.Wait(ctx)
	require.False(t, reason.Failed())
	require.True(t, c.Exit().Triggered())
}

func TestCoordinatorManyObservers(t *testing.T) {
	t.Parallel()

	c := shutdown.NewCoordinator()

	const observers = 8
	done := make(chan struct{}, observers)
	for range observers {
		exit := c.Exit()
		go func() {
			<-exit.Done()
			done <- struct{}{}
		}()
	}

	require.True(t, c.Sender().TrySend(shutdown.Success("maintenance")))
	_ = c.Wait(t.Context())

	for range observers {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("observer missed the broadcast")
		}
	}
}
