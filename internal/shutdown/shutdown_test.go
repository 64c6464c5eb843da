package shutdown_test

import (
	"testing"
	"time"

	"github.com/meridianchain/meridian/internal/shutdown"
	"github.com/stretchr/testify/require"
)

func TestReason(t *testing.T) {
	t.Parallel()

	ok := shutdown.Success("done")
	require.False(t, ok.Failed())
	require.Equal(t, "done", ok.Message())
	require.Equal(t, "success: done", ok.String())

	bad := shutdown.Failure("disk full")
	require.True(t, bad.Failed())
	require.Equal(t, "disk full", bad.Message())
	require.Equal(t, "failure: disk full", bad.String())
}

func TestExitBroadcast(t *testing.T) {
	t.Parallel()

	signal, exit := shutdown.NewExit()

	// clones are value copies and start unresolved
	clone1 := exit
	clone2 := exit
	require.False(t, clone1.Triggered())
	require.False(t, clone2.Triggered())

	signal.Fire()

	for _, e := range []shutdown.Exit{exit, clone1, clone2} {
		select {
		case <-e.Done():
		case <-time.After(time.Second):
			t.Fatal("exit clone did not observe the broadcast")
		}
		require.True(t, e.Triggered())
		// observation is idempotent
		require.True(t, e.Triggered())
	}

	// firing again changes nothing
	signal.Fire()
	require.True(t, exit.Triggered())
}

func TestSenderTrySend(t *testing.T) {
	t.Parallel()

	t.Run("zero sender drops", func(t *testing.T) {
		t.Parallel()
		var s shutdown.Sender
		require.False(t, s.TrySend(shutdown.Success("nowhere")))
	})

	t.Run("full channel drops", func(t *testing.T) {
		t.Parallel()
		c := shutdown.NewCoordinator()
		s := c.Sender()

		sent := 0
		for range 64 {
			if s.TrySend(shutdown.Failure("again")) {
				sent++
			}
		}
		require.Greater(t, sent, 0)
		require.Less(t, sent, 64)
	})
}
