package log_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/meridianchain/meridian/internal/log"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(true, &buf)

	ctx := log.Attrs(t.Context(), slog.String("service", "network"))
	ctx = log.Attrs(ctx, slog.Int("peer_count", 12))
	logger.InfoContext(ctx, "peers updated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "peers updated", entry["msg"])
	require.Equal(t, "network", entry["service"])
	require.InDelta(t, 12, entry["peer_count"], 0.0)
}

func TestAttrsDoNotLeakToOtherContexts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(false, &buf)

	_ = log.Attrs(t.Context(), slog.String("service", "storage"))
	logger.InfoContext(t.Context(), "plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.NotContains(t, entry, "service")
}

func TestVerboseLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(false, &buf)
	logger.Debug("hidden")
	require.Zero(t, buf.Len())

	verbose := log.New(true, &buf)
	verbose.Debug("visible")
	require.NotZero(t, buf.Len())
}

func TestWriter(t *testing.T) {
	t.Parallel()

	var testCases = []struct {
		dest string
		want io.Writer
	}{
		{"", os.Stderr},
		{"stderr", os.Stderr},
		{"stdout", os.Stdout},
		{"discard", io.Discard},
	}
	for _, tt := range testCases {
		w, err := log.Writer(tt.dest)
		require.NoError(t, err)
		require.Equal(t, tt.want, w)
	}

	path := t.TempDir() + "/node.log"
	w, err := log.Writer(path)
	require.NoError(t, err)
	f, ok := w.(*os.File)
	require.True(t, ok)
	require.NoError(t, f.Close())
}
