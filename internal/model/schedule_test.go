package model_test

import (
	"testing"
	"time"

	"github.com/meridianchain/meridian/internal/model"
	"github.com/stretchr/testify/require"
)

func TestParseCron(t *testing.T) {
	t.Parallel()

	var testCases = []struct {
		scenario string
		expr     string
		want     time.Duration
		wantErr  bool
	}{
		{"every five minutes", "*/5 * * * *", 5 * time.Minute, false},
		{"hourly macro", "@hourly", time.Hour, false},
		{"every macro", "@every 90s", 90 * time.Second, false},
		{"empty", "", 0, true},
		{"gibberish", "not a cron", 0, true},
		{"six fields", "0 0 * * * *", 0, true},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			got, err := model.ParseCron(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseISODuration(t *testing.T) {
	t.Parallel()

	var testCases = []struct {
		scenario string
		dur      string
		want     time.Duration
		wantErr  bool
	}{
		{"seconds", "PT30S", 30 * time.Second, false},
		{"minutes and seconds", "PT1M30S", 90 * time.Second, false},
		{"day hour", "P1DT2H", 26 * time.Hour, false},
		{"fractional second", "PT0.5S", 500 * time.Millisecond, false},
		{"empty", "", 0, true},
		{"bare P", "P", 0, true},
		{"bare PT", "PT", 0, true},
		{"ambiguous month", "P2M", 0, true},
		{"not iso", "30s", 0, true},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			got, err := model.ParseISODuration(tt.dur)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestHeartbeatInterval(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }

	var testCases = []struct {
		scenario string
		given    model.Heartbeat
		want     time.Duration
		wantErr  bool
	}{
		{"neither set uses the default", model.Heartbeat{Enabled: true}, model.DefaultHeartbeatInterval, false},
		{"duration set", model.Heartbeat{Enabled: true, Duration: str("PT10S")}, 10 * time.Second, false},
		{"cron set", model.Heartbeat{Enabled: true, Cron: str("@hourly")}, time.Hour, false},
		{"both set", model.Heartbeat{Enabled: true, Cron: str("@hourly"), Duration: str("PT10S")}, 0, true},
		{"bad duration", model.Heartbeat{Enabled: true, Duration: str("10 parsecs")}, 0, true},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			got, err := tt.given.Interval()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
