package scheduler

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCron(t *testing.T) *Cron {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return New(time.UTC, logrus.NewEntry(logger))
}

func TestDailySpec(t *testing.T) {
	tests := []struct {
		name    string
		hour    int
		minute  int
		days    []int
		want    string
		wantErr bool
	}{
		{name: "Should build weekday spec", hour: 9, minute: 0, days: []int{1, 2, 3, 4, 5}, want: "0 9 * * 1,2,3,4,5"},
		{name: "Should map Sunday to zero", hour: 18, minute: 30, days: []int{6, 7}, want: "30 18 * * 6,0"},
		{name: "Should reject an invalid hour", hour: 24, minute: 0, days: []int{1}, wantErr: true},
		{name: "Should reject an invalid minute", hour: 9, minute: 60, days: []int{1}, wantErr: true},
		{name: "Should reject an invalid weekday", hour: 9, minute: 0, days: []int{0}, wantErr: true},
		{name: "Should reject no days", hour: 9, minute: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DailySpec(tt.hour, tt.minute, tt.days)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCron_Register(t *testing.T) {
	c := newTestCron(t)

	require.NoError(t, c.Daily(9, 0, []int{1, 2, 3, 4, 5}, func() {}))
	require.NoError(t, c.Every("@every 1m", func() {}))
	assert.Error(t, c.Every("whenever", func() {}))
	assert.Error(t, c.Daily(9, 0, nil, func() {}))

	assert.Len(t, c.engine.Entries(), 2)
}

func TestCron_RunsPeriodicJob(t *testing.T) {
	c := newTestCron(t)

	ran := make(chan struct{}, 1)
	require.NoError(t, c.Every("@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	c.Start()
	defer c.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("periodic job did not run")
	}
}

func TestCron_DailyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	logger, _ := test.NewNullLogger()
	c := New(loc, logrus.NewEntry(logger))

	require.NoError(t, c.Daily(9, 0, []int{1}, func() {}))

	entries := c.engine.Entries()
	require.Len(t, entries, 1)

	// the engine hands schedules times in its own location
	next := entries[0].Schedule.Next(time.Date(2024, 1, 7, 9, 0, 0, 0, loc))
	assert.True(t, time.Date(2024, 1, 8, 9, 0, 0, 0, loc).Equal(next))
}
