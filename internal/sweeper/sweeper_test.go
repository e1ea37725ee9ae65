package sweeper

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperRunsOnInterval(t *testing.T) {
	var runs atomic.Int64
	s, err := New(10*time.Millisecond, func(now time.Time, dryRun bool) {
		runs.Add(1)
		assert.False(t, dryRun)
	})
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSweeperStopHaltsJobs(t *testing.T) {
	var runs atomic.Int64
	s, err := New(10*time.Millisecond, func(time.Time, bool) {
		runs.Add(1)
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}
