package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_FirstWaitDoesNotBlock(t *testing.T) {
	th := NewThrottle(time.Hour)

	start := time.Now()
	require.NoError(t, th.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestThrottle_EnforcesMinimumGap(t *testing.T) {
	const gap = 50 * time.Millisecond
	th := NewThrottle(gap)
	ctx := context.Background()

	require.NoError(t, th.Wait(ctx))
	start := time.Now()
	require.NoError(t, th.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), gap)
}

func TestThrottle_ZeroDelayNeverBlocks(t *testing.T) {
	th := NewThrottle(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, th.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestThrottle_CancellationUnblocks(t *testing.T) {
	th := NewThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, th.Wait(ctx))
	cancel()
	assert.Error(t, th.Wait(ctx))
}
