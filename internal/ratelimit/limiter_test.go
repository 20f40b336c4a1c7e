package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlimitedLimiterNeverBlocks(t *testing.T) {
	l := New("catalog", 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow())
	}
	require.NoError(t, l.Wait(context.Background()))
}

func TestLimiterBurst(t *testing.T) {
	l := New("catalog", 2)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow(), "third immediate request should exceed the burst")
}

func TestLimiterFractionalRateHasBurstOfOne(t *testing.T) {
	l := New("slow", 0.5)

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestWaitCancelledContext(t *testing.T) {
	l := New("catalog", 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for catalog")
}

func TestName(t *testing.T) {
	assert.Equal(t, "http-gateway", New("http-gateway", 5).Name())
}
