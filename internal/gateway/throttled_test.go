package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/ratelimit"
)

func TestThrottledDelegates(t *testing.T) {
	ctx := context.Background()
	g := NewThrottled(NewMockGateway(sampleBooks(), WithLatency(0)), ratelimit.New("test", 0))

	books, err := g.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)

	created, err := g.Create(ctx, sampleBooks()[0])
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	replaced, err := g.Replace(ctx, sampleBooks()[1])
	require.NoError(t, err)
	assert.Equal(t, 2, replaced.ID)

	id, err := g.Remove(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

func TestThrottledCancelledWaitIsTransportError(t *testing.T) {
	limiter := ratelimit.New("test", 1)
	require.True(t, limiter.Allow())
	g := NewThrottled(NewMockGateway(sampleBooks(), WithLatency(0)), limiter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Remove(ctx, 1)
	require.Error(t, err)
	assert.True(t, errs.IsTransportError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThrottledBlocksOnceBudgetIsSpent(t *testing.T) {
	limiter := ratelimit.New("catalog", 1)
	g := NewThrottled(NewMockGateway(sampleBooks(), WithLatency(0)), limiter)

	_, err := g.FetchAll(context.Background())
	require.NoError(t, err, "the first call spends the burst without waiting")
	assert.False(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = g.FetchAll(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsTransportError(err))
	assert.Contains(t, err.Error(), "rate limit wait for "+limiter.Name())
}
