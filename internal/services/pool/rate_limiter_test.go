package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
)

type fakeClock struct {
	millis int64
}

func (c *fakeClock) NowMillis() int64  { return c.millis }
func (c *fakeClock) NowSeconds() int64 { return c.millis / 1000 }

func TestNoOpRateLimiter_AlwaysAcquires(t *testing.T) {
	var limiter NoOpRateLimiter

	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Acquire())
	}
}

func TestLeakyBucket_AdmitsUpToLimitThenRejects(t *testing.T) {
	c := &fakeClock{millis: 0}
	bucket := NewLeakyBucket(c, 3, 1000)

	for i := 0; i < 3; i++ {
		require.NoError(t, bucket.Acquire())
	}

	err := bucket.Acquire()
	require.Error(t, err)

	rateErr, ok := err.(*poolyerrors.RateLimitError)
	require.True(t, ok)
	assert.Equal(t, poolyerrors.RateLimitTooManyRequests, rateErr.Kind)
}

func TestLeakyBucket_RefillsAfterPeriodElapses(t *testing.T) {
	c := &fakeClock{millis: 0}
	bucket := NewLeakyBucket(c, 1, 1000)

	require.NoError(t, bucket.Acquire())
	require.Error(t, bucket.Acquire())

	c.millis = 1000

	require.NoError(t, bucket.Acquire())
}

func TestBuildRateLimiter_NilConfigProducesNoOp(t *testing.T) {
	limiter := buildRateLimiter(&fakeClock{}, nil)

	_, ok := limiter.(NoOpRateLimiter)
	assert.True(t, ok)
}
