package pool

import (
	"sync"
	"sync/atomic"

	"github.com/mrrabbitte/pooly/internal/domain/clock"
	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
)

// RateLimiter gates request admission against one connection.
type RateLimiter interface {
	Acquire() error
}

// NoOpRateLimiter admits every request, used for connections without a
// configured RateLimitConfig.
type NoOpRateLimiter struct{}

func (NoOpRateLimiter) Acquire() error { return nil }

// LeakyBucket is a simplistic leaky-bucket limiter: an atomic ticket counter
// that resets once every period_millis, guarded for the reset itself by a
// mutex so only one goroutine performs the reset per period.
type LeakyBucket struct {
	clock clock.Clock

	maxRequestsPerPeriod uint32
	periodMillis         uint64

	tickets           atomic.Uint32
	lastUpdatedMillis struct {
		mu    sync.Mutex
		value int64
	}
}

// NewLeakyBucket builds a LeakyBucket admitting maxRequestsPerPeriod
// requests every periodMillis, as observed by c.
func NewLeakyBucket(c clock.Clock, maxRequestsPerPeriod uint32, periodMillis uint64) *LeakyBucket {
	b := &LeakyBucket{clock: c, maxRequestsPerPeriod: maxRequestsPerPeriod, periodMillis: periodMillis}
	b.lastUpdatedMillis.value = c.NowMillis()

	return b
}

// Acquire returns nil if a ticket is available in the current period,
// otherwise TooManyRequests.
func (b *LeakyBucket) Acquire() error {
	if b.hasFreeTickets() {
		return nil
	}

	b.updateTickets()

	if b.hasFreeTickets() {
		return nil
	}

	return poolyerrors.NewTooManyRequests(b.maxRequestsPerPeriod, b.periodMillis)
}

func (b *LeakyBucket) hasFreeTickets() bool {
	return b.tickets.Add(1) <= b.maxRequestsPerPeriod
}

func (b *LeakyBucket) updateTickets() {
	b.lastUpdatedMillis.mu.Lock()
	defer b.lastUpdatedMillis.mu.Unlock()

	now := b.clock.NowMillis()

	if b.lastUpdatedMillis.value+int64(b.periodMillis) <= now {
		b.tickets.Store(0)
		b.lastUpdatedMillis.value = now
	}
}
