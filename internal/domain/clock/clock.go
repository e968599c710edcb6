// Package clock provides the injectable time source used by the rate
// limiter, so it can be driven by a deterministic clock in tests instead of
// wall-clock time.
package clock

import "time"

// Clock is the narrow time source pooly depends on.
type Clock interface {
	NowMillis() int64
	NowSeconds() int64
}

// System reads the real wall clock.
type System struct{}

func (System) NowMillis() int64 {
	return time.Now().UnixMilli()
}

func (System) NowSeconds() int64 {
	return time.Now().Unix()
}
