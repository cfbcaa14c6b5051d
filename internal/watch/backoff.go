package watch

import (
	"context"
	"math/rand"
	"time"
)

// Default retry configuration values.
const (
	DefaultRetryInitial = 500 * time.Millisecond
	DefaultRetryMax     = 10 * time.Second
)

// backoff implements exponential backoff with jitter.
type backoff struct {
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{
		max:     max,
		current: initial,
	}
}

// Wait sleeps for the current backoff duration and increases it. It returns
// false if ctx ends first.
func (b *backoff) Wait(ctx context.Context) bool {
	// Add jitter: ±20%
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	t := time.NewTimer(time.Duration(float64(b.current) + jitter))
	defer t.Stop()

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Current returns the current backoff duration.
func (b *backoff) Current() time.Duration {
	return b.current
}
