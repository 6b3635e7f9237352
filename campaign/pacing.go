package campaign

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delayer waits between two consecutive sends of the same worker.
type Delayer interface {
	Delay(ctx context.Context) error
}

// NoDelay never waits.
type NoDelay struct{}

func (NoDelay) Delay(ctx context.Context) error {
	return ctx.Err()
}

// RandomDelay waits a uniformly random duration in [Min, Max].
type RandomDelay struct {
	Min, Max time.Duration

	int64N func(n int64) int64
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRandomDelay(min, max time.Duration) *RandomDelay {
	if max < min {
		min, max = max, min
	}
	return &RandomDelay{
		Min:    min,
		Max:    max,
		int64N: rand.Int64N,
		sleep:  sleepContext,
	}
}

// Next picks the next duration without waiting.
func (r *RandomDelay) Next() time.Duration {
	span := int64(r.Max - r.Min)
	if span <= 0 {
		return r.Min
	}
	return r.Min + time.Duration(r.int64N(span+1))
}

func (r *RandomDelay) Delay(ctx context.Context) error {
	return r.sleep(ctx, r.Next())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
