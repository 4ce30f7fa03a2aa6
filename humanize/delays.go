// Package humanize provides randomized timing for human-like browsing
package humanize

import (
	"context"
	"time"
)

// Sleep pauses for d or until ctx is done, whichever comes first.
// It returns ctx.Err() when interrupted.
func Sleep(ctx context.Context, d time.Duration) error {
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

// SleepBetween pauses for a random whole-second duration in [min, max]
// and returns the duration it drew.
func (d *Dice) SleepBetween(ctx context.Context, min, max int) (time.Duration, error) {
	wait := d.Seconds(min, max)
	return wait, Sleep(ctx, wait)
}
