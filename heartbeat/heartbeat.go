// Package heartbeat provides the tick scheduling used by periodic
// maintenance loops.
package heartbeat

import (
	"context"
	"time"
)

// Timer paces a maintenance loop. Tick blocks until the next beat is due
// or ctx is done, in which case it returns ctx's error.
type Timer interface {
	Tick(ctx context.Context) error
	Interval() time.Duration
}

// SleepingTimer beats at a fixed interval measured from the end of the
// previous tick, with no catch-up for late callers.
type SleepingTimer struct {
	interval time.Duration
}

// NewSleepingTimer creates a timer beating every interval.
func NewSleepingTimer(interval time.Duration) *SleepingTimer {
	return &SleepingTimer{interval: interval}
}

func (t *SleepingTimer) Interval() time.Duration {
	return t.interval
}

func (t *SleepingTimer) Tick(ctx context.Context) error {
	timer := time.NewTimer(t.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
