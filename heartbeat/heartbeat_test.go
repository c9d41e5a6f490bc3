package heartbeat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleepingTimer_Tick(t *testing.T) {
	timer := NewSleepingTimer(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, timer.Interval())

	start := time.Now()
	require.NoError(t, timer.Tick(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestSleepingTimer_Cancellation(t *testing.T) {
	timer := NewSleepingTimer(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- timer.Tick(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Tick did not return after cancellation")
	}
}
