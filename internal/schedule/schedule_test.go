package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("0 * * * *"))
	assert.NoError(t, Validate("*/15 * * * *"))
	assert.NoError(t, Validate("@hourly"))
	assert.Error(t, Validate("every hour"))
	assert.Error(t, Validate("0 0 * * * *"))
}

func TestNewRefresherRejectsBadSpec(t *testing.T) {
	_, err := NewRefresher("61 * * * *", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRefresherRunsAndStops(t *testing.T) {
	var runs int32
	r, err := NewRefresher("@every 1s", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("source down")
	})
	require.NoError(t, err)
	assert.True(t, r.Next().IsZero())

	r.Start()
	assert.False(t, r.Next().IsZero())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 3*time.Second, 50*time.Millisecond)
	r.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs))
}

func TestRefresherStopCancelsReload(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	var once, onceDone sync.Once
	r, err := NewRefresher("@every 1s", func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		onceDone.Do(func() { close(cancelled) })
		return ctx.Err()
	})
	require.NoError(t, err)
	r.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("reload never started")
	}
	r.Stop()

	select {
	case <-cancelled:
	default:
		t.Fatal("Stop returned before the reload observed cancellation")
	}
}

func TestTick(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	var ticks int32
	Tick(ctx, func(time.Time) { atomic.AddInt32(&ticks, 1) })

	assert.GreaterOrEqual(t, atomic.LoadInt32(&ticks), int32(2))
}
