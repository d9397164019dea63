package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCounter struct {
	mu      sync.Mutex
	counts  map[string]int64
	ttls    map[string]time.Duration
	incrErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCounter) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	if _, ok := f.ttls[key]; !ok {
		f.ttls[key] = window
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounter) Del(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.counts, key)
	delete(f.ttls, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestThrottle_LimitsAttempts(t *testing.T) {
	c := newFakeCounter()
	th := NewThrottle(c, 2, time.Minute, discardLogger())
	ctx := context.Background()

	assert.True(t, th.Allow(ctx, "alice"))
	assert.True(t, th.Allow(ctx, "Alice"), "usernames are counted case-insensitively")
	assert.False(t, th.Allow(ctx, "alice"))
	assert.True(t, th.Allow(ctx, "bob"))
	assert.Equal(t, time.Minute, c.ttls["signin:alice"])

	th.Reset(ctx, "alice")
	assert.True(t, th.Allow(ctx, "alice"))
}

func TestThrottle_FailsOpen(t *testing.T) {
	c := newFakeCounter()
	c.incrErr = errors.New("redis down")
	th := NewThrottle(c, 1, time.Minute, discardLogger())

	for i := 0; i < 3; i++ {
		assert.True(t, th.Allow(context.Background(), "alice"))
	}
}

func TestThrottle_NilAndDisabled(t *testing.T) {
	var th *Throttle
	assert.True(t, th.Allow(context.Background(), "alice"))
	th.Reset(context.Background(), "alice")

	disabled := NewThrottle(newFakeCounter(), 0, time.Minute, discardLogger())
	assert.True(t, disabled.Allow(context.Background(), "alice"))
}

func TestThrottle_EveryCounterGetsWindowTTL(t *testing.T) {
	c := newFakeCounter()
	th := NewThrottle(c, 1, 30*time.Second, discardLogger())
	ctx := context.Background()

	assert.True(t, th.Allow(ctx, "carol"))
	assert.False(t, th.Allow(ctx, "carol"))

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.counts {
		assert.Equal(t, 30*time.Second, c.ttls[key], "counter %s has no expiry", key)
	}
}
