package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Counter is the slice of a key/value store the throttle needs. Hit
// increments key and, in the same atomic step, gives a new key the window as
// its TTL.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	Del(ctx context.Context, key string) error
}

// Throttle limits failed sign-in attempts per username within a fixed window.
// A nil *Throttle allows everything.
type Throttle struct {
	counter     Counter
	maxAttempts int64
	window      time.Duration
	logger      *slog.Logger
}

func NewThrottle(counter Counter, maxAttempts int, window time.Duration, logger *slog.Logger) *Throttle {
	return &Throttle{counter: counter, maxAttempts: int64(maxAttempts), window: window, logger: logger}
}

func throttleKey(username string) string {
	return "signin:" + strings.ToLower(username)
}

// Allow counts one attempt for username and reports whether it is within the
// limit. Counter failures let the attempt through.
func (t *Throttle) Allow(ctx context.Context, username string) bool {
	if t == nil || t.maxAttempts <= 0 {
		return true
	}
	key := throttleKey(username)
	n, err := t.counter.Hit(ctx, key, t.window)
	if err != nil {
		t.logger.WarnContext(ctx, "signin throttle unavailable", "error", err)
		return true
	}
	return n <= t.maxAttempts
}

// Reset clears the attempt count after a successful sign-in.
func (t *Throttle) Reset(ctx context.Context, username string) {
	if t == nil {
		return
	}
	if err := t.counter.Del(ctx, throttleKey(username)); err != nil {
		t.logger.WarnContext(ctx, "signin throttle reset failed", "error", err)
	}
}
