package http

import (
	"context"
	"time"

	"github.com/fwojciec/offerdoc"
)

// DefaultRetryDelays returns the backoff delays between fetch attempts:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retry calls attempt once, then once more after each delay, until it
// succeeds, fails permanently or ctx ends. onRetry, if set, is called
// before every new attempt.
func retry[T any](ctx context.Context, delays []time.Duration, attempt func(context.Context) (T, error), onRetry func(n int, err error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i <= len(delays); i++ {
		v, err := attempt(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if permanent(err) || i == len(delays) {
			break
		}
		if onRetry != nil {
			onRetry(i+2, err)
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[i]):
		}
	}
	return zero, lastErr
}

// permanent reports whether retrying err cannot help: the page is gone or
// the request itself is wrong.
func permanent(err error) bool {
	switch offerdoc.ErrorCode(err) {
	case offerdoc.ENOTFOUND, offerdoc.EINVALID:
		return true
	}
	return false
}
