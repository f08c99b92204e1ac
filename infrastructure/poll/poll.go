// Package poll implements bounded waits: a predicate is re-checked at a fixed
// interval until it holds or a timeout elapses.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInterval is used when a caller passes a non-positive interval
const DefaultInterval = 250 * time.Millisecond

// ErrTimeout is returned when the condition did not hold before the timeout
var ErrTimeout = errors.New("condition not met before timeout")

var errPending = errors.New("condition pending")

// Condition reports whether the awaited state has been reached.
// A non-nil error aborts the wait immediately.
type Condition func(ctx context.Context) (bool, error)

// Until - polls cond every interval until it returns true, returns an error,
// or timeout elapses. The first check runs immediately.
func Until(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	op := func() error {
		ok, err := cond(waitCtx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errPending
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx))
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errPending), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return err
	}
}

// Sleep - pauses for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
