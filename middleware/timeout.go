package middleware

import (
	"context"
	"errors"
	"time"
)

// ErrDispatchTimeout is returned when a handler exceeds the timeout.
var ErrDispatchTimeout = errors.New("dispatch timed out")

type dispatchResult struct {
	value any
	err   error
}

// Timeout bounds each handler invocation. The handler keeps running in its
// goroutine after the deadline; only the response is cut short.
func Timeout(timeout time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, topic string, args []any) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan dispatchResult, 1)
			go func() {
				value, err := next(ctx, topic, args)
				done <- dispatchResult{value, err}
			}()

			select {
			case res := <-done:
				return res.value, res.err
			case <-ctx.Done():
				return nil, ErrDispatchTimeout
			}
		}
	}
}
