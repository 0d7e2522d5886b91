package middleware

import (
	"context"
	"fmt"
)

// Recovery converts a handler panic into an error return, so a panicking
// method produces an error response instead of killing the dispatch loop.
func Recovery() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, topic string, args []any) (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					result = nil
					err = fmt.Errorf("handler panic on %q: %v", topic, r)
				}
			}()
			return next(ctx, topic, args)
		}
	}
}
