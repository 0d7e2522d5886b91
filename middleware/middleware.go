// Package middleware wraps the worker's method dispatch in an onion-model
// chain. Middlewares run on both the correlated and fire-and-forget paths.
package middleware

import "context"

// Handler is one method invocation: the topic names the method, args are the
// call's arguments in order.
type Handler func(ctx context.Context, topic string, args []any) (any, error)

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(next Handler) Handler

// Chain composes middlewares into one. Chain(A, B, C)(h) runs A outermost:
// A.before → B.before → C.before → h → C.after → B.after → A.after.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
