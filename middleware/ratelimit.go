package middleware

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when the token bucket has no capacity left.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimit rejects dispatches above r calls per second with bursts of up to
// burst. Token bucket, shared across all topics of one worker.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next Handler) Handler {
		return func(ctx context.Context, topic string, args []any) (any, error) {
			if !limiter.Allow() {
				return nil, ErrRateLimited
			}
			return next(ctx, topic, args)
		}
	}
}
