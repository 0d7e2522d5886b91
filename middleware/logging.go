package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Logging logs every dispatched call with its topic, duration, and outcome.
func Logging(log zerolog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, topic string, args []any) (any, error) {
			start := time.Now()
			result, err := next(ctx, topic, args)
			evt := log.Debug()
			if err != nil {
				evt = log.Error().Err(err)
			}
			evt.Str("topic", topic).Dur("duration", time.Since(start)).Msg("dispatch")
			return result, err
		}
	}
}
