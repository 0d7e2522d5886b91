package controller

import (
	"context"

	"portrpc/pending"
)

// Stub is the per-topic call surface materialized by capability interception:
// looking up any name yields a stub bound to that topic, so the set of
// callable methods never has to be enumerated ahead of time.
type Stub struct {
	// Notify sends a fire-and-forget call to the stub's topic.
	Notify func(args ...any) error
	// Go sends a correlated call and returns its future.
	Go func(args ...any) (*pending.Future, error)
	// Call sends a correlated call and awaits the result.
	Call func(ctx context.Context, args ...any) (any, error)
}

// SubscribeFunc registers an event listener for the topic it was looked up
// under and returns the cancellation function.
type SubscribeFunc func(fn func(args ...any)) (cancel func())

// Stub returns the call stub for name. Stubs are built on first access and
// cached, so repeated lookups return the identical stub.
func (c *Controller) Stub(name string) Stub {
	return c.stubs.Get(name)
}

// OnTopic returns the subscribe function for name, the lazy counterpart of a
// nested event namespace.
func (c *Controller) OnTopic(name string) SubscribeFunc {
	return c.events.Get(name)
}

func (c *Controller) newStub(name string) Stub {
	return Stub{
		Notify: func(args ...any) error {
			return c.Notify(name, args...)
		},
		Go: func(args ...any) (*pending.Future, error) {
			return c.Go(name, args...)
		},
		Call: func(ctx context.Context, args ...any) (any, error) {
			return c.Call(ctx, name, args...)
		},
	}
}

func (c *Controller) newSubscribe(name string) SubscribeFunc {
	return func(fn func(args ...any)) func() {
		return c.On(name, fn)
	}
}
