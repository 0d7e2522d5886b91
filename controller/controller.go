// Package controller implements the calling side of the RPC layer: it turns a
// wire.Channel into fire-and-forget calls, correlated calls with futures,
// topic subscriptions, and sub-channel acquisition.
//
//	a, b := channel.Pipe()
//	c := controller.New(a)
//	result, err := c.Call(ctx, "add", 2, 3)
//
// Inbound routing: a Response settles the pending call with the matching id
// (an unknown id is dropped and counted, never re-dispatched); an Event is
// published to this controller's topic dispatcher.
package controller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"portrpc/channel"
	"portrpc/metrics"
	"portrpc/pending"
	"portrpc/proxy"
	"portrpc/topic"
	"portrpc/wire"
)

// Controller is the caller-side adapter. Each controller exclusively owns its
// correlation table and topic dispatcher; wrapping two channels to the same
// worker means two independent controllers.
type Controller struct {
	ch     wire.Channel
	table  *pending.Table
	topics *topic.Dispatcher
	nextID atomic.Uint64
	closed atomic.Bool

	stubs  *proxy.Proxy[Stub]
	events *proxy.Proxy[SubscribeFunc]

	log     zerolog.Logger
	metrics bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithMetrics enables Prometheus instrumentation on the default registry.
func WithMetrics() Option {
	return func(c *Controller) { c.metrics = true }
}

// New wraps ch and binds the controller's inbound handler. The channel must
// not have another receive handler bound.
func New(ch wire.Channel, opts ...Option) *Controller {
	c := &Controller{
		ch:     ch,
		table:  pending.NewTable(),
		topics: topic.NewDispatcher(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stubs = proxy.New(c.newStub)
	c.events = proxy.New(c.newSubscribe)
	ch.OnReceive(c.receive)
	return c
}

// Notify sends a fire-and-forget call: no id, no response, no error
// visibility beyond the send itself.
func (c *Controller) Notify(topicName string, args ...any) error {
	env, transfer := wire.NewCall(topicName, 0, args)
	if c.metrics {
		metrics.RecordCall("notify", topicName)
	}
	return c.ch.Send(env, transfer)
}

// Go sends a correlated call and returns its future without waiting. The id
// comes from this controller's counter, which starts at 1 and is never reset,
// not even when sub-channels are created.
func (c *Controller) Go(topicName string, args ...any) (*pending.Future, error) {
	id := c.nextID.Add(1)
	f := c.table.Register(id)
	env, transfer := wire.NewCall(topicName, id, args)
	if err := c.ch.Send(env, transfer); err != nil {
		c.table.Forget(id)
		return nil, err
	}
	if c.metrics {
		metrics.RecordCall("call", topicName)
		metrics.SetPendingCalls(c.table.Len())
	}
	return f, nil
}

// Call sends a correlated call and awaits its settlement. When ctx expires
// first, the pending entry is forgotten so a late response is dropped instead
// of leaking a table slot.
func (c *Controller) Call(ctx context.Context, topicName string, args ...any) (any, error) {
	start := time.Now()
	f, err := c.Go(topicName, args...)
	if err != nil {
		return nil, err
	}
	result, err := f.Await(ctx)
	if ctx.Err() != nil && err == ctx.Err() {
		c.table.Forget(f.ID())
	}
	if c.metrics {
		metrics.RecordCallDuration(topicName, time.Since(start))
		metrics.SetPendingCalls(c.table.Len())
	}
	return result, err
}

// On subscribes fn to unsolicited events published under topicName. The
// returned function cancels exactly this subscription.
func (c *Controller) On(topicName string, fn func(args ...any)) (cancel func()) {
	return c.topics.Subscribe(topicName, fn)
}

// OpenPort creates a fresh sub-channel, hands its far end to the worker, and
// returns the near end. Build a new controller (or register a worker) on the
// returned endpoint for an independent RPC surface. Ordering between the
// primary channel and a sub-channel is not coordinated.
func (c *Controller) OpenPort() (wire.Channel, error) {
	near, far := channel.Pipe(channel.WithLogger(c.log))
	if err := c.ch.Send(wire.NewPort(far), nil); err != nil {
		near.Close()
		far.Close()
		return nil, err
	}
	return near, nil
}

// Pending returns the number of outstanding correlated calls.
func (c *Controller) Pending() int { return c.table.Len() }

// Close closes the channel and rejects every outstanding call with
// wire.ErrChannelClosed. Idempotent.
func (c *Controller) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	err := c.ch.Close()
	c.table.Fail(wire.ErrChannelClosed)
	if c.metrics {
		metrics.SetPendingCalls(0)
	}
	return err
}

// receive is the single inbound handler: responses settle pending calls,
// events go to the dispatcher, anything else is dropped.
func (c *Controller) receive(env *wire.Envelope) {
	switch env.Kind {
	case wire.KindResponse:
		if !c.table.Settle(env.ID, env.Error, env.Topic, env.Result) {
			c.log.Debug().Uint64("id", env.ID).Msg("response matched no pending call, dropped")
			if c.metrics {
				metrics.RecordDroppedResponse()
			}
			return
		}
		if c.metrics {
			metrics.SetPendingCalls(c.table.Len())
		}
	case wire.KindEvent:
		if c.metrics {
			metrics.RecordEvent("receive", env.Topic)
		}
		n := c.topics.Publish(env.Topic, env.Data)
		c.log.Debug().Str("topic", env.Topic).Int("subscribers", n).Msg("event")
	default:
		c.log.Warn().Stringer("kind", env.Kind).Msg("unexpected inbound envelope, dropped")
	}
}
