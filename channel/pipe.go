// Package channel provides the in-process implementation of the wire.Channel
// contract: a Pipe is a pair of linked endpoints, each delivering envelopes to
// the other in FIFO order.
//
// Each endpoint owns an unbounded inbox and a single delivery goroutine, so no
// inbound envelope is handled before the previous handler has returned.
// Envelopes sent before the receiver binds a handler are queued, not dropped.
//
//	a, b := channel.Pipe()
//	b.OnReceive(func(env *wire.Envelope) { ... })
//	a.Send(env, nil)
package channel

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"portrpc/wire"
)

// Endpoint is one end of a Pipe. It satisfies wire.Channel. An Endpoint may
// itself be carried inside a KindPort envelope across another channel — that
// is the sub-channel handoff.
type Endpoint struct {
	id   string
	peer *Endpoint
	log  zerolog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	inbox   []*wire.Envelope
	handler func(*wire.Envelope)
	closed  bool
}

// Option configures a Pipe.
type Option func(*pipeConfig)

type pipeConfig struct {
	log zerolog.Logger
}

// WithLogger attaches a logger to both endpoints. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *pipeConfig) { c.log = log }
}

// Pipe creates two linked endpoints. Anything sent on one is delivered to the
// other, in send order.
func Pipe(opts ...Option) (*Endpoint, *Endpoint) {
	cfg := pipeConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	pipeID := uuid.NewString()
	a := newEndpoint(cfg.log.With().Str("pipe", pipeID).Str("end", "a").Logger())
	b := newEndpoint(cfg.log.With().Str("pipe", pipeID).Str("end", "b").Logger())
	a.peer, b.peer = b, a
	go a.deliverLoop()
	go b.deliverLoop()
	return a, b
}

func newEndpoint(log zerolog.Logger) *Endpoint {
	e := &Endpoint{id: uuid.NewString(), log: log}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// ID returns the endpoint's identity, used for log correlation.
func (e *Endpoint) ID() string { return e.id }

// Send delivers env to the peer's handler. Buffers in the payload are cloned
// unless listed in transfer, in which case they are moved and the sender's
// copy is detached. Listed buffers absent from the payload are detached too.
func (e *Endpoint) Send(env *wire.Envelope, transfer []*wire.Buffer) error {
	peer := e.peer

	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return wire.ErrChannelClosed
	}

	out := relocate(env, transfer)
	for _, b := range transfer {
		if !b.Moved() {
			b.Take()
		}
	}

	peer.mu.Lock()
	if peer.closed {
		peer.mu.Unlock()
		return wire.ErrChannelClosed
	}
	peer.inbox = append(peer.inbox, out)
	peer.cond.Signal()
	peer.mu.Unlock()

	e.log.Debug().Stringer("kind", env.Kind).Str("topic", env.Topic).Uint64("id", env.ID).Msg("send")
	return nil
}

// OnReceive binds the single inbound handler. Queued envelopes are delivered
// once the handler is in place. Rebinding replaces the handler; the worker
// relies on this never happening after registration.
func (e *Endpoint) OnReceive(handler func(*wire.Envelope)) {
	e.mu.Lock()
	e.handler = handler
	e.cond.Signal()
	e.mu.Unlock()
}

// Close stops delivery on this endpoint after the inbox drains. Further sends
// from either side fail with wire.ErrChannelClosed. Idempotent.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		e.cond.Signal()
		e.log.Debug().Msg("closed")
	}
	e.mu.Unlock()
	return nil
}

// deliverLoop pops one envelope at a time and runs the handler outside the
// lock. A single goroutine per endpoint keeps delivery FIFO and serial.
func (e *Endpoint) deliverLoop() {
	for {
		e.mu.Lock()
		for (len(e.inbox) == 0 || e.handler == nil) && !e.closed {
			e.cond.Wait()
		}
		if e.closed && (len(e.inbox) == 0 || e.handler == nil) {
			e.mu.Unlock()
			return
		}
		env := e.inbox[0]
		e.inbox = e.inbox[1:]
		handler := e.handler
		e.mu.Unlock()

		handler(env)
	}
}

// relocate rebuilds the payload for delivery: listed buffers move, unlisted
// buffers are cloned, every other value crosses verbatim.
func relocate(env *wire.Envelope, transfer []*wire.Buffer) *wire.Envelope {
	out := *env
	if env.Data != nil {
		out.Data = make([]any, len(env.Data))
		for i, v := range env.Data {
			out.Data[i] = relocateValue(v, transfer)
		}
	}
	out.Result = relocateValue(env.Result, transfer)
	return &out
}

func relocateValue(v any, transfer []*wire.Buffer) any {
	b, ok := v.(*wire.Buffer)
	if !ok {
		return v
	}
	for _, t := range transfer {
		if t == b {
			return b.Take()
		}
	}
	return b.Clone()
}
