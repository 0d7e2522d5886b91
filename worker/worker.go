// Package worker implements the callee side of the RPC layer: a method table
// dispatched against inbound call envelopes, with results and errors
// correlated back by id, plus unsolicited events emitted to the controller.
//
//	w := worker.New(b)
//	w.Register(worker.Methods{
//		"add": func(ctx context.Context, args ...any) (any, error) {
//			return args[0].(int) + args[1].(int), nil
//		},
//	})
//
// A Port envelope re-binds the same dispatch logic onto the handed-off
// sub-channel, which then serves as an independent RPC surface.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"portrpc/middleware"
	"portrpc/wire"
)

// Handler is a registered method. args arrive in call order; the returned
// value becomes the response result on the correlated path.
type Handler func(ctx context.Context, args ...any) (any, error)

// Methods is the worker's method table, keyed by topic name.
type Methods map[string]Handler

var (
	// ErrAlreadyRegistered is returned by a second Register call; the method
	// table is immutable once built.
	ErrAlreadyRegistered = errors.New("worker: methods already registered")
	// ErrNoHandler reports a call to a topic with no registered method.
	ErrNoHandler = errors.New("worker: no handler for topic")
)

// Worker dispatches inbound calls against its method table. Each worker owns
// its table and the dispatch handler bound to its channel.
type Worker struct {
	ch      wire.Channel
	log     zerolog.Logger
	metrics bool

	mu         sync.Mutex
	mws        []middleware.Middleware
	methods    Methods
	dispatch   middleware.Handler
	emitter    *Emitter
	registered bool
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the worker's logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Worker) { w.log = log }
}

// WithMetrics enables Prometheus instrumentation for emitted events.
func WithMetrics() Option {
	return func(w *Worker) { w.metrics = true }
}

// New wraps ch. Nothing is dispatched until methods are registered; inbound
// envelopes queue on the channel in the meantime.
func New(ch wire.Channel, opts ...Option) *Worker {
	w := &Worker{ch: ch, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Use appends a dispatch middleware. Must be called before registration;
// middlewares added later are ignored.
func (w *Worker) Use(mw middleware.Middleware) {
	w.mu.Lock()
	w.mws = append(w.mws, mw)
	w.mu.Unlock()
}

// Register installs the method table and binds the dispatch handler to the
// channel. One shot: a second registration returns ErrAlreadyRegistered.
func (w *Worker) Register(m Methods) error {
	return w.register(func(*Emitter) Methods { return m })
}

// RegisterFunc invokes factory once with this worker's event emitter and
// installs the returned table. Method implementations capture the emitter to
// push unsolicited events back to the controller.
func (w *Worker) RegisterFunc(factory func(emit *Emitter) Methods) error {
	return w.register(factory)
}

func (w *Worker) register(factory func(*Emitter) Methods) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.registered {
		return ErrAlreadyRegistered
	}
	w.emitter = newEmitter(w.ch, w.log, w.metrics)
	table := factory(w.emitter)

	w.methods = make(Methods, len(table))
	for name, h := range table {
		w.methods[name] = h
	}
	w.dispatch = middleware.Chain(w.mws...)(w.invoke)
	w.registered = true

	w.bind(w.ch)
	return nil
}

// Emitter returns the worker's event emitter, nil before registration.
func (w *Worker) Emitter() *Emitter {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.emitter
}

// Close closes the worker's channel.
func (w *Worker) Close() error { return w.ch.Close() }

// bind attaches the dispatch handler to ch. Called for the primary channel at
// registration and again for every handed-off sub-channel, so all surfaces
// share one method table and middleware chain.
func (w *Worker) bind(ch wire.Channel) {
	ch.OnReceive(func(env *wire.Envelope) {
		w.handle(ch, env)
	})
}

func (w *Worker) handle(ch wire.Channel, env *wire.Envelope) {
	switch {
	case env.Kind == wire.KindPort:
		w.log.Debug().Msg("sub-channel handed off, binding dispatcher")
		w.bind(env.Port)

	case env.Kind == wire.KindCall && env.ID != 0:
		w.handleCall(ch, env)

	case env.Kind == wire.KindCall:
		w.handleNotify(env)

	default:
		w.log.Warn().Stringer("kind", env.Kind).Msg("unexpected inbound envelope, dropped")
	}
}

// handleCall runs the method and sends exactly one response: the result on
// success, the error otherwise. An unregistered topic surfaces as an error
// response like any other failure.
func (w *Worker) handleCall(ch wire.Channel, env *wire.Envelope) {
	result, err := w.dispatch(context.Background(), env.Topic, env.Data)
	var resp *wire.Envelope
	var transfer []*wire.Buffer
	if err != nil {
		resp = wire.NewErrorResponse(env.ID, err)
	} else {
		resp, transfer = wire.NewResponse(env.ID, result)
	}
	resp.Topic = env.Topic
	if err := ch.Send(resp, transfer); err != nil {
		w.log.Error().Err(err).Str("topic", env.Topic).Uint64("id", env.ID).Msg("response send failed")
	}
}

// handleNotify runs the method for side effect only. A failing handler is
// logged and otherwise invisible to the caller; a call to an unregistered
// topic is fatal in the dispatch goroutine.
func (w *Worker) handleNotify(env *wire.Envelope) {
	_, err := w.dispatch(context.Background(), env.Topic, env.Data)
	if err == nil {
		return
	}
	if errors.Is(err, ErrNoHandler) {
		panic(fmt.Sprintf("portrpc: fire-and-forget call to unregistered topic %q", env.Topic))
	}
	w.log.Error().Err(err).Str("topic", env.Topic).Msg("fire-and-forget handler failed")
}

// invoke is the innermost dispatch handler, wrapped by the middleware chain.
func (w *Worker) invoke(ctx context.Context, topic string, args []any) (any, error) {
	h, ok := w.methods[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoHandler, topic)
	}
	return h(ctx, args...)
}
