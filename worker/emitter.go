package worker

import (
	"github.com/rs/zerolog"

	"portrpc/metrics"
	"portrpc/proxy"
	"portrpc/wire"
)

// EmitFunc publishes one event under the topic it was looked up for.
type EmitFunc func(args ...any) error

// Emitter pushes unsolicited events from worker methods back to the
// controller. Per-topic emit functions are materialized lazily, so any topic
// name is valid without prior declaration.
type Emitter struct {
	ch      wire.Channel
	log     zerolog.Logger
	metrics bool
	topics  *proxy.Proxy[EmitFunc]
}

func newEmitter(ch wire.Channel, log zerolog.Logger, metrics bool) *Emitter {
	e := &Emitter{ch: ch, log: log, metrics: metrics}
	e.topics = proxy.New(e.newEmit)
	return e
}

// Emit publishes args as an event under topic. A leading wire.Transferable
// follows the same zero-copy convention as call arguments.
func (e *Emitter) Emit(topic string, args ...any) error {
	return e.Topic(topic)(args...)
}

// Topic returns the emit function for name, built on first access.
func (e *Emitter) Topic(name string) EmitFunc {
	return e.topics.Get(name)
}

func (e *Emitter) newEmit(name string) EmitFunc {
	return func(args ...any) error {
		env, transfer := wire.NewEvent(name, args)
		if err := e.ch.Send(env, transfer); err != nil {
			return err
		}
		if e.metrics {
			metrics.RecordEvent("emit", name)
		}
		e.log.Debug().Str("topic", name).Msg("event emitted")
		return nil
	}
}
