// Package topic implements the publish/subscribe registry a controller uses
// for unsolicited events from its worker.
package topic

import "sync"

type subscription struct {
	fn     func(args ...any)
	active bool
}

// Dispatcher routes published events to subscribers by exact topic name.
// Subscribers for one topic run synchronously, in registration order, with
// the event data spread as arguments. Each controller owns its dispatcher.
type Dispatcher struct {
	mu   sync.Mutex
	subs map[string][]*subscription
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[string][]*subscription)}
}

// Subscribe registers fn for the topic and returns its cancellation function.
// Cancel removes exactly this subscription and is safe to call twice.
// Subscriptions never expire on their own.
func (d *Dispatcher) Subscribe(topic string, fn func(args ...any)) (cancel func()) {
	sub := &subscription{fn: fn, active: true}
	d.mu.Lock()
	d.subs[topic] = append(d.subs[topic], sub)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if !sub.active {
			return
		}
		sub.active = false
		list := d.subs[topic]
		for i, s := range list {
			if s == sub {
				d.subs[topic] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(d.subs[topic]) == 0 {
			delete(d.subs, topic)
		}
	}
}

// Publish invokes every live subscriber for the topic with args. Returns the
// number of subscribers invoked.
func (d *Dispatcher) Publish(topic string, args []any) int {
	d.mu.Lock()
	list := d.subs[topic]
	fns := make([]func(args ...any), 0, len(list))
	for _, sub := range list {
		if sub.active {
			fns = append(fns, sub.fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(args...)
	}
	return len(fns)
}
