// Package proxy implements capability interception: a synthetic namespace
// where looking up any name yields a value built on demand by a factory.
//
// It stands in for a statically enumerated interface. The controller uses it
// to materialize per-topic call stubs and subscribe functions, the worker to
// hand method factories an event emitter — without either side enumerating
// topic names ahead of time. Any name is a valid topic.
package proxy

import "sync"

// Factory builds the value for a name on first lookup.
type Factory[T any] func(name string) T

// Proxy lazily materializes values by name and caches them, so repeated
// lookups of one name return the identical value.
type Proxy[T any] struct {
	factory Factory[T]

	mu    sync.Mutex
	cache map[string]T
}

// New returns a proxy backed by factory.
func New[T any](factory Factory[T]) *Proxy[T] {
	return &Proxy[T]{factory: factory, cache: make(map[string]T)}
}

// Get returns the value for name, invoking the factory on first access.
func (p *Proxy[T]) Get(name string) T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.cache[name]; ok {
		return v
	}
	v := p.factory(name)
	p.cache[name] = v
	return v
}

// Known returns the names materialized so far, in no particular order.
func (p *Proxy[T]) Known() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.cache))
	for name := range p.cache {
		names = append(names, name)
	}
	return names
}
