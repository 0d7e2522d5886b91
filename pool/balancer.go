// Package pool fans correlated calls out over a set of sub-channels. One
// channel still connects exactly two endpoints; additional throughput comes
// from opening more sub-channels, never from multiplexing parties on one.
package pool

import (
	"errors"
	"sync/atomic"

	"portrpc/controller"
)

// ErrNoPorts is returned when a pool has no controllers to pick from.
var ErrNoPorts = errors.New("pool: no port controllers available")

// Balancer selects which port controller carries the next call.
// Pick is called on every call and must be goroutine-safe.
type Balancer interface {
	Pick(ports []*controller.Controller) (*controller.Controller, error)
	Name() string
}

// RoundRobin cycles through the ports in order, using an atomic counter for
// lock-free selection.
type RoundRobin struct {
	counter atomic.Int64
}

// Pick selects the next port controller in round-robin order.
func (b *RoundRobin) Pick(ports []*controller.Controller) (*controller.Controller, error) {
	if len(ports) == 0 {
		return nil, ErrNoPorts
	}
	index := b.counter.Add(1) % int64(len(ports))
	return ports[index], nil
}

func (b *RoundRobin) Name() string { return "RoundRobin" }
