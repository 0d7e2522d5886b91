package pool

import (
	"context"

	"portrpc/controller"
	"portrpc/pending"
)

// Pool owns a fixed set of sub-channel controllers opened from one primary
// controller. Every call picks a port through the balancer; ordering is
// guaranteed per port, not across the pool.
type Pool struct {
	ports    []*controller.Controller
	balancer Balancer
}

// New opens size sub-channels from primary and wraps each in its own
// controller. The worker on the far side binds its dispatcher to every
// handed-off port, so all ports serve the same method table.
func New(primary *controller.Controller, size int, balancer Balancer, opts ...controller.Option) (*Pool, error) {
	p := &Pool{balancer: balancer}
	for i := 0; i < size; i++ {
		ch, err := primary.OpenPort()
		if err != nil {
			p.Close()
			return nil, err
		}
		p.ports = append(p.ports, controller.New(ch, opts...))
	}
	return p, nil
}

// Size returns the number of port controllers.
func (p *Pool) Size() int { return len(p.ports) }

// Call routes one correlated call through a balanced port.
func (p *Pool) Call(ctx context.Context, topic string, args ...any) (any, error) {
	c, err := p.balancer.Pick(p.ports)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, topic, args...)
}

// Go routes one correlated call through a balanced port without waiting.
func (p *Pool) Go(topic string, args ...any) (*pending.Future, error) {
	c, err := p.balancer.Pick(p.ports)
	if err != nil {
		return nil, err
	}
	return c.Go(topic, args...)
}

// Notify routes one fire-and-forget call through a balanced port.
func (p *Pool) Notify(topic string, args ...any) error {
	c, err := p.balancer.Pick(p.ports)
	if err != nil {
		return err
	}
	return c.Notify(topic, args...)
}

// Close closes every port controller. The primary controller stays open.
func (p *Pool) Close() error {
	var first error
	for _, c := range p.ports {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
