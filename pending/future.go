package pending

import (
	"context"
	"sync"
)

// Future is the settle-once resolution of a correlated call. Exactly one of
// resolve/reject ever takes effect; later settles are ignored.
type Future struct {
	id   uint64
	once sync.Once
	done chan struct{}
	val  any
	err  error
}

func newFuture(id uint64) *Future {
	return &Future{id: id, done: make(chan struct{})}
}

// ID returns the correlation id this future is waiting on.
func (f *Future) ID() uint64 { return f.id }

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the future settles or ctx expires. On ctx expiry the
// call stays registered unless the caller also forgets it in its table.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Future) resolve(val any) {
	f.once.Do(func() {
		f.val = val
		close(f.done)
	})
}

func (f *Future) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}
