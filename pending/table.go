// Package pending implements the call correlation table: outstanding
// correlated calls keyed by id, each holding a settle-once future.
//
// The table never expires entries on its own. A call with no response stays
// registered until the caller forgets it or the whole table fails on channel
// teardown.
package pending

import (
	"sync"

	"portrpc/wire"
)

// Table maps outstanding call ids to their futures. Each controller owns
// exactly one table; tables are never shared.
type Table struct {
	mu    sync.Mutex
	calls map[uint64]*Future
}

// NewTable returns an empty correlation table.
func NewTable() *Table {
	return &Table{calls: make(map[uint64]*Future)}
}

// Register allocates the entry for a call about to be sent. Must happen
// before the send so the response cannot race the registration.
func (t *Table) Register(id uint64) *Future {
	f := newFuture(id)
	t.mu.Lock()
	t.calls[id] = f
	t.mu.Unlock()
	return f
}

// Settle resolves (errMsg empty) or rejects the call with the given id and
// removes the entry unconditionally. Returns false if the id is unknown —
// either never registered, already settled, or forgotten; the caller decides
// how to report the drop.
func (t *Table) Settle(id uint64, errMsg string, topic string, result any) bool {
	t.mu.Lock()
	f, ok := t.calls[id]
	delete(t.calls, id)
	t.mu.Unlock()
	if !ok {
		return false
	}
	if errMsg != "" {
		f.reject(&wire.RemoteError{Topic: topic, Message: errMsg})
	} else {
		f.resolve(result)
	}
	return true
}

// Forget drops the entry for an abandoned call. A response arriving later is
// treated as unknown. Returns false if the id was not registered.
func (t *Table) Forget(id uint64) bool {
	t.mu.Lock()
	_, ok := t.calls[id]
	delete(t.calls, id)
	t.mu.Unlock()
	return ok
}

// Fail rejects every outstanding call with err and empties the table. Called
// when the underlying channel is torn down so no caller blocks forever.
func (t *Table) Fail(err error) {
	t.mu.Lock()
	calls := t.calls
	t.calls = make(map[uint64]*Future)
	t.mu.Unlock()
	for _, f := range calls {
		f.reject(err)
	}
}

// Len returns the number of outstanding calls.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}
