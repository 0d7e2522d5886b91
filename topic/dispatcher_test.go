package topic

import (
	"reflect"
	"testing"
)

func TestPublishSpreadsArgs(t *testing.T) {
	d := NewDispatcher()

	var got []any
	calls := 0
	d.Subscribe("e", func(args ...any) {
		got = args
		calls++
	})

	n := d.Publish("e", []any{1, 2, 3})
	if n != 1 || calls != 1 {
		t.Fatalf("expect exactly one invocation, got n=%d calls=%d", n, calls)
	}
	if !reflect.DeepEqual(got, []any{1, 2, 3}) {
		t.Fatalf("expect (1,2,3), got %v", got)
	}
}

func TestPublishRegistrationOrder(t *testing.T) {
	d := NewDispatcher()

	var order []int
	d.Subscribe("e", func(args ...any) { order = append(order, 1) })
	d.Subscribe("e", func(args ...any) { order = append(order, 2) })
	d.Subscribe("e", func(args ...any) { order = append(order, 3) })

	d.Publish("e", nil)
	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Fatalf("expect registration order, got %v", order)
	}
}

func TestCancelRemovesExactlyOne(t *testing.T) {
	d := NewDispatcher()

	a, b := 0, 0
	cancelA := d.Subscribe("e", func(args ...any) { a++ })
	d.Subscribe("e", func(args ...any) { b++ })

	cancelA()
	d.Publish("e", nil)

	if a != 0 {
		t.Errorf("cancelled subscriber invoked %d times", a)
	}
	if b != 1 {
		t.Errorf("surviving subscriber should run once, ran %d times", b)
	}
}

func TestCancelIdempotent(t *testing.T) {
	d := NewDispatcher()
	n := 0
	cancel := d.Subscribe("e", func(args ...any) { n++ })
	other := 0
	d.Subscribe("e", func(args ...any) { other++ })

	cancel()
	cancel() // must not remove the other subscription

	d.Publish("e", nil)
	if other != 1 {
		t.Fatalf("double cancel removed an unrelated subscription, other=%d", other)
	}
}

func TestExactTopicMatchOnly(t *testing.T) {
	d := NewDispatcher()
	n := 0
	d.Subscribe("progress", func(args ...any) { n++ })

	if got := d.Publish("progres", nil); got != 0 {
		t.Errorf("near-miss topic must not dispatch, invoked %d", got)
	}
	if n != 0 {
		t.Errorf("subscriber invoked for wrong topic %d times", n)
	}
}

func TestSameTopicSubscriptionsIndependent(t *testing.T) {
	d := NewDispatcher()
	a, b := 0, 0
	d.Subscribe("e", func(args ...any) { a++ })
	cancelB := d.Subscribe("e", func(args ...any) { b++ })

	d.Publish("e", nil)
	cancelB()
	d.Publish("e", nil)

	if a != 2 || b != 1 {
		t.Fatalf("expect a=2 b=1, got a=%d b=%d", a, b)
	}
}
