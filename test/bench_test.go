package test

import (
	"context"
	"testing"

	"portrpc/channel"
	"portrpc/controller"
	"portrpc/wire"
	"portrpc/worker"
)

func benchPair(b *testing.B) *controller.Controller {
	b.Helper()
	x, y := channel.Pipe()
	w := worker.New(y)
	err := w.Register(worker.Methods{
		"add": func(ctx context.Context, args ...any) (any, error) {
			return args[0].(int) + args[1].(int), nil
		},
		"noop": func(ctx context.Context, args ...any) (any, error) {
			return nil, nil
		},
	})
	if err != nil {
		b.Fatal(err)
	}
	c := controller.New(x)
	b.Cleanup(func() { c.Close() })
	return c
}

func BenchmarkCorrelatedCall(b *testing.B) {
	c := benchPair(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Call(ctx, "add", i, i); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCorrelatedCallParallel(b *testing.B) {
	c := benchPair(b)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.Call(ctx, "add", 1, 2); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkNotify(b *testing.B) {
	c := benchPair(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Notify("noop"); err != nil {
			b.Fatal(err)
		}
	}
	// Flush so queued notifies are dispatched inside the measured run.
	if _, err := c.Call(context.Background(), "add", 0, 0); err != nil {
		b.Fatal(err)
	}
}

func BenchmarkTransferMove(b *testing.B) {
	x, y := channel.Pipe()
	w := worker.New(y)
	err := w.Register(worker.Methods{
		"sink": func(ctx context.Context, args ...any) (any, error) {
			return args[0].(*wire.Buffer).Len(), nil
		},
	})
	if err != nil {
		b.Fatal(err)
	}
	c := controller.New(x)
	b.Cleanup(func() { c.Close() })
	ctx := context.Background()
	payload := make([]byte, 1<<20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := wire.NewBuffer(payload)
		if _, err := c.Call(ctx, "sink", wire.Transfer([]any{buf}, buf)); err != nil {
			b.Fatal(err)
		}
	}
}
