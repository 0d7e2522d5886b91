package proxy

import (
	"fmt"
	"sort"
	"testing"
)

func TestGetMaterializesLazily(t *testing.T) {
	built := 0
	p := New(func(name string) string {
		built++
		return "stub:" + name
	})

	if built != 0 {
		t.Fatalf("factory ran before any lookup: %d", built)
	}
	if got := p.Get("foo"); got != "stub:foo" {
		t.Fatalf("expect stub:foo, got %q", got)
	}
	if built != 1 {
		t.Fatalf("expect one factory run, got %d", built)
	}
}

func TestGetCachesPerName(t *testing.T) {
	built := 0
	p := New(func(name string) *int {
		built++
		n := built
		return &n
	})

	first := p.Get("foo")
	second := p.Get("foo")
	if first != second {
		t.Error("repeated lookups must return the identical value")
	}
	if built != 1 {
		t.Errorf("factory should run once per name, ran %d", built)
	}

	if p.Get("bar") == first {
		t.Error("distinct names must materialize distinct values")
	}
}

func TestAnyNameIsValid(t *testing.T) {
	p := New(func(name string) string { return name })
	for _, name := range []string{"a", "$on", "weird name", "日本語", ""} {
		if got := p.Get(name); got != name {
			t.Errorf("lookup %q: got %q", name, got)
		}
	}
}

func TestKnown(t *testing.T) {
	p := New(func(name string) int { return len(name) })
	p.Get("a")
	p.Get("bb")
	p.Get("a")

	known := p.Known()
	sort.Strings(known)
	if fmt.Sprint(known) != "[a bb]" {
		t.Fatalf("expect [a bb], got %v", known)
	}
}
