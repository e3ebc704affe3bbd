package worker

import (
	"context"
	"testing"
)

func TestRouter_Route(t *testing.T) {
	var called string
	op := func(name string) Operation {
		return func(context.Context) Outcome {
			called = name
			return Success
		}
	}
	r := NewRouter(op("event"), op("exception"), op("metric"))

	tests := []struct {
		selector string
		want     string
	}{
		{CategoryEvent, "event"},
		{CategoryException, "exception"},
		{CategoryPerformanceMetric, "metric"},
	}
	for _, tt := range tests {
		called = ""
		got, ok := r.Route(NewInvocation(tt.selector))
		if !ok {
			t.Fatalf("Route(%q) not found", tt.selector)
		}
		got(context.Background())
		if called != tt.want {
			t.Errorf("Route(%q) ran %q, want %q", tt.selector, called, tt.want)
		}
	}
}

func TestRouter_Unknown(t *testing.T) {
	r := NewRouter(nil, nil, nil)
	for _, inv := range []Invocation{nil, {}, NewInvocation("event"), NewInvocation(CategoryEvent)} {
		if _, ok := r.Route(inv); ok {
			t.Errorf("Route(%v) = ok, want not found", inv)
		}
	}
}

func TestInvocation_Category(t *testing.T) {
	if got := NewInvocation(CategoryException).Category(); got != CategoryException {
		t.Errorf("Category() = %q", got)
	}
	var inv Invocation
	if got := inv.Category(); got != "" {
		t.Errorf("nil Category() = %q, want empty", got)
	}
	if len(Categories) != 3 {
		t.Errorf("Categories = %v", Categories)
	}
}
