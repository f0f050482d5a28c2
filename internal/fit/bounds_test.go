package fit

import (
	"math"
	"testing"
)

func TestBoundRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		b    bound
		x    []float64
	}{
		{name: "lower", b: lower(10), x: []float64{10.5, 12, 21.3}},
		{name: "between", b: between(1.99, 2.01), x: []float64{1.995, 2, 2.009}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, x := range tt.x {
				got := tt.b.external(tt.b.internal(x))
				if math.Abs(got-x) > 1e-9 {
					t.Errorf("round trip of %v = %v", x, got)
				}
			}
		})
	}
}

func TestBoundExternalStaysInside(t *testing.T) {
	t.Parallel()
	lb := lower(1)
	tb := between(-2, 3)
	for _, p := range []float64{-1e6, -3, -0.1, 0, 0.7, 42, 1e6} {
		if v := lb.external(p); v < 1 {
			t.Errorf("lower.external(%v) = %v below 1", p, v)
		}
		if v := tb.external(p); v < -2 || v > 3 {
			t.Errorf("between.external(%v) = %v outside [-2, 3]", p, v)
		}
	}
}

func TestBoundInternalClamps(t *testing.T) {
	t.Parallel()
	b := between(0, 1)
	if got := b.external(b.internal(5)); math.Abs(got-1) > 1e-12 {
		t.Errorf("clamped value = %v, want 1", got)
	}
	if got := lower(10).external(lower(10).internal(3)); got != 10 {
		t.Errorf("clamped value = %v, want 10", got)
	}
}

func TestBoundPinned(t *testing.T) {
	t.Parallel()
	if !lower(10).pinned(10, 1e-6) {
		t.Error("value on lower limit not pinned")
	}
	if lower(10).pinned(10.1, 1e-6) {
		t.Error("interior value reported pinned")
	}
	b := between(2, 4)
	if !b.pinned(4, 1e-6) || !b.pinned(2, 1e-6) || b.pinned(3, 1e-6) {
		t.Error("two-sided pinned check wrong")
	}
}
