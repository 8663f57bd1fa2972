package common

import (
	"math"
	"testing"
)

func TestToSimScale(t *testing.T) {
	tests := []struct {
		name   string
		pixels int
		want   float64
	}{
		{name: "zero", pixels: 0, want: 0},
		{name: "one meter", pixels: 50, want: 1},
		{name: "ball radius", pixels: 10, want: 0.2},
		{name: "negative", pixels: -25, want: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToSim(tt.pixels); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("ToSim(%d) = %v, want %v", tt.pixels, got, tt.want)
			}
		})
	}
}

func TestToPixelsFloors(t *testing.T) {
	tests := []struct {
		name string
		sim  float64
		want int
	}{
		{name: "exact", sim: 2, want: 100},
		{name: "fraction down", sim: 0.0299, want: 1},
		{name: "negative floors away from zero", sim: -0.001, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPixels(tt.sim); got != tt.want {
				t.Fatalf("ToPixels(%v) = %d, want %d", tt.sim, got, tt.want)
			}
		})
	}
}

func TestRoundTripIsExact(t *testing.T) {
	for p := -1000; p <= 2000; p++ {
		if got := ToPixels(ToSim(p)); got != p {
			t.Fatalf("round trip of %d gave %d", p, got)
		}
	}
}

func TestRadToDeg(t *testing.T) {
	if got := RadToDeg(math.Pi / 2); math.Abs(got-90) > 1e-9 {
		t.Fatalf("RadToDeg(pi/2) = %v, want 90", got)
	}
}
