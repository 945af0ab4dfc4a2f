package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNormalize(t *testing.T) {
	n := Normalize(mgl32.Vec3{3, 0, 4})
	if d := n.Len() - 1; d > 1e-6 || d < -1e-6 {
		t.Errorf("Normalize length: got %v", n.Len())
	}

	z := Normalize(mgl32.Vec3{})
	if z != (mgl32.Vec3{}) {
		t.Errorf("Normalize zero: got %v", z)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x    float32
		want float32
	}{
		{-1, 0},
		{0, 0},
		{5, 0.5},
		{10, 1},
		{20, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(0, 10, tt.x); got != tt.want {
			t.Errorf("Smoothstep(0, 10, %v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSaturate(t *testing.T) {
	if Saturate(-0.5) != 0 || Saturate(1.5) != 1 || Saturate(0.25) != 0.25 {
		t.Error("Saturate should clamp to [0, 1]")
	}
}

// near compares by absolute distance.
func near(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-5
}
