// Package math provides the small set of vector, quaternion and matrix helpers
// the engine layers on top of mgl32.
//
// Conventions: right-handed, column vectors, column-major storage (OpenGL
// compatible). A transform that is written S*R*T in row-vector notation is
// T*R*S here; both scale first, rotate second and translate last.
package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// World axes.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// Normalize returns v scaled to unit length, or the zero vector if v has no
// length.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Vec3 converts a plain array to an mgl32 vector.
func Vec3(a [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{a[0], a[1], a[2]}
}

// Array converts an mgl32 vector to a plain array.
func Array(v mgl32.Vec3) [3]float32 {
	return [3]float32{v[0], v[1], v[2]}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Saturate clamps x to [0, 1].
func Saturate(x float32) float32 {
	return Clamp(x, 0, 1)
}

// Smoothstep is the GLSL smoothstep.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Exp returns e**x in float32.
func Exp(x float32) float32 {
	return float32(gomath.Exp(float64(x)))
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
