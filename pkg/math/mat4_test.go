package math

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestComposeIdentity(t *testing.T) {
	m := Compose(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	if !m.ApproxEqual(mgl32.Ident4()) {
		t.Errorf("Compose with identity inputs should be identity, got %v", m)
	}
}

func TestComposeOrder(t *testing.T) {
	// Scale by 2, rotate 90 degrees about Y, then translate by (10, 0, 0).
	rot := QuatFromPitchYawRoll(0, float32(gomath.Pi/2), 0)
	m := Compose(mgl32.Vec3{10, 0, 0}, rot, mgl32.Vec3{2, 2, 2})

	got := TransformPoint(m, mgl32.Vec3{1, 0, 0})
	// (1,0,0) -> scale (2,0,0) -> rotate (0,0,-2) -> translate (10,0,-2)
	want := mgl32.Vec3{10, 0, -2}
	if !near(got, want) {
		t.Errorf("Compose order: got %v, want %v", got, want)
	}
}

func TestInverseTransposeUniformScale(t *testing.T) {
	rot := QuatFromPitchYawRoll(0.3, 1.1, -0.4)
	m := Compose(mgl32.Vec3{1, 2, 3}, rot, mgl32.Vec3{1, 1, 1})
	it := InverseTranspose(m)

	// For a rigid transform the normal matrix equals the rotation part.
	n := it.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	want := rot.Rotate(mgl32.Vec3{0, 1, 0})
	if !near(n, want) {
		t.Errorf("InverseTranspose rigid: got %v, want %v", n, want)
	}
}

func TestInverseTransposeNonUniformScale(t *testing.T) {
	m := Compose(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{2, 1, 1})
	it := InverseTranspose(m)

	// A 45 degree normal on a surface stretched along X tilts toward X less.
	n := Normalize(it.Mul4x1(mgl32.Vec4{1, 1, 0, 0}).Vec3())
	if n.X() >= n.Y() {
		t.Errorf("normal should lean toward Y under X stretch, got %v", n)
	}
}

func TestLookTo(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	m := LookTo(eye, mgl32.Vec3{0, 0, -1}, AxisY)

	p := TransformPoint(m, mgl32.Vec3{0, 0, 0})
	if !near(p, mgl32.Vec3{0, 0, -5}) {
		t.Errorf("origin in view space: got %v, want (0,0,-5)", p)
	}
}

func TestStripTranslation(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	s := StripTranslation(m)
	if !s.ApproxEqual(mgl32.Ident4()) {
		t.Errorf("StripTranslation: got %v", s)
	}
}
