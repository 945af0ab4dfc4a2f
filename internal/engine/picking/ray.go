// Package picking casts rays from screen positions into the scene.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay converts a pixel position to a world-space ray through the
// near and far planes. invViewProj is (projection * view) inverted.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // pixel rows grow downwards

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})
	return Ray{Origin: near, Direction: math.Normalize(far.Sub(near))}
}

func unproject(m mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	w := m.Mul4x1(p)
	if w[3] != 0 {
		return w.Vec3().Mul(1 / w[3])
	}
	return w.Vec3()
}

// IntersectPlaneY returns where the ray crosses the horizontal plane at y.
func (r Ray) IntersectPlaneY(y float32) (mgl32.Vec3, bool) {
	if math.Abs(r.Direction[1]) < 0.001 {
		return mgl32.Vec3{}, false
	}
	t := (y - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectAABB returns the distance to the first hit with box. A ray that
// starts inside the box reports the exit distance.
func (r Ray) IntersectAABB(box shadow.AABB) (float32, bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
