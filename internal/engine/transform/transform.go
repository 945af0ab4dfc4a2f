// Package transform holds an object's position, orientation and scale and
// derives its world matrix lazily.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/pkg/math"
)

// Transform is owned by exactly one entity or camera.
//
// Every setter marks the cached matrices stale; they are rebuilt on the
// next matrix read.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3 // pitch, yaw, roll in radians
	scale    mgl32.Vec3

	world             mgl32.Mat4
	worldInvTranspose mgl32.Mat4
	dirty             bool
}

// New returns an identity transform.
func New() *Transform {
	return &Transform{
		scale:             mgl32.Vec3{1, 1, 1},
		world:             mgl32.Ident4(),
		worldInvTranspose: mgl32.Ident4(),
	}
}

// SetPosition sets the absolute position.
func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.dirty = true
}

// SetRotation sets the absolute orientation as (pitch, yaw, roll).
func (t *Transform) SetRotation(pitchYawRoll mgl32.Vec3) {
	t.rotation = pitchYawRoll
	t.dirty = true
}

// SetScale sets the absolute scale.
func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.dirty = true
}

// MoveAbsolute offsets the position along world axes.
func (t *Transform) MoveAbsolute(offset mgl32.Vec3) {
	t.position = t.position.Add(offset)
	t.dirty = true
}

// MoveRelative offsets the position along the transform's own axes: the
// offset is rotated by the current orientation before it is applied.
func (t *Transform) MoveRelative(offset mgl32.Vec3) {
	t.position = t.position.Add(t.Orientation().Rotate(offset))
	t.dirty = true
}

// Rotate adds to the current (pitch, yaw, roll).
func (t *Transform) Rotate(pitchYawRoll mgl32.Vec3) {
	t.rotation = t.rotation.Add(pitchYawRoll)
	t.dirty = true
}

// Scale multiplies the current scale component-wise.
func (t *Transform) Scale(factors mgl32.Vec3) {
	t.scale = mgl32.Vec3{t.scale[0] * factors[0], t.scale[1] * factors[1], t.scale[2] * factors[2]}
	t.dirty = true
}

// Position returns the position.
func (t *Transform) Position() mgl32.Vec3 { return t.position }

// PitchYawRoll returns the orientation angles in radians.
func (t *Transform) PitchYawRoll() mgl32.Vec3 { return t.rotation }

// ScaleFactors returns the scale.
func (t *Transform) ScaleFactors() mgl32.Vec3 { return t.scale }

// Orientation returns the orientation as a quaternion.
func (t *Transform) Orientation() mgl32.Quat {
	return math.QuatFromPitchYawRoll(t.rotation[0], t.rotation[1], t.rotation[2])
}

// Right returns the local +X axis in world space.
func (t *Transform) Right() mgl32.Vec3 { return t.Orientation().Rotate(math.AxisX) }

// Up returns the local +Y axis in world space.
func (t *Transform) Up() mgl32.Vec3 { return t.Orientation().Rotate(math.AxisY) }

// Forward returns the direction the transform faces, its local -Z axis.
func (t *Transform) Forward() mgl32.Vec3 {
	return t.Orientation().Rotate(math.AxisZ.Mul(-1))
}

func (t *Transform) update() {
	if !t.dirty {
		return
	}
	t.world = math.Compose(t.position, t.Orientation(), t.scale)
	t.worldInvTranspose = math.InverseTranspose(t.world)
	t.dirty = false
}

// WorldMatrix returns the object-to-world matrix.
func (t *Transform) WorldMatrix() mgl32.Mat4 {
	t.update()
	return t.world
}

// WorldInverseTransposeMatrix returns the matrix that carries normals to
// world space.
func (t *Transform) WorldInverseTransposeMatrix() mgl32.Mat4 {
	t.update()
	return t.worldInvTranspose
}
