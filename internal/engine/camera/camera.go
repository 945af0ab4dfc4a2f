// Package camera provides the free-fly camera used to view the scene.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/platform"
	"github.com/Faultbox/lumen/internal/engine/transform"
	"github.com/Faultbox/lumen/pkg/math"
)

// MaxPitch keeps the camera from flipping over the vertical.
const MaxPitch = gomath.Pi/2 - 0.01

// FastMultiplier scales movement while Shift is held.
const FastMultiplier = 3

// OrthoHeight is the world-space height an orthographic camera covers.
const OrthoHeight = 10

// Options configure a camera. FOV is vertical, in radians.
type Options struct {
	FOV         float32
	Near        float32
	Far         float32
	MoveSpeed   float32
	LookSpeed   float32
	Perspective bool
}

// DefaultOptions returns a 45 degree perspective camera.
func DefaultOptions() Options {
	return Options{
		FOV:         mgl32.DegToRad(45),
		Near:        0.1,
		Far:         100,
		MoveSpeed:   5,
		LookSpeed:   0.002,
		Perspective: true,
	}
}

// Camera derives view and projection matrices from its transform.
type Camera struct {
	transform *transform.Transform
	opts      Options
	aspect    float32

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// New creates a camera at position for the given viewport aspect ratio.
func New(aspect float32, position mgl32.Vec3, opts Options) *Camera {
	c := &Camera{
		transform: transform.New(),
		opts:      opts,
	}
	c.transform.SetPosition(position)
	c.UpdateViewMatrix()
	c.UpdateProjectionMatrix(aspect)
	return c
}

// Update applies one frame of mouse-look and keyboard movement.
// Mouse-look is active only while the left button is held.
func (c *Camera) Update(dt float32, in platform.Input) {
	if in.MouseLeftDown() {
		dx, dy := in.MouseDelta()
		rot := c.transform.PitchYawRoll()
		rot[0] = math.Clamp(rot[0]-dy*c.opts.LookSpeed, -MaxPitch, MaxPitch)
		rot[1] -= dx * c.opts.LookSpeed
		c.transform.SetRotation(rot)
	}

	var move mgl32.Vec3
	if in.KeyDown(platform.KeyW) {
		move[2]--
	}
	if in.KeyDown(platform.KeyS) {
		move[2]++
	}
	if in.KeyDown(platform.KeyA) {
		move[0]--
	}
	if in.KeyDown(platform.KeyD) {
		move[0]++
	}
	if in.KeyDown(platform.KeySpace) {
		move[1]++
	}
	if in.KeyDown(platform.KeyX) {
		move[1]--
	}
	if move != (mgl32.Vec3{}) {
		speed := c.opts.MoveSpeed * dt
		if in.KeyDown(platform.KeyShift) {
			speed *= FastMultiplier
		}
		c.transform.MoveRelative(move.Mul(speed))
	}

	c.UpdateViewMatrix()
}

// UpdateViewMatrix rebuilds the view matrix from the transform.
func (c *Camera) UpdateViewMatrix() {
	c.view = math.LookTo(c.transform.Position(), c.transform.Forward(), c.transform.Up())
}

// UpdateProjectionMatrix rebuilds the projection for a new aspect ratio.
func (c *Camera) UpdateProjectionMatrix(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.aspect = aspect
	if c.opts.Perspective {
		c.projection = mgl32.Perspective(c.opts.FOV, aspect, c.opts.Near, c.opts.Far)
		return
	}
	halfH := float32(OrthoHeight) / 2
	halfW := halfH * aspect
	c.projection = mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.opts.Near, c.opts.Far)
}

func (c *Camera) View() mgl32.Mat4                { return c.view }
func (c *Camera) Projection() mgl32.Mat4          { return c.projection }
func (c *Camera) Transform() *transform.Transform { return c.transform }
func (c *Camera) Position() mgl32.Vec3            { return c.transform.Position() }
func (c *Camera) Aspect() float32                 { return c.aspect }
func (c *Camera) Options() Options                { return c.opts }

func (c *Camera) FOV() float32           { return c.opts.FOV }
func (c *Camera) Near() float32          { return c.opts.Near }
func (c *Camera) Far() float32           { return c.opts.Far }
func (c *Camera) MoveSpeed() float32     { return c.opts.MoveSpeed }
func (c *Camera) LookSpeed() float32     { return c.opts.LookSpeed }
func (c *Camera) IsPerspective() bool    { return c.opts.Perspective }
func (c *Camera) SetMoveSpeed(s float32) { c.opts.MoveSpeed = s }
func (c *Camera) SetLookSpeed(s float32) { c.opts.LookSpeed = s }

// SetFOV changes the vertical field of view and rebuilds the projection.
func (c *Camera) SetFOV(fov float32) {
	c.opts.FOV = fov
	c.UpdateProjectionMatrix(c.aspect)
}

// SetClip changes the clip planes and rebuilds the projection.
func (c *Camera) SetClip(near, far float32) {
	c.opts.Near, c.opts.Far = near, far
	c.UpdateProjectionMatrix(c.aspect)
}

// SetPerspective switches between perspective and orthographic projection.
func (c *Camera) SetPerspective(on bool) {
	c.opts.Perspective = on
	c.UpdateProjectionMatrix(c.aspect)
}
