package shadow

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/pkg/math"
)

// Project maps a world position into shadow-map space the way the pixel
// shader does: xy in [0, 1] texture coordinates and z as the depth to
// compare against.
func (m *Map) Project(world mgl32.Vec3) mgl32.Vec3 {
	clip := math.TransformPoint(m.projection.Mul4(m.view), world)
	return clip.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5})
}

// DepthImage is a CPU copy of a square depth map, row 0 at v = 0.
type DepthImage struct {
	Size   int
	Depths []float32
}

// NewDepthImage returns a map cleared to the far plane.
func NewDepthImage(size int) *DepthImage {
	d := &DepthImage{Size: size, Depths: make([]float32, size*size)}
	for i := range d.Depths {
		d.Depths[i] = 1
	}
	return d
}

// At returns the stored depth at texel (x, y).
func (d *DepthImage) At(x, y int) float32 { return d.Depths[y*d.Size+x] }

// Set stores a depth at texel (x, y).
func (d *DepthImage) Set(x, y int, depth float32) { d.Depths[y*d.Size+x] = depth }

// SampleCompare is the nearest-texel reference of the comparison sampler:
// 1 when ref is less than the stored depth, else 0. Coordinates outside
// [0, 1] read the white border and are lit.
func (d *DepthImage) SampleCompare(uv mgl32.Vec2, ref float32) float32 {
	if uv[0] < 0 || uv[0] > 1 || uv[1] < 0 || uv[1] > 1 {
		return 1
	}
	x := min(int(uv[0]*float32(d.Size)), d.Size-1)
	y := min(int(uv[1]*float32(d.Size)), d.Size-1)
	if ref < d.At(x, y) {
		return 1
	}
	return 0
}

// Factor returns the shadow factor of a world position against a depth
// image: 1 lit, 0 occluded. Points beyond the far plane are lit.
func (m *Map) Factor(d *DepthImage, world mgl32.Vec3) float32 {
	p := m.Project(world)
	if p[2] >= 1 {
		return 1
	}
	return d.SampleCompare(p.Vec2(), p[2])
}
