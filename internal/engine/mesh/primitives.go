package mesh

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Generated shapes wind counter-clockwise when seen from outside.

type face struct {
	normal, u, v mgl32.Vec3
}

var cubeFaces = [6]face{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// CubeData returns an axis-aligned cube of the given edge length centered
// on the origin, with four vertices per face.
func CubeData(size float32) ([]Vertex, []uint32) {
	h := size / 2
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		center := f.normal.Mul(h)
		corners := [4]struct{ su, sv, tu, tv float32 }{
			{-1, -1, 0, 0}, {1, -1, 1, 0}, {1, 1, 1, 1}, {-1, 1, 0, 1},
		}
		for _, c := range corners {
			vertices = append(vertices, Vertex{
				Position: center.Add(f.u.Mul(c.su * h)).Add(f.v.Mul(c.sv * h)),
				Normal:   f.normal,
				Tangent:  f.u,
				UV:       mgl32.Vec2{c.tu, c.tv},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// SphereData returns a UV sphere.
func SphereData(radius float32, segments, rings int) ([]Vertex, []uint32) {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []Vertex
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * gomath.Pi / float64(rings)
		sinPhi, cosPhi := float32(gomath.Sin(phi)), float32(gomath.Cos(phi))
		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * gomath.Pi / float64(segments)
			sinTheta, cosTheta := float32(gomath.Sin(theta)), float32(gomath.Cos(theta))

			n := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{1 - float32(seg)/float32(segments), 1 - float32(ring)/float32(rings)},
			})
		}
	}

	var indices []uint32
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			cur := uint32(ring*(segments+1) + seg)
			next := cur + uint32(segments+1)
			indices = append(indices, cur, cur+1, next, cur+1, next+1, next)
		}
	}
	return vertices, indices
}

// PlaneData returns a quad on the XZ plane facing +Y.
func PlaneData(width, depth float32) ([]Vertex, []uint32) {
	hw, hd := width/2, depth/2
	n := mgl32.Vec3{0, 1, 0}
	t := mgl32.Vec3{1, 0, 0}
	vertices := []Vertex{
		{Position: mgl32.Vec3{-hw, 0, hd}, Normal: n, Tangent: t, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{hw, 0, hd}, Normal: n, Tangent: t, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{hw, 0, -hd}, Normal: n, Tangent: t, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{-hw, 0, -hd}, Normal: n, Tangent: t, UV: mgl32.Vec2{0, 1}},
	}
	return vertices, []uint32{0, 1, 2, 0, 2, 3}
}

// NewCube uploads CubeData.
func NewCube(dev gfx.Device, size float32) (*Mesh, error) {
	v, i := CubeData(size)
	return New(dev, "cube", v, i)
}

// NewSphere uploads SphereData.
func NewSphere(dev gfx.Device, radius float32, segments, rings int) (*Mesh, error) {
	v, i := SphereData(radius, segments, rings)
	return New(dev, "sphere", v, i)
}

// NewPlane uploads PlaneData.
func NewPlane(dev gfx.Device, width, depth float32) (*Mesh, error) {
	v, i := PlaneData(width, depth)
	return New(dev, "plane", v, i)
}
