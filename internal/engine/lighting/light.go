// Package lighting holds the scene's light sources and packs them for the
// pixel shader.
package lighting

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/pkg/math"
)

// Type is the light kind as the shader sees it.
type Type int32

const (
	TypeDirectional Type = 0
	TypePoint       Type = 1
	TypeSpot        Type = 2
)

func (t Type) String() string {
	switch t {
	case TypeDirectional:
		return "directional"
	case TypePoint:
		return "point"
	case TypeSpot:
		return "spot"
	}
	return "unknown"
}

// RecordSize is the std140 size of one packed light.
const RecordSize = 64

// Light is one of *Directional, *Point or *Spot.
type Light interface {
	Type() Type
	pack(dst []byte)
}

// Directional lights the whole scene from one direction. The first
// directional light in a Set casts the shadow.
type Directional struct {
	direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
}

// NewDirectional creates a directional light shining along dir.
func NewDirectional(dir, color mgl32.Vec3, intensity float32) *Directional {
	d := &Directional{direction: defaultDirection, Color: color, Intensity: intensity}
	d.SetDirection(dir)
	return d
}

func (d *Directional) Type() Type                { return TypeDirectional }
func (d *Directional) Direction() mgl32.Vec3     { return d.direction }
func (d *Directional) SetDirection(v mgl32.Vec3) { setDirection(&d.direction, v) }

func (d *Directional) pack(dst []byte) {
	putRecord(dst, TypeDirectional, d.direction, mgl32.Vec3{}, 0, d.Color, d.Intensity, 0, 0)
}

// Point radiates from a position and fades out at Range.
type Point struct {
	Position  mgl32.Vec3
	Range     float32
	Color     mgl32.Vec3
	Intensity float32
}

func (p *Point) Type() Type { return TypePoint }

func (p *Point) pack(dst []byte) {
	putRecord(dst, TypePoint, mgl32.Vec3{}, p.Position, p.Range, p.Color, p.Intensity, 0, 0)
}

// Spot is a point light limited to a cone. Inner and Outer are half-angles
// in radians; light fades between them.
type Spot struct {
	Position  mgl32.Vec3
	direction mgl32.Vec3
	Range     float32
	Inner     float32
	Outer     float32
	Color     mgl32.Vec3
	Intensity float32
}

// NewSpot creates a spot light at pos shining along dir.
func NewSpot(pos, dir mgl32.Vec3, rng, inner, outer float32, color mgl32.Vec3, intensity float32) *Spot {
	s := &Spot{
		Position:  pos,
		direction: defaultDirection,
		Range:     rng,
		Inner:     inner,
		Outer:     outer,
		Color:     color,
		Intensity: intensity,
	}
	s.SetDirection(dir)
	return s
}

func (s *Spot) Type() Type                { return TypeSpot }
func (s *Spot) Direction() mgl32.Vec3     { return s.direction }
func (s *Spot) SetDirection(v mgl32.Vec3) { setDirection(&s.direction, v) }

// defaultDirection points straight down.
var defaultDirection = mgl32.Vec3{0, -1, 0}

// setDirection stores v normalized. A zero vector has no direction and
// leaves dst unchanged.
func setDirection(dst *mgl32.Vec3, v mgl32.Vec3) {
	if n := math.Normalize(v); n != (mgl32.Vec3{}) {
		*dst = n
	}
}

func (s *Spot) pack(dst []byte) {
	putRecord(dst, TypeSpot, s.direction, s.Position, s.Range, s.Color, s.Intensity, s.Inner, s.Outer)
}

// putRecord writes the shader's Light struct:
// direction, type, position, range, color, intensity, inner, outer, pad.
func putRecord(dst []byte, t Type, dir, pos mgl32.Vec3, rng float32, color mgl32.Vec3, intensity, inner, outer float32) {
	gfx.PutFloats(dst[0:], dir[0], dir[1], dir[2])
	binary.LittleEndian.PutUint32(dst[12:], uint32(t))
	gfx.PutFloats(dst[16:], pos[0], pos[1], pos[2], rng)
	gfx.PutFloats(dst[32:], color[0], color[1], color[2], intensity)
	gfx.PutFloats(dst[48:], inner, outer, 0, 0)
}
