package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/shader"
)

// MaxLights is the size of the shader's light array.
const MaxLights = 16

// Set is the scene's lights plus the ambient term.
type Set struct {
	lights  []Light
	ambient mgl32.Vec3
	buf     []byte
}

// NewSet creates an empty set.
func NewSet(ambient mgl32.Vec3) *Set {
	return &Set{
		lights:  make([]Light, 0, MaxLights),
		ambient: ambient,
		buf:     make([]byte, MaxLights*RecordSize),
	}
}

// Add appends a light. Returns false if the set is full.
func (s *Set) Add(l Light) bool {
	if len(s.lights) >= MaxLights {
		return false
	}
	s.lights = append(s.lights, l)
	return true
}

// Remove deletes the light at index i, keeping the order of the rest.
func (s *Set) Remove(i int) {
	if i < 0 || i >= len(s.lights) {
		return
	}
	s.lights = append(s.lights[:i], s.lights[i+1:]...)
}

// Clear removes all lights.
func (s *Set) Clear() { s.lights = s.lights[:0] }

func (s *Set) Len() int                    { return len(s.lights) }
func (s *Set) At(i int) Light              { return s.lights[i] }
func (s *Set) Lights() []Light             { return s.lights }
func (s *Set) Ambient() mgl32.Vec3         { return s.ambient }
func (s *Set) SetAmbient(color mgl32.Vec3) { s.ambient = color }

// ShadowCaster returns the first directional light, the only one that
// casts shadows.
func (s *Set) ShadowCaster() (*Directional, bool) {
	for _, l := range s.lights {
		if d, ok := l.(*Directional); ok {
			return d, true
		}
	}
	return nil, false
}

// Pack returns every light as a fixed-size record followed by zeroed
// records up to MaxLights. The slice is reused by the next call.
func (s *Set) Pack() []byte {
	clear(s.buf)
	for i, l := range s.lights {
		l.pack(s.buf[i*RecordSize : (i+1)*RecordSize])
	}
	return s.buf
}

// Apply stages the packed lights, the light count and the ambient color on
// a pixel shader.
func (s *Set) Apply(ps *shader.Shader) {
	ps.SetData("Lights", s.Pack())
	ps.SetInt("lightCount", int32(len(s.lights)))
	ps.SetFloat3("ambientColor", s.ambient)
}
