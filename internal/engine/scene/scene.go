// Package scene holds the drawable world: entities, the resources they
// share, cameras, lights and the sky.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/picking"
	"github.com/Faultbox/lumen/internal/engine/platform"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/engine/sky"
	"github.com/Faultbox/lumen/internal/logger"
)

// ErrNoCamera is returned when a camera index does not exist.
var ErrNoCamera = errors.New("no such camera")

// Scene is a flat, insertion-ordered list of entities plus the shared
// resources they reference. Draw order is insertion order.
type Scene struct {
	entities  []*Entity
	meshes    []*mesh.Mesh
	materials []*material.Material

	cameras []*camera.Camera
	active  int

	lights *lighting.Set
	sky    *sky.Sky

	log *zap.Logger
}

// New returns an empty scene with the given ambient light.
func New(ambient mgl32.Vec3) *Scene {
	return &Scene{
		lights: lighting.NewSet(ambient),
		log:    logger.Named("scene"),
	}
}

// AddMesh registers a mesh so the scene releases it.
func (s *Scene) AddMesh(m *mesh.Mesh) *mesh.Mesh {
	s.meshes = append(s.meshes, m)
	return m
}

// AddMaterial registers a material for lookup by name.
func (s *Scene) AddMaterial(m *material.Material) *material.Material {
	s.materials = append(s.materials, m)
	return m
}

// Material returns the first material with the given name.
func (s *Scene) Material(name string) (*material.Material, bool) {
	for _, m := range s.materials {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// AddEntity appends an entity; it is drawn after every entity added before it.
func (s *Scene) AddEntity(e *Entity) *Entity {
	s.entities = append(s.entities, e)
	return e
}

func (s *Scene) Entities() []*Entity             { return s.entities }
func (s *Scene) Meshes() []*mesh.Mesh            { return s.meshes }
func (s *Scene) Materials() []*material.Material { return s.materials }
func (s *Scene) Lights() *lighting.Set           { return s.lights }
func (s *Scene) Sky() *sky.Sky                   { return s.sky }
func (s *Scene) Cameras() []*camera.Camera       { return s.cameras }
func (s *Scene) ActiveCameraIndex() int          { return s.active }

// SetSky replaces the sky, releasing the previous one.
func (s *Scene) SetSky(sk *sky.Sky) {
	if s.sky != nil && s.sky != sk {
		s.sky.Release()
	}
	s.sky = sk
}

// AddCamera appends a camera and returns its index. The first camera added
// becomes active.
func (s *Scene) AddCamera(c *camera.Camera) int {
	s.cameras = append(s.cameras, c)
	return len(s.cameras) - 1
}

// ActiveCamera returns the camera frames are rendered from, or nil when
// the scene has none.
func (s *Scene) ActiveCamera() *camera.Camera {
	if len(s.cameras) == 0 {
		return nil
	}
	return s.cameras[s.active]
}

// SetActiveCamera switches the rendering camera. The change applies to the
// next frame drawn.
func (s *Scene) SetActiveCamera(i int) error {
	if i < 0 || i >= len(s.cameras) {
		return fmt.Errorf("camera %d of %d: %w", i, len(s.cameras), ErrNoCamera)
	}
	if i != s.active {
		s.active = i
		s.log.Debug("active camera changed", zap.Int("index", i))
	}
	return nil
}

// Update moves the active camera from input.
func (s *Scene) Update(dt float32, in platform.Input) {
	if c := s.ActiveCamera(); c != nil {
		c.Update(dt, in)
	}
}

// Resize updates the projection of every camera, active or not.
func (s *Scene) Resize(aspect float32) {
	for _, c := range s.cameras {
		c.UpdateProjectionMatrix(aspect)
	}
}

// Bounds returns the world-space box around every entity.
func (s *Scene) Bounds() shadow.AABB {
	b := shadow.EmptyAABB()
	for _, e := range s.entities {
		b = b.Union(e.Bounds())
	}
	return b
}

// Pick returns the index of the nearest entity whose bounds the ray hits,
// or -1.
func (s *Scene) Pick(r picking.Ray) (index int, distance float32) {
	index = -1
	for i, e := range s.entities {
		d, ok := r.IntersectAABB(e.Bounds())
		if ok && (index < 0 || d < distance) {
			index, distance = i, d
		}
	}
	return index, distance
}

// Stats sums mesh statistics over the entities drawn each frame.
type Stats struct {
	Entities  int
	Triangles int
	Vertices  int
	Indices   int
}

// Stats returns the per-frame geometry totals.
func (s *Scene) Stats() Stats {
	st := Stats{Entities: len(s.entities)}
	for _, e := range s.entities {
		st.Triangles += e.Mesh().TriangleCount()
		st.Vertices += e.Mesh().VertexCount()
		st.Indices += e.Mesh().IndexCount()
	}
	return st
}

// Release frees registered meshes and the sky. Shaders are owned by whoever
// compiled them.
func (s *Scene) Release() {
	for _, m := range s.meshes {
		m.Release()
	}
	s.meshes = nil
	if s.sky != nil {
		s.sky.Release()
		s.sky = nil
	}
}
