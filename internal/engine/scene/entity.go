package scene

import (
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/engine/transform"
)

// Entity is a drawable: a shared mesh and material placed by its own
// transform.
type Entity struct {
	name      string
	mesh      *mesh.Mesh
	material  *material.Material
	transform *transform.Transform
}

// NewEntity returns an entity at the origin.
func NewEntity(name string, m *mesh.Mesh, mat *material.Material) *Entity {
	return &Entity{name: name, mesh: m, material: mat, transform: transform.New()}
}

func (e *Entity) Name() string                       { return e.name }
func (e *Entity) Mesh() *mesh.Mesh                   { return e.mesh }
func (e *Entity) Material() *material.Material       { return e.material }
func (e *Entity) SetMaterial(mat *material.Material) { e.material = mat }
func (e *Entity) Transform() *transform.Transform    { return e.transform }

// Bounds returns the world-space box around the entity's mesh.
func (e *Entity) Bounds() shadow.AABB {
	lo, hi := e.mesh.Bounds()
	return shadow.AABB{Min: lo, Max: hi}.Transform(e.transform.WorldMatrix())
}
