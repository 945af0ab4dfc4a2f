// Package mesh provides immutable GPU-resident triangle meshes.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/logger"
)

// Errors returned when building a mesh.
var (
	ErrEmptyMesh       = errors.New("mesh has no geometry")
	ErrNotTriangleList = errors.New("index count is not a multiple of 3")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Vertex is the interleaved vertex format every mesh uses.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
	UV       mgl32.Vec2
}

// VertexSize is the byte stride of Vertex on the GPU.
const VertexSize = 11 * 4

// Layout describes Vertex to the input assembler.
var Layout = gfx.VertexLayout{
	Stride: VertexSize,
	Attributes: []gfx.VertexAttribute{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 1, Components: 3, Offset: 12},
		{Location: 2, Components: 3, Offset: 24},
		{Location: 3, Components: 2, Offset: 36},
	},
}

// Mesh is a vertex and index buffer pair drawn as a triangle list. It never
// changes after creation and may be shared by any number of entities.
type Mesh struct {
	name        string
	vertexCount int
	indexCount  int
	vb          gfx.Buffer
	ib          gfx.Buffer
	min, max    mgl32.Vec3
}

// New uploads vertices and indices. Tangents are generated when every
// vertex arrives with a zero tangent.
func New(dev gfx.Device, name string, vertices []Vertex, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %s: %w", name, ErrEmptyMesh)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %s: %w", name, ErrNotTriangleList)
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("mesh %s: index %d of %d vertices: %w", name, idx, len(vertices), ErrIndexOutOfRange)
		}
	}

	if !hasTangents(vertices) {
		vertices = append([]Vertex(nil), vertices...)
		ComputeTangents(vertices, indices)
	}

	vb, err := dev.CreateBuffer(gfx.VertexBuffer, encodeVertices(vertices))
	if err != nil {
		return nil, fmt.Errorf("mesh %s: creating vertex buffer: %w", name, err)
	}
	ib, err := dev.CreateBuffer(gfx.IndexBuffer, gfx.Uint32Bytes(indices))
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("mesh %s: creating index buffer: %w", name, err)
	}

	logger.Named("mesh").Debug("mesh created",
		zap.String("name", name),
		zap.Int("vertices", len(vertices)),
		zap.Int("indices", len(indices)))

	lo, hi := vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for k := range 3 {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}

	return &Mesh{
		min:         lo,
		max:         hi,
		name:        name,
		vertexCount: len(vertices),
		indexCount:  len(indices),
		vb:          vb,
		ib:          ib,
	}, nil
}

func hasTangents(vertices []Vertex) bool {
	for _, v := range vertices {
		if v.Tangent != (mgl32.Vec3{}) {
			return true
		}
	}
	return false
}

func encodeVertices(vertices []Vertex) []byte {
	out := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		gfx.PutFloats(out[i*VertexSize:],
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.Tangent[0], v.Tangent[1], v.Tangent[2],
			v.UV[0], v.UV[1])
	}
	return out
}

// Draw binds the buffers and draws every index with whatever shaders and
// state are currently bound.
func (m *Mesh) Draw(ctx gfx.Context) {
	ctx.SetVertexBuffer(m.vb, Layout)
	ctx.SetIndexBuffer(m.ib)
	ctx.DrawIndexed(m.indexCount, 0, 0)
}

// Name returns the debug name.
func (m *Mesh) Name() string { return m.name }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return m.vertexCount }

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int { return m.indexCount }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return m.indexCount / 3 }

// Bounds returns the object-space bounding box corners.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) { return m.min, m.max }

// Release frees the GPU buffers.
func (m *Mesh) Release() {
	m.vb.Release()
	m.ib.Release()
}
