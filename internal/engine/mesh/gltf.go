package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/logger"
)

// LoadGLTF loads every triangle primitive of a .gltf or .glb file as its
// own mesh. Node transforms and materials are not applied.
func LoadGLTF(dev gfx.Device, path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	log := logger.Named("mesh")
	var meshes []*Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			name := fmt.Sprintf("%s/%d", gm.Name, pi)
			if gm.Name == "" {
				name = fmt.Sprintf("mesh%d/%d", mi, pi)
			}
			if prim.Mode != gltf.PrimitiveTriangles {
				log.Warn("skipping non-triangle primitive", zap.String("mesh", name))
				continue
			}

			vertices, indices, err := readPrimitive(doc, prim)
			if err != nil {
				releaseAll(meshes)
				return nil, fmt.Errorf("%s: %s: %w", path, name, err)
			}
			m, err := New(dev, name, vertices, indices)
			if err != nil {
				releaseAll(meshes)
				return nil, err
			}
			meshes = append(meshes, m)
		}
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyMesh)
	}
	return meshes, nil
}

func releaseAll(meshes []*Mesh) {
	for _, m := range meshes {
		m.Release()
	}
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]Vertex, []uint32, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}

	var (
		normals  [][3]float32
		tangents [][4]float32
		uvs      [][2]float32
	)
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		if tangents, err = modeler.ReadTangent(doc, doc.Accessors[idx], nil); err != nil {
			return nil, nil, fmt.Errorf("tangents: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, nil, fmt.Errorf("uvs: %w", err)
		}
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{Position: mgl32.Vec3{p[0], p[1], p[2]}, Normal: mgl32.Vec3{0, 1, 0}}
		if i < len(normals) {
			v.Normal = mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]}
		}
		if i < len(tangents) {
			v.Tangent = mgl32.Vec3{tangents[i][0], tangents[i][1], tangents[i][2]}
		}
		if i < len(uvs) {
			// glTF puts the UV origin top-left; textures upload bottom row first.
			v.UV = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
		vertices[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return vertices, indices, nil
}
