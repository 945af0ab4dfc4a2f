package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

type objKey struct{ v, vt, vn int }

// ParseOBJ reads Wavefront OBJ geometry. Every object and group is merged
// into one indexed triangle list; polygons are fan-triangulated and
// identical position/uv/normal triples share a vertex. Missing normals are
// rebuilt from face normals.
func ParseOBJ(r io.Reader) ([]Vertex, []uint32, error) {
	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		uvs       []mgl32.Vec2
		vertices  []Vertex
		indices   []uint32
	)
	seen := make(map[objKey]uint32)
	missingNormals := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, mgl32.Vec2{v[0], v[1]})
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: face needs 3 vertices", lineNo)
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				key, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx, ok := seen[key]
				if !ok {
					v := Vertex{Position: positions[key.v]}
					if key.vt >= 0 {
						v.UV = uvs[key.vt]
					}
					if key.vn >= 0 {
						v.Normal = normals[key.vn]
					} else {
						missingNormals = true
					}
					idx = uint32(len(vertices))
					vertices = append(vertices, v)
					seen[key] = idx
				}
				face = append(face, idx)
			}
			for i := 1; i+1 < len(face); i++ {
				indices = append(indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading obj: %w", err)
	}
	if len(indices) == 0 {
		return nil, nil, ErrEmptyMesh
	}

	if missingNormals {
		rebuildNormals(vertices, indices)
	}
	return vertices, indices, nil
}

// LoadOBJ parses OBJ geometry from r and uploads it.
func LoadOBJ(dev gfx.Device, name string, r io.Reader) (*Mesh, error) {
	vertices, indices, err := ParseOBJ(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return New(dev, name, vertices, indices)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// resolveIndex converts a 1-based or negative relative OBJ index.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = count + n
	} else {
		n--
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("index %s of %d: %w", s, count, ErrIndexOutOfRange)
	}
	return n, nil
}

func parseFaceVertex(tok string, nv, nvt, nvn int) (objKey, error) {
	parts := strings.Split(tok, "/")
	key := objKey{v: -1, vt: -1, vn: -1}

	var err error
	if key.v, err = resolveIndex(parts[0], nv); err != nil {
		return key, err
	}
	if key.v < 0 {
		return key, fmt.Errorf("face vertex %q has no position", tok)
	}
	if len(parts) > 1 {
		if key.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return key, err
		}
	}
	if len(parts) > 2 {
		if key.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return key, err
		}
	}
	return key, nil
}

func rebuildNormals(vertices []Vertex, indices []uint32) {
	acc := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		for _, idx := range indices[i : i+3] {
			acc[idx] = acc[idx].Add(n)
		}
	}
	for i := range vertices {
		if vertices[i].Normal == (mgl32.Vec3{}) && acc[i].Len() > 0 {
			vertices[i].Normal = acc[i].Normalize()
		}
	}
}
