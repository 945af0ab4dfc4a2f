package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/pkg/math"
)

// ComputeTangents fills each vertex tangent from the UV layout of the
// triangles that share it. Per-triangle tangents are accumulated, then
// orthogonalized against the normal. Triangles with degenerate UVs are
// skipped; a vertex left without a tangent gets any vector perpendicular
// to its normal.
func ComputeTangents(vertices []Vertex, indices []uint32) {
	for i := range vertices {
		vertices[i].Tangent = mgl32.Vec3{}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV[0]-v0.UV[0], v1.UV[1]-v0.UV[1]
		du2, dv2 := v2.UV[0]-v0.UV[0], v2.UV[1]-v0.UV[1]

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			continue
		}
		r := 1 / denom
		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))

		vertices[i0].Tangent = vertices[i0].Tangent.Add(t)
		vertices[i1].Tangent = vertices[i1].Tangent.Add(t)
		vertices[i2].Tangent = vertices[i2].Tangent.Add(t)
	}

	for i := range vertices {
		n := vertices[i].Normal
		t := vertices[i].Tangent.Sub(n.Mul(n.Dot(vertices[i].Tangent)))
		if t.LenSqr() < 1e-8 {
			if math.Abs(n[0]) < 0.9 {
				t = mgl32.Vec3{1, 0, 0}.Sub(n.Mul(n[0]))
			} else {
				t = mgl32.Vec3{0, 1, 0}.Sub(n.Mul(n[1]))
			}
		}
		vertices[i].Tangent = t.Normalize()
	}
}
