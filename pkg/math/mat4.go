package math

import "github.com/go-gl/mathgl/mgl32"

// Compose returns the world matrix for a position, orientation and scale.
// Points are scaled, then rotated, then translated.
func Compose(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	r := rotation.Mat4()
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// InverseTranspose returns the matrix used to carry normals through m.
// It corrects normals under non-uniform scale. A singular m yields the zero
// matrix, matching mgl32's Inv.
func InverseTranspose(m mgl32.Mat4) mgl32.Mat4 {
	return m.Transpose().Inv()
}

// LookTo returns a view matrix at eye looking along dir.
func LookTo(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, eye.Add(dir), up)
}

// StripTranslation removes the translation part of a view matrix. The sky
// pass uses it to keep the cube centered on the camera.
func StripTranslation(m mgl32.Mat4) mgl32.Mat4 {
	m[12], m[13], m[14] = 0, 0, 0
	return m
}

// TransformPoint transforms p by m with perspective divide.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	if v[3] != 0 && v[3] != 1 {
		return mgl32.Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
	}
	return v.Vec3()
}
