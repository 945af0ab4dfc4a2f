package math

import "github.com/go-gl/mathgl/mgl32"

// QuatFromPitchYawRoll builds an orientation from Euler angles in radians.
// Roll (about Z) is applied first, then pitch (about X), then yaw (about Y).
func QuatFromPitchYawRoll(pitch, yaw, roll float32) mgl32.Quat {
	qx := mgl32.QuatRotate(pitch, AxisX)
	qy := mgl32.QuatRotate(yaw, AxisY)
	qz := mgl32.QuatRotate(roll, AxisZ)
	return qy.Mul(qx).Mul(qz).Normalize()
}

// Rotate rotates v by the Euler orientation (pitch, yaw, roll).
func Rotate(v mgl32.Vec3, pitch, yaw, roll float32) mgl32.Vec3 {
	return QuatFromPitchYawRoll(pitch, yaw, roll).Rotate(v)
}
