package lighting

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts a longitude around Y and a latitude above the
// horizon, both in degrees, to the direction sunlight travels.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := float64(mgl32.DegToRad(longitude))
	lat := float64(mgl32.DegToRad(latitude))

	// Points from the scene towards the sun.
	toSun := mgl32.Vec3{
		float32(gomath.Cos(lat) * gomath.Sin(lon)),
		float32(gomath.Sin(lat)),
		float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
	return toSun.Mul(-1)
}

// SunAngles is the inverse of SunDirection.
func SunAngles(dir mgl32.Vec3) (longitude, latitude float32) {
	toSun := dir.Mul(-1).Normalize()
	lat := gomath.Asin(float64(mgl32.Clamp(toSun[1], -1, 1)))
	lon := gomath.Atan2(float64(toSun[0]), float64(toSun[2]))
	return mgl32.RadToDeg(float32(lon)), mgl32.RadToDeg(float32(lat))
}
