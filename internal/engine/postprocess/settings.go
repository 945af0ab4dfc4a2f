// Package postprocess renders the scene into an off-screen target and
// resolves it to the screen with blur and fog.
package postprocess

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/pkg/math"
)

// FogMode selects how distance maps to fog amount.
type FogMode int32

const (
	FogLinear FogMode = iota
	FogSmooth
	FogExponential
)

var fogModeNames = [...]string{"linear", "smooth", "exponential"}

func (m FogMode) String() string {
	if m < 0 || int(m) >= len(fogModeNames) {
		return fmt.Sprintf("FogMode(%d)", int32(m))
	}
	return fogModeNames[m]
}

// ParseFogMode parses a mode name as written in the config file.
func ParseFogMode(s string) (FogMode, error) {
	for i, name := range fogModeNames {
		if s == name {
			return FogMode(i), nil
		}
	}
	return FogLinear, fmt.Errorf("unknown fog mode %q", s)
}

// Settings are the tunable post-process parameters.
type Settings struct {
	// BlurRadius is the box blur half-width in pixels; 0 disables blur.
	BlurRadius int

	Fog        FogMode
	FogColor   mgl32.Vec3
	FogStart   float32
	FogEnd     float32
	FogDensity float32

	HeightFog        bool
	HeightFogDensity float32
	HeightFogHeight  float32
}

// DefaultSettings returns linear fog from 20 to 60 units, no blur.
func DefaultSettings() Settings {
	return Settings{
		Fog:              FogLinear,
		FogColor:         mgl32.Vec3{0.4, 0.6, 0.75},
		FogStart:         20,
		FogEnd:           60,
		FogDensity:       0.05,
		HeightFogDensity: 0.3,
	}
}

// DistanceFog returns the fog amount in [0, 1] at a distance from the
// camera.
func (s Settings) DistanceFog(d float32) float32 {
	switch s.Fog {
	case FogExponential:
		return 1 - math.Exp(-d*s.FogDensity)
	case FogSmooth:
		return math.Smoothstep(s.FogStart, s.FogEnd, d)
	default:
		return math.Saturate((d - s.FogStart) / max(s.FogEnd-s.FogStart, 1e-4))
	}
}

// HeightFogFactor returns the height fog amount at world height y.
func (s Settings) HeightFogFactor(y float32) float32 {
	below := max(s.HeightFogHeight-y, 0)
	return 1 - math.Exp(-below*s.HeightFogDensity)
}

// FogFactor combines distance and height fog the way the resolve pass does.
func (s Settings) FogFactor(d, y float32) float32 {
	fog := s.DistanceFog(d)
	if s.HeightFog {
		hf := s.HeightFogFactor(y)
		fog += hf * (1 - fog)
	}
	return fog
}

// BlurTaps is the number of samples the blur reads per pixel.
func (s Settings) BlurTaps() int {
	w := 2*max(s.BlurRadius, 0) + 1
	return w * w
}
