package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/postprocess"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shadow"
)

// CameraOptions converts the camera section. FOV is stored in degrees.
func CameraOptions(c config.CameraConfig) camera.Options {
	return camera.Options{
		FOV:         mgl32.DegToRad(c.FOVDegrees),
		Near:        c.Near,
		Far:         c.Far,
		MoveSpeed:   c.MoveSpeed,
		LookSpeed:   c.LookSpeed,
		Perspective: true,
	}
}

// ShadowOptions converts the shadow section.
func ShadowOptions(c config.ShadowConfig) shadow.Options {
	return shadow.Options{
		Resolution:     c.Resolution,
		DepthBias:      c.DepthBias,
		SlopeBias:      c.SlopeBias,
		LightDistance:  c.LightDistance,
		ProjectionSize: c.ProjectionSize,
	}
}

// PostSettings converts the post section.
func PostSettings(c config.PostConfig) (postprocess.Settings, error) {
	mode, err := postprocess.ParseFogMode(c.FogMode)
	if err != nil {
		return postprocess.Settings{}, err
	}
	return postprocess.Settings{
		BlurRadius:       c.BlurRadius,
		Fog:              mode,
		FogColor:         mgl32.Vec3(c.FogColor),
		FogStart:         c.FogStart,
		FogEnd:           c.FogEnd,
		FogDensity:       c.FogDensity,
		HeightFog:        c.HeightFog,
		HeightFogDensity: c.HeightFogDensity,
		HeightFogHeight:  c.HeightFogHeight,
	}, nil
}

// RendererConfig builds the renderer configuration. offscreen is set when
// the debug UI composites the frame.
func RendererConfig(cfg *config.Config, offscreen bool) (renderer.Config, error) {
	post, err := PostSettings(cfg.Post)
	if err != nil {
		return renderer.Config{}, fmt.Errorf("post settings: %w", err)
	}
	return renderer.Config{
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		ClearColor: cfg.Graphics.ClearColor,
		Shadow:     ShadowOptions(cfg.Shadow),
		Post:       post,
		Offscreen:  offscreen,
	}, nil
}

// Capture copies settings edited at runtime back into cfg so they can be
// saved. Camera values come from the primary camera, the one built from
// the camera section.
func Capture(cfg *config.Config, r *renderer.Renderer, sc *scene.Scene) {
	cfg.Graphics.ClearColor = r.ClearColor()

	sm := r.ShadowMap()
	cfg.Shadow.Resolution = sm.Resolution()
	if !r.FitShadowToScene() {
		opts := sm.Options()
		cfg.Shadow.LightDistance = opts.LightDistance
		cfg.Shadow.ProjectionSize = opts.ProjectionSize
	}

	s := r.Settings()
	cfg.Post = config.PostConfig{
		BlurRadius:       s.BlurRadius,
		FogMode:          s.Fog.String(),
		FogColor:         [3]float32(s.FogColor),
		FogStart:         s.FogStart,
		FogEnd:           s.FogEnd,
		FogDensity:       s.FogDensity,
		HeightFog:        s.HeightFog,
		HeightFogDensity: s.HeightFogDensity,
		HeightFogHeight:  s.HeightFogHeight,
	}

	if cams := sc.Cameras(); len(cams) > 0 {
		c := cams[0]
		cfg.Camera.Near = c.Near()
		cfg.Camera.Far = c.Far()
		cfg.Camera.MoveSpeed = c.MoveSpeed()
		cfg.Camera.LookSpeed = c.LookSpeed()
		if c.IsPerspective() {
			cfg.Camera.FOVDegrees = mgl32.RadToDeg(c.FOV())
		}
	}
}
