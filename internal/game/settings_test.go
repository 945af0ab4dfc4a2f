package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/lumen/internal/engine/postprocess"
	"github.com/Faultbox/lumen/internal/engine/renderer"
)

func TestCameraOptions(t *testing.T) {
	opts := CameraOptions(config.CameraConfig{FOVDegrees: 90, Near: 0.5, Far: 200, MoveSpeed: 3, LookSpeed: 0.01})
	assert.InDelta(t, mgl32.DegToRad(90), opts.FOV, 1e-6)
	assert.Equal(t, float32(0.5), opts.Near)
	assert.Equal(t, float32(200), opts.Far)
	assert.Equal(t, float32(3), opts.MoveSpeed)
	assert.Equal(t, float32(0.01), opts.LookSpeed)
	assert.True(t, opts.Perspective)
}

func TestShadowOptionsMatchDefaults(t *testing.T) {
	cfg := config.Default()
	opts := ShadowOptions(cfg.Shadow)
	assert.Equal(t, 1024, opts.Resolution)
	assert.Equal(t, 1000, opts.DepthBias)
	assert.Equal(t, float32(1), opts.SlopeBias)
	assert.Equal(t, float32(20), opts.LightDistance)
	assert.Equal(t, float32(20), opts.ProjectionSize)
}

func TestPostSettings(t *testing.T) {
	cfg := config.Default().Post
	cfg.FogMode = "exponential"
	cfg.BlurRadius = 2
	cfg.HeightFog = true

	s, err := PostSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, postprocess.FogExponential, s.Fog)
	assert.Equal(t, 2, s.BlurRadius)
	assert.True(t, s.HeightFog)
	assert.Equal(t, mgl32.Vec3{0.4, 0.6, 0.75}, s.FogColor)

	cfg.FogMode = "fluffy"
	_, err = PostSettings(cfg)
	assert.Error(t, err)
}

func TestRendererConfig(t *testing.T) {
	cfg := config.Default()
	rc, err := RendererConfig(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, 1280, rc.Width)
	assert.Equal(t, 720, rc.Height)
	assert.True(t, rc.Offscreen)
	assert.Equal(t, cfg.Graphics.ClearColor, rc.ClearColor)
	assert.Equal(t, postprocess.FogLinear, rc.Post.Fog)
}

func TestCaptureRoundTrip(t *testing.T) {
	cfg := config.Default()
	dev := gfxtest.NewDevice()
	_, d := buildDemo(t, nil)
	defer d.Release()

	rc, err := RendererConfig(cfg, false)
	require.NoError(t, err)
	r, err := renderer.New(dev, nil, rc)
	require.NoError(t, err)
	defer r.Close()

	r.SetClearColor([4]float32{1, 0, 0, 1})
	require.NoError(t, r.ResizeShadowMap(2048))
	r.ShadowMap().SetProjectionSize(35)
	r.Settings().Fog = postprocess.FogSmooth
	r.Settings().BlurRadius = 3
	d.Scene.Cameras()[0].SetFOV(mgl32.DegToRad(60))
	d.Scene.Cameras()[0].SetMoveSpeed(9)
	require.NoError(t, d.Scene.SetActiveCamera(1))

	Capture(cfg, r, d.Scene)

	assert.Equal(t, [4]float32{1, 0, 0, 1}, cfg.Graphics.ClearColor)
	assert.Equal(t, 2048, cfg.Shadow.Resolution)
	assert.Equal(t, float32(35), cfg.Shadow.ProjectionSize)
	assert.Equal(t, "smooth", cfg.Post.FogMode)
	assert.Equal(t, 3, cfg.Post.BlurRadius)
	assert.InDelta(t, 60, cfg.Camera.FOVDegrees, 1e-3, "the primary camera is captured, not the active one")
	assert.Equal(t, float32(9), cfg.Camera.MoveSpeed)
	require.NoError(t, cfg.Validate())

	post, err := PostSettings(cfg.Post)
	require.NoError(t, err)
	assert.Equal(t, *r.Settings(), post)
}
