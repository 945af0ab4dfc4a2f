// Package shadow renders the depth map of the shadow-casting directional
// light and holds the light-space matrices the main pass reprojects with.
package shadow

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// DefaultResolution is the default shadow map width and height.
const DefaultResolution = 1024

// Options configure the shadow map. DepthBias is in depth-buffer precision
// units, not world units.
type Options struct {
	Resolution     int
	DepthBias      int
	SlopeBias      float32
	LightDistance  float32
	ProjectionSize float32
}

// DefaultOptions returns a 1024x1024 map covering 20x20 world units.
func DefaultOptions() Options {
	return Options{
		Resolution:     DefaultResolution,
		DepthBias:      1000,
		SlopeBias:      1.0,
		LightDistance:  20,
		ProjectionSize: 20,
	}
}

// Map is the shadow map and the state of the pass that renders it.
type Map struct {
	dev  gfx.Device
	opts Options
	log  *zap.Logger

	target     gfx.DepthTarget
	sampler    gfx.Sampler
	rasterizer gfx.RasterizerState

	center    mgl32.Vec3
	lightDir  mgl32.Vec3
	viewValid bool

	view       mgl32.Mat4
	projection mgl32.Mat4

	prevViewport gfx.Viewport
}

// New creates the depth target, the comparison sampler and the biased
// rasterizer state.
func New(dev gfx.Device, opts Options) (*Map, error) {
	if opts.Resolution <= 0 {
		opts.Resolution = DefaultResolution
	}

	m := &Map{
		dev:  dev,
		opts: opts,
		log:  logger.Named("shadow"),
		view: mgl32.Ident4(),
	}

	var err error
	m.target, err = dev.CreateDepthTarget(opts.Resolution, opts.Resolution)
	if err != nil {
		return nil, fmt.Errorf("creating shadow map: %w", err)
	}

	// Everything outside the map compares as lit.
	m.sampler, err = dev.CreateSampler(gfx.SamplerDesc{
		Filter:  gfx.FilterLinear,
		Address: gfx.AddressBorder,
		Border:  [4]float32{1, 1, 1, 1},
		Compare: gfx.CompareLess,
	})
	if err != nil {
		m.Release()
		return nil, fmt.Errorf("creating shadow sampler: %w", err)
	}

	m.rasterizer, err = dev.CreateRasterizerState(gfx.RasterizerDesc{
		Cull:                 gfx.CullBack,
		DepthBias:            opts.DepthBias,
		SlopeScaledDepthBias: opts.SlopeBias,
	})
	if err != nil {
		m.Release()
		return nil, fmt.Errorf("creating shadow rasterizer: %w", err)
	}

	m.updateProjection()
	m.log.Debug("shadow map created", zap.Int("resolution", opts.Resolution))
	return m, nil
}

// Update recomputes the light view when the light direction changed. It
// reports whether the view was rebuilt. A zero direction keeps the
// previous view.
func (m *Map) Update(lightDir mgl32.Vec3) bool {
	if m.viewValid && lightDir == m.lightDir {
		return false
	}
	dir := math.Normalize(lightDir)
	if dir == (mgl32.Vec3{}) {
		return false
	}
	m.lightDir = lightDir
	m.viewValid = true

	up := math.AxisY
	if math.Abs(dir[1]) > 0.99 {
		up = math.AxisZ
	}
	eye := m.center.Add(dir.Mul(-m.opts.LightDistance))
	m.view = math.LookTo(eye, dir, up)
	return true
}

// Resize recreates the depth target when the resolution changes.
func (m *Map) Resize(resolution int) error {
	if resolution <= 0 {
		return gfx.ErrInvalidSize
	}
	if resolution == m.opts.Resolution && m.target != nil {
		return nil
	}
	target, err := m.dev.CreateDepthTarget(resolution, resolution)
	if err != nil {
		return fmt.Errorf("resizing shadow map: %w", err)
	}
	if m.target != nil {
		m.target.Release()
	}
	m.target = target
	m.opts.Resolution = resolution
	m.log.Info("shadow map resized", zap.Int("resolution", resolution))
	return nil
}

// SetProjectionSize changes the world-space extent the map covers.
func (m *Map) SetProjectionSize(size float32) {
	m.opts.ProjectionSize = size
	m.updateProjection()
}

// SetLightDistance moves the light eye along its direction.
func (m *Map) SetLightDistance(d float32) {
	m.opts.LightDistance = d
	m.updateProjection()
	m.viewValid = false
}

// SetCenter moves the point the light view is focused on.
func (m *Map) SetCenter(c mgl32.Vec3) {
	m.center = c
	m.viewValid = false
}

// FitToBounds centers the light view on b and sizes the projection to
// contain it.
func (m *Map) FitToBounds(b AABB) {
	radius := b.Radius()
	padding := radius * 0.1
	m.center = b.Center()
	m.opts.LightDistance = radius * 2
	m.opts.ProjectionSize = (radius + padding) * 2
	m.updateProjection()
	m.viewValid = false
}

func (m *Map) updateProjection() {
	half := m.opts.ProjectionSize / 2
	// The far plane reaches past the focus point by the map's half extent.
	far := m.opts.LightDistance + half
	m.projection = mgl32.Ortho(-half, half, -half, half, 0.1, far)
}

// Begin binds the depth target, sets the viewport to the map and installs
// the biased rasterizer. The previous viewport is restored by End.
func (m *Map) Begin(ctx gfx.Context) {
	m.prevViewport = ctx.Viewport()
	ctx.BindDepthTarget(m.target)
	ctx.SetViewport(gfx.Viewport{Width: m.opts.Resolution, Height: m.opts.Resolution})
	ctx.ClearDepth(1)
	ctx.SetRasterizerState(m.rasterizer)
}

// End removes the biased rasterizer and restores the viewport saved by
// Begin. The caller rebinds its own render target.
func (m *Map) End(ctx gfx.Context) {
	ctx.SetRasterizerState(nil)
	ctx.SetViewport(m.prevViewport)
}

func (m *Map) View() mgl32.Mat4                { return m.view }
func (m *Map) Projection() mgl32.Mat4          { return m.projection }
func (m *Map) Resolution() int                 { return m.opts.Resolution }
func (m *Map) Options() Options                { return m.opts }
func (m *Map) Texture() gfx.Texture            { return m.target.Depth() }
func (m *Map) Sampler() gfx.Sampler            { return m.sampler }
func (m *Map) Target() gfx.DepthTarget         { return m.target }
func (m *Map) Rasterizer() gfx.RasterizerState { return m.rasterizer }
func (m *Map) Center() mgl32.Vec3              { return m.center }

// Release frees the GPU resources.
func (m *Map) Release() {
	if m.target != nil {
		m.target.Release()
		m.target = nil
	}
	if m.sampler != nil {
		m.sampler.Release()
		m.sampler = nil
	}
	if m.rasterizer != nil {
		m.rasterizer.Release()
		m.rasterizer = nil
	}
}
