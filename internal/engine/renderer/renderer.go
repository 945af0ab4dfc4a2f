// Package renderer sequences the passes of a frame: shadow map, opaque
// scene, sky, post-process resolve and present.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/platform"
	"github.com/Faultbox/lumen/internal/engine/postprocess"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/shaders"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	Shadow     shadow.Options
	Post       postprocess.Settings
	// FitShadowToScene sizes the shadow projection to the scene bounds
	// instead of the fixed projection size.
	FitShadowToScene bool
	// Offscreen resolves into a texture (see Output) instead of the back
	// buffer, for hosts that composite the frame themselves.
	Offscreen bool
}

// Stats describes the last frame.
type Stats struct {
	Frames      uint64
	DrawCalls   int
	ShadowDraws int
}

// Renderer owns the size-dependent targets and the pass state. It must be
// used from the thread that owns the device context.
type Renderer struct {
	dev  gfx.Device
	ctx  gfx.Context
	swap platform.SwapChain

	width, height int
	clear         [4]float32
	settings      postprocess.Settings
	fitShadow     bool
	lastBounds    shadow.AABB

	shadow   *shadow.Map
	shadowVS *shader.Shader
	target   *postprocess.Target
	output   *postprocess.Target
	post     *postprocess.Pass

	elapsed float32
	stats   Stats
	log     *zap.Logger
}

// New creates the shadow map, the off-screen scene target and the resolve
// pass. swap may be nil when the host presents the frame itself.
func New(dev gfx.Device, swap platform.SwapChain, cfg Config) (*Renderer, error) {
	r := &Renderer{
		dev:        dev,
		ctx:        dev.Context(),
		swap:       swap,
		width:      cfg.Width,
		height:     cfg.Height,
		clear:      cfg.ClearColor,
		settings:   cfg.Post,
		fitShadow:  cfg.FitShadowToScene,
		lastBounds: shadow.EmptyAABB(),
		log:        logger.Named("renderer"),
	}

	var err error
	if r.shadow, err = shadow.New(dev, cfg.Shadow); err != nil {
		return nil, err
	}
	if r.shadowVS, err = shader.Compile(dev, gfx.StageVertex, "shadow", shaders.ShadowVertex); err != nil {
		r.Close()
		return nil, fmt.Errorf("creating shadow shader: %w", err)
	}
	if r.target, err = postprocess.NewTarget(dev, cfg.Width, cfg.Height); err != nil {
		r.Close()
		return nil, err
	}
	if cfg.Offscreen {
		if r.output, err = postprocess.NewTarget(dev, cfg.Width, cfg.Height); err != nil {
			r.Close()
			return nil, err
		}
	}
	if r.post, err = postprocess.NewPass(dev); err != nil {
		r.Close()
		return nil, err
	}

	r.log.Info("renderer created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("shadowResolution", r.shadow.Resolution()),
		zap.Bool("offscreen", cfg.Offscreen))
	return r, nil
}

// Close releases every resource the renderer created.
func (r *Renderer) Close() {
	if r.post != nil {
		r.post.Release()
	}
	if r.output != nil {
		r.output.Release()
	}
	if r.target != nil {
		r.target.Release()
	}
	if r.shadowVS != nil {
		r.shadowVS.Release()
	}
	if r.shadow != nil {
		r.shadow.Release()
	}
}

// Frame runs every pass in order for the scene's active camera.
func (r *Renderer) Frame(sc *scene.Scene, dt float32) {
	r.BeginFrame(dt)
	r.RenderShadowMap(sc)
	r.RenderOpaqueScene(sc)
	r.RenderSky(sc)
	r.ResolvePostProcess(sc)
	r.PresentFrame()
}

// BeginFrame resets pipeline state and clears the off-screen target.
func (r *Renderer) BeginFrame(dt float32) {
	r.elapsed += dt
	r.stats.DrawCalls = 0
	r.stats.ShadowDraws = 0

	r.ctx.SetRasterizerState(nil)
	r.ctx.SetDepthState(nil)
	r.target.Bind(r.ctx)
	r.ctx.ClearColor(r.clear[0], r.clear[1], r.clear[2], r.clear[3])
	r.ctx.ClearDepth(1)
}

// RenderShadowMap draws every entity's depth from the first directional
// light. Without a directional light the map is only cleared, which leaves
// everything lit. The scene target and its viewport are bound again after.
func (r *Renderer) RenderShadowMap(sc *scene.Scene) {
	caster, ok := sc.Lights().ShadowCaster()
	if ok {
		if r.fitShadow {
			if b := sc.Bounds(); !b.IsEmpty() && b != r.lastBounds {
				r.shadow.FitToBounds(b)
				r.lastBounds = b
			}
		}
		r.shadow.Update(caster.Direction())
	}

	r.shadow.Begin(r.ctx)
	if ok {
		r.ctx.SetShader(gfx.StagePixel, nil)
		r.shadowVS.Activate(r.ctx)
		for _, e := range sc.Entities() {
			r.shadowVS.SetMatrix4x4("world", e.Transform().WorldMatrix())
			r.shadowVS.SetMatrix4x4("lightView", r.shadow.View())
			r.shadowVS.SetMatrix4x4("lightProjection", r.shadow.Projection())
			r.shadowVS.Flush(r.ctx)
			e.Mesh().Draw(r.ctx)
			r.stats.ShadowDraws++
		}
	}
	r.shadow.End(r.ctx)
	r.target.Bind(r.ctx)
}

// RenderOpaqueScene draws every entity in insertion order. Lights, shadow
// matrices and the shadow map are sent again for every entity.
func (r *Renderer) RenderOpaqueScene(sc *scene.Scene) {
	cam := sc.ActiveCamera()
	if cam == nil {
		return
	}
	r.target.Bind(r.ctx)

	lights := sc.Lights()
	for _, e := range sc.Entities() {
		mat := e.Material()
		vs, ps := mat.VertexShader(), mat.PixelShader()

		lights.Apply(ps)
		vs.SetMatrix4x4("lightView", r.shadow.View())
		vs.SetMatrix4x4("lightProjection", r.shadow.Projection())
		ps.SetFloat("time", r.elapsed)

		mat.Prepare(r.ctx, e.Transform(), cam)
		ps.SetTexture(r.ctx, "shadowMap", r.shadow.Texture())
		ps.SetSampler(r.ctx, "shadowMap", r.shadow.Sampler())

		e.Mesh().Draw(r.ctx)
		r.stats.DrawCalls++
	}
}

// RenderSky draws the sky behind the opaque geometry.
func (r *Renderer) RenderSky(sc *scene.Scene) {
	cam, sk := sc.ActiveCamera(), sc.Sky()
	if cam == nil || sk == nil {
		return
	}
	sk.Draw(r.ctx, cam)
	r.stats.DrawCalls++
}

// ResolvePostProcess blurs and fogs the off-screen target into the output
// (the back buffer unless offscreen), then leaves the back buffer bound at
// full window size.
func (r *Renderer) ResolvePostProcess(sc *scene.Scene) {
	cam := sc.ActiveCamera()
	if cam == nil {
		return
	}
	full := gfx.Viewport{Width: r.width, Height: r.height}

	if r.output != nil {
		r.ctx.BindColorTarget(r.output.ColorTarget())
	} else {
		r.ctx.BindBackBuffer()
	}
	r.ctx.SetViewport(full)
	r.post.Draw(r.ctx, r.target, r.settings, cam)
	r.stats.DrawCalls++

	if r.output != nil {
		r.ctx.BindBackBuffer()
		r.ctx.SetViewport(full)
	}
}

// PresentFrame hands the frame to the swap chain.
func (r *Renderer) PresentFrame() {
	r.stats.Frames++
	if r.swap != nil {
		r.swap.Present()
	}
}

// Resize recreates the window-sized targets and updates every camera's
// aspect ratio. The shadow map keeps its resolution. A zero size, as
// reported for minimized windows, is ignored.
func (r *Renderer) Resize(sc *scene.Scene, width, height int) error {
	if width <= 0 || height <= 0 {
		r.log.Debug("ignoring empty resize", zap.Int("width", width), zap.Int("height", height))
		return nil
	}
	if err := r.target.Resize(width, height); err != nil {
		return err
	}
	if r.output != nil {
		if err := r.output.Resize(width, height); err != nil {
			// Keep both targets at the size the cameras still use.
			if rerr := r.target.Resize(r.width, r.height); rerr != nil {
				r.log.Error("restoring render target failed", zap.Error(rerr))
			}
			return err
		}
	}
	r.width, r.height = width, height
	sc.Resize(float32(width) / float32(height))
	r.log.Info("renderer resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// ResizeShadowMap changes the shadow map resolution.
func (r *Renderer) ResizeShadowMap(resolution int) error {
	return r.shadow.Resize(resolution)
}

// Output returns the resolved frame when offscreen, else nil.
func (r *Renderer) Output() gfx.Texture {
	if r.output == nil {
		return nil
	}
	return r.output.Color()
}

// Settings returns the post-process settings for live editing.
func (r *Renderer) Settings() *postprocess.Settings { return &r.settings }

func (r *Renderer) ClearColor() [4]float32      { return r.clear }
func (r *Renderer) SetClearColor(c [4]float32)  { r.clear = c }
func (r *Renderer) ShadowMap() *shadow.Map      { return r.shadow }
func (r *Renderer) Target() *postprocess.Target { return r.target }
func (r *Renderer) Stats() Stats                { return r.stats }
func (r *Renderer) Size() (width, height int)   { return r.width, r.height }
func (r *Renderer) Elapsed() float32            { return r.elapsed }

// FitShadowToScene reports whether the shadow projection follows the scene bounds.
func (r *Renderer) FitShadowToScene() bool { return r.fitShadow }

// SetFitShadowToScene toggles bounds fitting. Turning it off restores the
// configured projection size and light distance around the origin.
func (r *Renderer) SetFitShadowToScene(on bool, opts shadow.Options) {
	r.fitShadow = on
	r.lastBounds = shadow.EmptyAABB()
	if !on {
		r.shadow.SetCenter(mgl32.Vec3{})
		r.shadow.SetLightDistance(opts.LightDistance)
		r.shadow.SetProjectionSize(opts.ProjectionSize)
	}
}

var _ postprocess.Viewer = (*camera.Camera)(nil)
