package postprocess

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/shaders"
)

// Viewer is the camera state the fog needs to rebuild world positions.
type Viewer interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Position() mgl32.Vec3
	Far() float32
}

// Pass is the full-screen resolve: blur, then fog.
type Pass struct {
	vs, ps  *shader.Shader
	sampler gfx.Sampler
	depth   gfx.DepthState
}

// NewPass compiles the resolve shaders and creates its fixed state.
func NewPass(dev gfx.Device) (*Pass, error) {
	vs, err := shader.Compile(dev, gfx.StageVertex, "post", shaders.PostVertex)
	if err != nil {
		return nil, err
	}
	ps, err := shader.Compile(dev, gfx.StagePixel, "post", shaders.PostPixel)
	if err != nil {
		vs.Release()
		return nil, err
	}
	p := &Pass{vs: vs, ps: ps}

	p.sampler, err = dev.CreateSampler(gfx.SamplerDesc{Filter: gfx.FilterLinear, Address: gfx.AddressClamp})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("creating post-process sampler: %w", err)
	}
	p.depth, err = dev.CreateDepthState(gfx.DepthDesc{Test: false, Write: false, Func: gfx.CompareAlways})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("creating post-process depth state: %w", err)
	}
	return p, nil
}

// Draw resolves src into whatever target is bound, using the current
// viewport. The source textures are unbound afterwards so the next frame can
// render into them.
func (p *Pass) Draw(ctx gfx.Context, src *Target, s Settings, cam Viewer) {
	p.vs.Activate(ctx)
	p.ps.Activate(ctx)
	ctx.SetDepthState(p.depth)

	ps := p.ps
	ps.SetMatrix4x4("invViewProjection", cam.Projection().Mul4(cam.View()).Inv())
	ps.SetFloat3("cameraPosition", cam.Position())
	ps.SetFloat("farClip", cam.Far())
	ps.SetInt("blurRadius", int32(max(s.BlurRadius, 0)))
	ps.SetFloat2("pixelSize", mgl32.Vec2{1 / float32(src.Width()), 1 / float32(src.Height())})
	ps.SetInt("fogMode", int32(s.Fog))
	ps.SetFloat3("fogColor", s.FogColor)
	ps.SetFloat("fogStart", s.FogStart)
	ps.SetFloat("fogEnd", s.FogEnd)
	ps.SetFloat("fogDensity", s.FogDensity)
	ps.SetInt("heightFog", boolInt(s.HeightFog))
	ps.SetFloat("heightFogDensity", s.HeightFogDensity)
	ps.SetFloat("heightFogHeight", s.HeightFogHeight)

	ps.SetTexture(ctx, "sceneColor", src.Color())
	ps.SetSampler(ctx, "sceneColor", p.sampler)
	ps.SetTexture(ctx, "sceneDepth", src.Depth())
	ps.SetSampler(ctx, "sceneDepth", p.sampler)
	ps.Flush(ctx)

	ctx.Draw(3)

	ps.SetTexture(ctx, "sceneColor", nil)
	ps.SetTexture(ctx, "sceneDepth", nil)
	ctx.SetDepthState(nil)
}

// Release frees the shaders and state objects.
func (p *Pass) Release() {
	if p.vs != nil {
		p.vs.Release()
	}
	if p.ps != nil {
		p.ps.Release()
	}
	if p.sampler != nil {
		p.sampler.Release()
	}
	if p.depth != nil {
		p.depth.Release()
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
