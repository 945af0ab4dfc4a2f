// Package sky draws a cubemap around the camera after the opaque pass.
package sky

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/shaders"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Viewer supplies the camera matrices.
type Viewer interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
}

// Sky owns the cube, its cubemap and the state needed to draw it at the far
// plane from the inside.
type Sky struct {
	cube       *mesh.Mesh
	cubemap    gfx.Texture
	sampler    gfx.Sampler
	vs, ps     *shader.Shader
	depth      gfx.DepthState
	rasterizer gfx.RasterizerState
}

// New builds a sky around an existing cubemap. The sky takes ownership of
// the cubemap.
func New(dev gfx.Device, cubemap gfx.Texture) (*Sky, error) {
	s := &Sky{cubemap: cubemap}
	if err := s.init(dev); err != nil {
		s.Release()
		return nil, fmt.Errorf("creating sky: %w", err)
	}
	logger.Named("sky").Debug("sky created", zap.Int("faceSize", cubemap.Width()))
	return s, nil
}

// NewGradient builds a sky from a procedurally generated cubemap, used when
// no face images are available.
func NewGradient(dev gfx.Device, size int, zenith, horizon, ground [3]uint8) (*Sky, error) {
	cubemap, err := texture.UploadCube(dev, texture.GradientCube(size, zenith, horizon, ground))
	if err != nil {
		return nil, fmt.Errorf("creating sky: %w", err)
	}
	return New(dev, cubemap)
}

func (s *Sky) init(dev gfx.Device) error {
	var err error
	if s.cube, err = mesh.NewCube(dev, 1); err != nil {
		return err
	}
	if s.vs, err = shader.Compile(dev, gfx.StageVertex, "sky", shaders.SkyVertex); err != nil {
		return err
	}
	if s.ps, err = shader.Compile(dev, gfx.StagePixel, "sky", shaders.SkyPixel); err != nil {
		return err
	}
	if s.sampler, err = dev.CreateSampler(gfx.SamplerDesc{Filter: gfx.FilterLinear, Address: gfx.AddressClamp}); err != nil {
		return err
	}
	if s.depth, err = dev.CreateDepthState(gfx.DepthDesc{Test: true, Write: false, Func: gfx.CompareLessEqual}); err != nil {
		return err
	}
	// The camera sits inside the cube, so the inward faces are the back faces.
	s.rasterizer, err = dev.CreateRasterizerState(gfx.RasterizerDesc{Cull: gfx.CullFront})
	return err
}

// Draw renders the sky with the camera's rotation only, then restores the
// default depth and rasterizer state.
func (s *Sky) Draw(ctx gfx.Context, cam Viewer) {
	ctx.SetDepthState(s.depth)
	ctx.SetRasterizerState(s.rasterizer)

	s.vs.Activate(ctx)
	s.ps.Activate(ctx)
	s.vs.SetMatrix4x4("view", math.StripTranslation(cam.View()))
	s.vs.SetMatrix4x4("projection", cam.Projection())
	s.ps.SetTexture(ctx, "skyMap", s.cubemap)
	s.ps.SetSampler(ctx, "skyMap", s.sampler)
	s.vs.Flush(ctx)
	s.ps.Flush(ctx)

	s.cube.Draw(ctx)

	ctx.SetDepthState(nil)
	ctx.SetRasterizerState(nil)
}

func (s *Sky) Cubemap() gfx.Texture { return s.cubemap }
func (s *Sky) Mesh() *mesh.Mesh     { return s.cube }

// Release frees every GPU resource, including the cubemap.
func (s *Sky) Release() {
	for _, r := range []gfx.Resource{s.cubemap, s.sampler, s.depth, s.rasterizer} {
		if r != nil {
			r.Release()
		}
	}
	if s.cube != nil {
		s.cube.Release()
	}
	if s.vs != nil {
		s.vs.Release()
	}
	if s.ps != nil {
		s.ps.Release()
	}
}
