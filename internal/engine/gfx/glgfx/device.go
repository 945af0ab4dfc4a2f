// Package glgfx implements gfx.Device over OpenGL 4.1 core.
//
// Vertex and pixel stages are separate programs combined in one program
// pipeline, which lets a pass run with no pixel stage at all. Texture units
// are split per stage: vertex slots start at unit 0, pixel slots at unit 8.
package glgfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/logger"
)

const unitsPerStage = 8

// EXT_texture_filter_anisotropic, promoted to core only in 4.6.
const textureMaxAnisotropy = 0x84FE

func unitBase(stage gfx.Stage) uint32 {
	return uint32(stage) * unitsPerStage
}

// Device owns the GL objects shared by every resource: one vertex array
// object and one program pipeline.
type Device struct {
	ctx *Context
	log *zap.Logger
}

// New creates a device on the GL context current on this thread.
// gl.Init must already have succeeded.
func New(width, height int) (*Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: back buffer %dx%d", gfx.ErrInvalidSize, width, height)
	}

	d := &Device{log: logger.Named("gfx")}
	d.ctx = newContext(gfx.Viewport{Width: width, Height: height})

	d.log.Info("OpenGL device created",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return d, nil
}

// Close releases the device's shared objects.
func (d *Device) Close() {
	d.ctx.release()
}

// Context implements gfx.Device.
func (d *Device) Context() gfx.Context {
	return d.ctx
}

// CreateBuffer implements gfx.Device.
func (d *Device) CreateBuffer(kind gfx.BufferKind, data []byte) (gfx.Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", gfx.ErrInvalidSize)
	}
	b := &buffer{kind: kind, size: len(data)}
	target := b.target()

	gl.BindVertexArray(d.ctx.vao)
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(target, b.id)
	gl.BufferData(target, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	if kind == gfx.VertexBuffer {
		gl.BindBuffer(target, 0)
	}

	d.log.Debug("buffer created", zap.Int("bytes", len(data)), zap.Int("kind", int(kind)))
	return b, nil
}

// CreateTexture2D implements gfx.Device.
func (d *Device) CreateTexture2D(width, height int, rgba []byte, mipmaps bool) (gfx.Texture, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return nil, fmt.Errorf("%w: texture %dx%d with %d bytes", gfx.ErrInvalidSize, width, height, len(rgba))
	}
	t := &texture{target: gl.TEXTURE_2D, width: width, height: height}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return t, nil
}

// CreateTextureCube implements gfx.Device.
func (d *Device) CreateTextureCube(size int, faces [6][]byte) (gfx.Texture, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: cube face %d", gfx.ErrInvalidSize, size)
	}
	for i, f := range faces {
		if len(f) != size*size*4 {
			return nil, fmt.Errorf("%w: cube face %d has %d bytes", gfx.ErrInvalidSize, i, len(f))
		}
	}
	t := &texture{target: gl.TEXTURE_CUBE_MAP, width: size, height: size}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, f := range faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8,
			int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f))
	}
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return t, nil
}

func newDepthTexture(width, height int) *texture {
	t := &texture{target: gl.TEXTURE_2D, width: width, height: height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, int32(width), int32(height), 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// CreateColorTarget implements gfx.Device.
func (d *Device) CreateColorTarget(width, height int) (gfx.ColorTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: color target %dx%d", gfx.ErrInvalidSize, width, height)
	}
	t := &colorTarget{
		color: &texture{target: gl.TEXTURE_2D, width: width, height: height},
		depth: newDepthTexture(width, height),
	}

	gl.GenTextures(1, &t.color.id)
	gl.BindTexture(gl.TEXTURE_2D, t.color.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color.id, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.depth.id, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.ctx.boundFBO)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("%w: color target status 0x%x", gfx.ErrIncompleteTarget, status)
	}

	d.log.Debug("color target created", zap.Int("width", width), zap.Int("height", height))
	return t, nil
}

// CreateDepthTarget implements gfx.Device.
func (d *Device) CreateDepthTarget(width, height int) (gfx.DepthTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: depth target %dx%d", gfx.ErrInvalidSize, width, height)
	}
	t := &depthTarget{depth: newDepthTexture(width, height)}

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.depth.id, 0)
	// No color attachment.
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.ctx.boundFBO)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("%w: depth target status 0x%x", gfx.ErrIncompleteTarget, status)
	}

	d.log.Debug("depth target created", zap.Int("width", width), zap.Int("height", height))
	return t, nil
}

// CreateSampler implements gfx.Device.
func (d *Device) CreateSampler(desc gfx.SamplerDesc) (gfx.Sampler, error) {
	s := &sampler{desc: desc}
	gl.GenSamplers(1, &s.id)

	minFilter, magFilter := samplerFilters(desc)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, magFilter)
	if desc.Compare != gfx.CompareNone {
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_FUNC, int32(compareFunc(desc.Compare)))
	}
	if desc.Filter == gfx.FilterAnisotropic && desc.MaxAnisotropy > 1 {
		gl.SamplerParameterf(s.id, textureMaxAnisotropy, float32(desc.MaxAnisotropy))
	}

	wrap := int32(gl.REPEAT)
	switch desc.Address {
	case gfx.AddressClamp:
		wrap = gl.CLAMP_TO_EDGE
	case gfx.AddressBorder:
		wrap = gl.CLAMP_TO_BORDER
		border := desc.Border
		gl.SamplerParameterfv(s.id, gl.TEXTURE_BORDER_COLOR, &border[0])
	}
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, wrap)

	return s, nil
}

// samplerFilters picks the min and mag filters for desc. Only anisotropic
// samplers read mip levels; render targets and depth maps have level 0 only.
func samplerFilters(desc gfx.SamplerDesc) (minFilter, magFilter int32) {
	switch {
	case desc.Compare != gfx.CompareNone:
		return gl.LINEAR, gl.LINEAR
	case desc.Filter == gfx.FilterNearest:
		return gl.NEAREST, gl.NEAREST
	case desc.Filter == gfx.FilterAnisotropic:
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	default:
		return gl.LINEAR, gl.LINEAR
	}
}

// CreateRasterizerState implements gfx.Device. GL has no state objects,
// so the descriptor is applied when bound.
func (d *Device) CreateRasterizerState(desc gfx.RasterizerDesc) (gfx.RasterizerState, error) {
	return &rasterizerState{desc: desc}, nil
}

// CreateDepthState implements gfx.Device.
func (d *Device) CreateDepthState(desc gfx.DepthDesc) (gfx.DepthState, error) {
	return &depthState{desc: desc}, nil
}

func compareFunc(c gfx.CompareFunc) uint32 {
	switch c {
	case gfx.CompareLessEqual:
		return gl.LEQUAL
	case gfx.CompareAlways:
		return gl.ALWAYS
	default:
		return gl.LESS
	}
}
