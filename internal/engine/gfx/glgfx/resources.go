package glgfx

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

type buffer struct {
	id   uint32
	kind gfx.BufferKind
	size int
}

func (b *buffer) target() uint32 {
	if b.kind == gfx.IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (b *buffer) Kind() gfx.BufferKind { return b.kind }
func (b *buffer) Size() int            { return b.size }

func (b *buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

type texture struct {
	id            uint32
	target        uint32
	width, height int
}

func (t *texture) Width() int  { return t.width }
func (t *texture) Height() int { return t.height }

// TextureID returns the GL name of a texture created by this package, or 0
// for anything else. UI layers use it to display render targets.
func TextureID(t gfx.Texture) uint32 {
	if tex, ok := t.(*texture); ok {
		return tex.id
	}
	return 0
}

func (t *texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

type colorTarget struct {
	fbo          uint32
	color, depth *texture
}

func (t *colorTarget) Color() gfx.Texture { return t.color }
func (t *colorTarget) Depth() gfx.Texture { return t.depth }
func (t *colorTarget) Width() int         { return t.color.width }
func (t *colorTarget) Height() int        { return t.color.height }

func (t *colorTarget) Release() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	t.color.Release()
	t.depth.Release()
}

type depthTarget struct {
	fbo   uint32
	depth *texture
}

func (t *depthTarget) Depth() gfx.Texture { return t.depth }
func (t *depthTarget) Width() int         { return t.depth.width }
func (t *depthTarget) Height() int        { return t.depth.height }

func (t *depthTarget) Release() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	t.depth.Release()
}

type sampler struct {
	id   uint32
	desc gfx.SamplerDesc
}

func (s *sampler) Desc() gfx.SamplerDesc { return s.desc }

func (s *sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

type rasterizerState struct {
	desc gfx.RasterizerDesc
}

func (s *rasterizerState) Desc() gfx.RasterizerDesc { return s.desc }
func (s *rasterizerState) Release()                 {}

type depthState struct {
	desc gfx.DepthDesc
}

func (s *depthState) Desc() gfx.DepthDesc { return s.desc }
func (s *depthState) Release()            {}
