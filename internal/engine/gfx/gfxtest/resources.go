package gfxtest

import "github.com/Faultbox/lumen/internal/engine/gfx"

// Buffer is a recorded gfx.Buffer.
type Buffer struct {
	kind     gfx.BufferKind
	Data     []byte
	Released bool
}

func (b *Buffer) Kind() gfx.BufferKind { return b.kind }
func (b *Buffer) Size() int            { return len(b.Data) }
func (b *Buffer) Release()             { b.Released = true }

// Texture is a recorded gfx.Texture.
type Texture struct {
	W, H     int
	Pixels   []byte
	Mipmaps  bool
	Cube     bool
	IsDepth  bool
	Released bool
}

func (t *Texture) Width() int  { return t.W }
func (t *Texture) Height() int { return t.H }
func (t *Texture) Release()    { t.Released = true }

// ColorTarget is a recorded gfx.ColorTarget.
type ColorTarget struct {
	color, depth *Texture
	Released     bool
}

func (t *ColorTarget) Color() gfx.Texture { return t.color }
func (t *ColorTarget) Depth() gfx.Texture { return t.depth }
func (t *ColorTarget) Width() int         { return t.color.W }
func (t *ColorTarget) Height() int        { return t.color.H }
func (t *ColorTarget) Release() {
	t.Released = true
	t.color.Released = true
	t.depth.Released = true
}

// DepthTarget is a recorded gfx.DepthTarget.
type DepthTarget struct {
	depth    *Texture
	Released bool
}

func (t *DepthTarget) Depth() gfx.Texture { return t.depth }
func (t *DepthTarget) Width() int         { return t.depth.W }
func (t *DepthTarget) Height() int        { return t.depth.H }
func (t *DepthTarget) Release() {
	t.Released = true
	t.depth.Released = true
}

// Sampler is a recorded gfx.Sampler.
type Sampler struct {
	desc     gfx.SamplerDesc
	Released bool
}

func (s *Sampler) Desc() gfx.SamplerDesc { return s.desc }
func (s *Sampler) Release()              { s.Released = true }

// RasterizerState is a recorded gfx.RasterizerState.
type RasterizerState struct {
	desc     gfx.RasterizerDesc
	Released bool
}

func (s *RasterizerState) Desc() gfx.RasterizerDesc { return s.desc }
func (s *RasterizerState) Release()                 { s.Released = true }

// DepthState is a recorded gfx.DepthState.
type DepthState struct {
	desc     gfx.DepthDesc
	Released bool
}

func (s *DepthState) Desc() gfx.DepthDesc { return s.desc }
func (s *DepthState) Release()            { s.Released = true }

// Module is a recorded gfx.ShaderModule.
type Module struct {
	name     string
	stage    gfx.Stage
	layout   *gfx.Layout
	Released bool
}

func (m *Module) Name() string        { return m.name }
func (m *Module) Stage() gfx.Stage    { return m.stage }
func (m *Module) Layout() *gfx.Layout { return m.layout }
func (m *Module) Release()            { m.Released = true }
