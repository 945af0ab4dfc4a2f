// Package gfx defines the render context the engine draws through.
//
// A Device creates GPU resources; its Context submits immediate-mode commands
// for the frame. Engine components receive both explicitly, so everything
// above this package can be driven by the recording device in gfxtest
// instead of a live GPU.
package gfx

import "errors"

// Errors returned by Device implementations.
var (
	ErrInvalidSize      = errors.New("invalid resource size")
	ErrShaderCompile    = errors.New("shader compilation failed")
	ErrIncompleteTarget = errors.New("render target incomplete")
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StagePixel
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	default:
		return "unknown"
	}
}

// BufferKind selects how a buffer is bound.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

// Viewport is a pixel rectangle on the bound render target.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// VertexAttribute describes one float attribute inside an interleaved vertex.
type VertexAttribute struct {
	Location   uint32
	Components int
	Offset     int
}

// VertexLayout describes an interleaved vertex buffer.
type VertexLayout struct {
	Stride     int
	Attributes []VertexAttribute
}

// Resource is anything that owns GPU memory.
type Resource interface {
	Release()
}

// Buffer is an immutable vertex or index buffer.
type Buffer interface {
	Resource
	Kind() BufferKind
	Size() int
}

// Texture is a shader-readable image.
type Texture interface {
	Resource
	Width() int
	Height() int
}

// ColorTarget is an off-screen color buffer with its own depth buffer.
// Both attachments are readable as textures once the target is unbound.
type ColorTarget interface {
	Resource
	Color() Texture
	Depth() Texture
	Width() int
	Height() int
}

// DepthTarget is a depth-only render target.
type DepthTarget interface {
	Resource
	Depth() Texture
	Width() int
	Height() int
}

// Sampler is a texture sampling state object.
type Sampler interface {
	Resource
	Desc() SamplerDesc
}

// RasterizerState is an immutable rasterizer configuration.
type RasterizerState interface {
	Resource
	Desc() RasterizerDesc
}

// DepthState is an immutable depth test configuration.
type DepthState interface {
	Resource
	Desc() DepthDesc
}

// ShaderModule is a compiled single-stage shader and its reflected layout.
type ShaderModule interface {
	Resource
	Name() string
	Stage() Stage
	Layout() *Layout
}

// Device creates GPU resources. Creation failures are returned as errors;
// callers treat them as fatal at startup.
type Device interface {
	CreateBuffer(kind BufferKind, data []byte) (Buffer, error)
	// CreateTexture2D uploads tightly packed RGBA8 pixels, bottom row first.
	CreateTexture2D(width, height int, rgba []byte, mipmaps bool) (Texture, error)
	// CreateTextureCube uploads six square RGBA8 faces in +X -X +Y -Y +Z -Z order.
	CreateTextureCube(size int, faces [6][]byte) (Texture, error)
	CreateColorTarget(width, height int) (ColorTarget, error)
	CreateDepthTarget(width, height int) (DepthTarget, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateRasterizerState(desc RasterizerDesc) (RasterizerState, error)
	CreateDepthState(desc DepthDesc) (DepthState, error)
	CreateShader(stage Stage, name, source string) (ShaderModule, error)
	Context() Context
}

// Context submits commands for the current frame. It is owned by the frame
// thread; no method is safe for concurrent use.
type Context interface {
	BindColorTarget(t ColorTarget)
	BindDepthTarget(t DepthTarget)
	BindBackBuffer()
	ClearColor(r, g, b, a float32)
	ClearDepth(depth float32)

	SetViewport(vp Viewport)
	Viewport() Viewport

	// SetShader binds m to stage. A nil module leaves the stage empty,
	// which for StagePixel produces a depth-only pass.
	SetShader(stage Stage, m ShaderModule)
	// UploadConstants writes the loose variables of m from a buffer laid
	// out by m.Layout().
	UploadConstants(m ShaderModule, data []byte)
	// UploadBlock writes a named uniform block of m.
	UploadBlock(m ShaderModule, block string, data []byte)
	SetTexture(stage Stage, slot int, t Texture)
	SetSampler(stage Stage, slot int, s Sampler)

	// SetRasterizerState and SetDepthState restore the defaults when given nil:
	// back-face culling without bias, and a LESS depth test with writes.
	SetRasterizerState(s RasterizerState)
	SetDepthState(s DepthState)

	SetVertexBuffer(b Buffer, layout VertexLayout)
	SetIndexBuffer(b Buffer)
	DrawIndexed(indexCount, firstIndex, baseVertex int)
	// Draw issues a non-indexed triangle list without vertex input.
	Draw(vertexCount int)
}
