package gfxtest

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Op names a recorded context call.
type Op string

const (
	OpBindColorTarget Op = "BindColorTarget"
	OpBindDepthTarget Op = "BindDepthTarget"
	OpBindBackBuffer  Op = "BindBackBuffer"
	OpClearColor      Op = "ClearColor"
	OpClearDepth      Op = "ClearDepth"
	OpSetViewport     Op = "SetViewport"
	OpSetShader       Op = "SetShader"
	OpUploadConstants Op = "UploadConstants"
	OpUploadBlock     Op = "UploadBlock"
	OpSetTexture      Op = "SetTexture"
	OpSetSampler      Op = "SetSampler"
	OpSetRasterizer   Op = "SetRasterizerState"
	OpSetDepthState   Op = "SetDepthState"
	OpSetVertexBuffer Op = "SetVertexBuffer"
	OpSetIndexBuffer  Op = "SetIndexBuffer"
	OpDrawIndexed     Op = "DrawIndexed"
	OpDraw            Op = "Draw"
)

// Command is one recorded context call. Only the fields relevant to Op are set.
type Command struct {
	Op         Op
	Stage      gfx.Stage
	Slot       int
	Module     gfx.ShaderModule
	Block      string
	Data       []byte
	Viewport   gfx.Viewport
	Target     gfx.Resource
	Texture    gfx.Texture
	Sampler    gfx.Sampler
	Rasterizer gfx.RasterizerState
	Depth      gfx.DepthState
	Buffer     gfx.Buffer
	Count      int
	Color      [4]float32
}

func (c Command) variable(name string) (gfx.Variable, bool) {
	if c.Module == nil || c.Op != OpUploadConstants {
		return gfx.Variable{}, false
	}
	v, ok := c.Module.Layout().Variables[name]
	if !ok || v.Offset+v.Size > len(c.Data) {
		return gfx.Variable{}, false
	}
	return v, true
}

func (c Command) floats(name string, n int) ([]float32, bool) {
	v, ok := c.variable(name)
	if !ok || v.Size < n*4 {
		return nil, false
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(c.Data[v.Offset+i*4:]))
	}
	return out, true
}

// Mat4 decodes a matrix variable from an UploadConstants command.
func (c Command) Mat4(name string) (mgl32.Mat4, bool) {
	f, ok := c.floats(name, 16)
	if !ok {
		return mgl32.Mat4{}, false
	}
	var m mgl32.Mat4
	copy(m[:], f)
	return m, true
}

// Vec3 decodes a vec3 variable from an UploadConstants command.
func (c Command) Vec3(name string) (mgl32.Vec3, bool) {
	f, ok := c.floats(name, 3)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, true
}

// Float decodes a scalar variable from an UploadConstants command.
func (c Command) Float(name string) (float32, bool) {
	f, ok := c.floats(name, 1)
	if !ok {
		return 0, false
	}
	return f[0], true
}

// Int decodes an integer variable from an UploadConstants command.
func (c Command) Int(name string) (int32, bool) {
	v, ok := c.variable(name)
	if !ok {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(c.Data[v.Offset:])), true
}

// Context records calls and tracks the resulting bound state.
type Context struct {
	dev *Device

	viewport    gfx.Viewport
	colorTarget gfx.ColorTarget
	depthTarget gfx.DepthTarget
	shaders     [2]gfx.ShaderModule
	rasterizer  gfx.RasterizerState
	depth       gfx.DepthState
}

func (c *Context) record(cmd Command) {
	c.dev.Commands = append(c.dev.Commands, cmd)
}

// BoundColorTarget returns the bound off-screen color target, nil for the back buffer.
func (c *Context) BoundColorTarget() gfx.ColorTarget { return c.colorTarget }

// BoundDepthTarget returns the bound depth-only target.
func (c *Context) BoundDepthTarget() gfx.DepthTarget { return c.depthTarget }

// BoundShader returns the module bound to stage.
func (c *Context) BoundShader(stage gfx.Stage) gfx.ShaderModule { return c.shaders[stage] }

// BoundRasterizer returns the bound rasterizer state, nil for the default.
func (c *Context) BoundRasterizer() gfx.RasterizerState { return c.rasterizer }

func (c *Context) BindColorTarget(t gfx.ColorTarget) {
	c.colorTarget, c.depthTarget = t, nil
	c.record(Command{Op: OpBindColorTarget, Target: t})
}

func (c *Context) BindDepthTarget(t gfx.DepthTarget) {
	c.colorTarget, c.depthTarget = nil, t
	c.record(Command{Op: OpBindDepthTarget, Target: t})
}

func (c *Context) BindBackBuffer() {
	c.colorTarget, c.depthTarget = nil, nil
	c.record(Command{Op: OpBindBackBuffer})
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.record(Command{Op: OpClearColor, Color: [4]float32{r, g, b, a}})
}

func (c *Context) ClearDepth(depth float32) {
	c.record(Command{Op: OpClearDepth, Color: [4]float32{depth}})
}

func (c *Context) SetViewport(vp gfx.Viewport) {
	c.viewport = vp
	c.record(Command{Op: OpSetViewport, Viewport: vp})
}

func (c *Context) Viewport() gfx.Viewport { return c.viewport }

func (c *Context) SetShader(stage gfx.Stage, m gfx.ShaderModule) {
	c.shaders[stage] = m
	c.record(Command{Op: OpSetShader, Stage: stage, Module: m})
}

func (c *Context) UploadConstants(m gfx.ShaderModule, data []byte) {
	c.record(Command{Op: OpUploadConstants, Stage: m.Stage(), Module: m, Data: append([]byte(nil), data...)})
}

func (c *Context) UploadBlock(m gfx.ShaderModule, block string, data []byte) {
	c.record(Command{Op: OpUploadBlock, Stage: m.Stage(), Module: m, Block: block, Data: append([]byte(nil), data...)})
}

func (c *Context) SetTexture(stage gfx.Stage, slot int, t gfx.Texture) {
	c.record(Command{Op: OpSetTexture, Stage: stage, Slot: slot, Texture: t})
}

func (c *Context) SetSampler(stage gfx.Stage, slot int, s gfx.Sampler) {
	c.record(Command{Op: OpSetSampler, Stage: stage, Slot: slot, Sampler: s})
}

func (c *Context) SetRasterizerState(s gfx.RasterizerState) {
	c.rasterizer = s
	c.record(Command{Op: OpSetRasterizer, Rasterizer: s})
}

func (c *Context) SetDepthState(s gfx.DepthState) {
	c.depth = s
	c.record(Command{Op: OpSetDepthState, Depth: s})
}

func (c *Context) SetVertexBuffer(b gfx.Buffer, layout gfx.VertexLayout) {
	c.record(Command{Op: OpSetVertexBuffer, Buffer: b, Count: layout.Stride})
}

func (c *Context) SetIndexBuffer(b gfx.Buffer) {
	c.record(Command{Op: OpSetIndexBuffer, Buffer: b})
}

func (c *Context) DrawIndexed(indexCount, firstIndex, baseVertex int) {
	c.record(Command{Op: OpDrawIndexed, Count: indexCount, Slot: firstIndex})
}

func (c *Context) Draw(vertexCount int) {
	c.record(Command{Op: OpDraw, Count: vertexCount})
}
