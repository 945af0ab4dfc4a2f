package glgfx

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Context implements gfx.Context on the current GL context.
type Context struct {
	vao      uint32
	pipeline uint32
	boundFBO uint32
	viewport gfx.Viewport
	shaders  [2]*module
}

func newContext(vp gfx.Viewport) *Context {
	c := &Context{}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.GenProgramPipelines(1, &c.pipeline)

	c.SetViewport(vp)
	c.SetRasterizerState(nil)
	c.SetDepthState(nil)
	return c
}

func (c *Context) release() {
	gl.DeleteProgramPipelines(1, &c.pipeline)
	gl.DeleteVertexArrays(1, &c.vao)
}

func (c *Context) bindFramebuffer(fbo uint32) {
	c.boundFBO = fbo
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (c *Context) BindColorTarget(t gfx.ColorTarget) {
	c.bindFramebuffer(t.(*colorTarget).fbo)
}

func (c *Context) BindDepthTarget(t gfx.DepthTarget) {
	c.bindFramebuffer(t.(*depthTarget).fbo)
}

func (c *Context) BindBackBuffer() {
	c.bindFramebuffer(0)
}

func (c *Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (c *Context) ClearDepth(depth float32) {
	// Clears honor the depth mask.
	gl.DepthMask(true)
	gl.ClearDepth(float64(depth))
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

func (c *Context) SetViewport(vp gfx.Viewport) {
	c.viewport = vp
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

func (c *Context) Viewport() gfx.Viewport {
	return c.viewport
}

func (c *Context) SetShader(stage gfx.Stage, m gfx.ShaderModule) {
	// A program installed by another renderer would override the pipeline.
	gl.UseProgram(0)
	gl.BindProgramPipeline(c.pipeline)
	gl.BindVertexArray(c.vao)

	bit := uint32(gl.VERTEX_SHADER_BIT)
	if stage == gfx.StagePixel {
		bit = gl.FRAGMENT_SHADER_BIT
	}
	if m == nil {
		c.shaders[stage] = nil
		gl.UseProgramStages(c.pipeline, bit, 0)
		return
	}
	mod := m.(*module)
	c.shaders[stage] = mod
	gl.UseProgramStages(c.pipeline, bit, mod.program)
	for _, b := range mod.blocks {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, b.binding, b.ubo)
	}
}

func (c *Context) UploadConstants(m gfx.ShaderModule, data []byte) {
	mod := m.(*module)
	for _, u := range mod.uniforms {
		v := u.variable
		if v.Offset+v.Size > len(data) {
			continue
		}
		p := unsafe.Pointer(&data[v.Offset])
		switch v.Type {
		case gfx.TypeFloat:
			gl.ProgramUniform1fv(mod.program, u.location, 1, (*float32)(p))
		case gfx.TypeVec2:
			gl.ProgramUniform2fv(mod.program, u.location, 1, (*float32)(p))
		case gfx.TypeVec3:
			gl.ProgramUniform3fv(mod.program, u.location, 1, (*float32)(p))
		case gfx.TypeVec4:
			gl.ProgramUniform4fv(mod.program, u.location, 1, (*float32)(p))
		case gfx.TypeInt:
			gl.ProgramUniform1iv(mod.program, u.location, 1, (*int32)(p))
		case gfx.TypeMat4:
			gl.ProgramUniformMatrix4fv(mod.program, u.location, 1, false, (*float32)(p))
		}
	}
}

func (c *Context) UploadBlock(m gfx.ShaderModule, block string, data []byte) {
	b, ok := m.(*module).blocks[block]
	if !ok || len(data) == 0 {
		return
	}
	n := len(data)
	if n > b.size {
		n = b.size
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, n, gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, b.binding, b.ubo)
}

func (c *Context) SetTexture(stage gfx.Stage, slot int, t gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unitBase(stage) + uint32(slot))
	if t == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	tex := t.(*texture)
	gl.BindTexture(tex.target, tex.id)
}

func (c *Context) SetSampler(stage gfx.Stage, slot int, s gfx.Sampler) {
	unit := unitBase(stage) + uint32(slot)
	if s == nil {
		gl.BindSampler(unit, 0)
		return
	}
	gl.BindSampler(unit, s.(*sampler).id)
}

func (c *Context) SetRasterizerState(s gfx.RasterizerState) {
	desc := gfx.DefaultRasterizer
	if s != nil {
		desc = s.Desc()
	}

	switch desc.Cull {
	case gfx.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gfx.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if desc.DepthBias != 0 || desc.SlopeScaledDepthBias != 0 {
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(desc.SlopeScaledDepthBias, float32(desc.DepthBias))
	} else {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}
}

func (c *Context) SetDepthState(s gfx.DepthState) {
	desc := gfx.DefaultDepth
	if s != nil {
		desc = s.Desc()
	}
	if !desc.Test {
		gl.Disable(gl.DEPTH_TEST)
	} else {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(compareFunc(desc.Func))
	}
	gl.DepthMask(desc.Write)
}

func (c *Context) SetVertexBuffer(b gfx.Buffer, layout gfx.VertexLayout) {
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.(*buffer).id)
	for _, a := range layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, int32(a.Components), gl.FLOAT, false,
			int32(layout.Stride), uintptr(a.Offset))
	}
}

func (c *Context) SetIndexBuffer(b gfx.Buffer) {
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.(*buffer).id)
}

func (c *Context) DrawIndexed(indexCount, firstIndex, baseVertex int) {
	gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT,
		gl.PtrOffset(firstIndex*4), int32(baseVertex))
}

func (c *Context) Draw(vertexCount int) {
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertexCount))
}
