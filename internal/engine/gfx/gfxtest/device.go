// Package gfxtest provides a recording gfx.Device for tests that run
// without a GPU. Shader layouts are reflected from the GLSL source, so
// tests exercise the same names the real shaders declare.
package gfxtest

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Device records every resource it creates and every command submitted
// through its Context.
type Device struct {
	Commands []Command

	Buffers      []*Buffer
	Textures     []*Texture
	ColorTargets []*ColorTarget
	DepthTargets []*DepthTarget
	Shaders      []*Module

	// Fail makes the named creation method return an error, e.g. "CreateShader".
	Fail string
	// FailAt, when non-zero, fails only that call (counting from 1) of the
	// Fail method.
	FailAt int

	failCalls int
	ctx       *Context
}

// NewDevice returns a recording device with a 800x600 back buffer.
func NewDevice() *Device {
	d := &Device{}
	d.ctx = &Context{dev: d, viewport: gfx.Viewport{Width: 800, Height: 600}}
	return d
}

func (d *Device) fail(method string) error {
	if d.Fail != method {
		return nil
	}
	d.failCalls++
	if d.FailAt != 0 && d.failCalls != d.FailAt {
		return nil
	}
	return fmt.Errorf("%s: injected failure", method)
}

// CreateBuffer implements gfx.Device.
func (d *Device) CreateBuffer(kind gfx.BufferKind, data []byte) (gfx.Buffer, error) {
	if err := d.fail("CreateBuffer"); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, gfx.ErrInvalidSize
	}
	b := &Buffer{kind: kind, Data: append([]byte(nil), data...)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

// CreateTexture2D implements gfx.Device.
func (d *Device) CreateTexture2D(width, height int, rgba []byte, mipmaps bool) (gfx.Texture, error) {
	if err := d.fail("CreateTexture2D"); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return nil, gfx.ErrInvalidSize
	}
	t := &Texture{W: width, H: height, Pixels: append([]byte(nil), rgba...), Mipmaps: mipmaps}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// CreateTextureCube implements gfx.Device.
func (d *Device) CreateTextureCube(size int, faces [6][]byte) (gfx.Texture, error) {
	if err := d.fail("CreateTextureCube"); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, gfx.ErrInvalidSize
	}
	for _, f := range faces {
		if len(f) != size*size*4 {
			return nil, gfx.ErrInvalidSize
		}
	}
	t := &Texture{W: size, H: size, Cube: true}
	for _, f := range faces {
		t.Pixels = append(t.Pixels, f...)
	}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// CreateColorTarget implements gfx.Device.
func (d *Device) CreateColorTarget(width, height int) (gfx.ColorTarget, error) {
	if err := d.fail("CreateColorTarget"); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, gfx.ErrInvalidSize
	}
	t := &ColorTarget{
		color: &Texture{W: width, H: height},
		depth: &Texture{W: width, H: height, IsDepth: true},
	}
	d.ColorTargets = append(d.ColorTargets, t)
	return t, nil
}

// CreateDepthTarget implements gfx.Device.
func (d *Device) CreateDepthTarget(width, height int) (gfx.DepthTarget, error) {
	if err := d.fail("CreateDepthTarget"); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, gfx.ErrInvalidSize
	}
	t := &DepthTarget{depth: &Texture{W: width, H: height, IsDepth: true}}
	d.DepthTargets = append(d.DepthTargets, t)
	return t, nil
}

// CreateSampler implements gfx.Device.
func (d *Device) CreateSampler(desc gfx.SamplerDesc) (gfx.Sampler, error) {
	if err := d.fail("CreateSampler"); err != nil {
		return nil, err
	}
	return &Sampler{desc: desc}, nil
}

// CreateRasterizerState implements gfx.Device.
func (d *Device) CreateRasterizerState(desc gfx.RasterizerDesc) (gfx.RasterizerState, error) {
	if err := d.fail("CreateRasterizerState"); err != nil {
		return nil, err
	}
	return &RasterizerState{desc: desc}, nil
}

// CreateDepthState implements gfx.Device.
func (d *Device) CreateDepthState(desc gfx.DepthDesc) (gfx.DepthState, error) {
	if err := d.fail("CreateDepthState"); err != nil {
		return nil, err
	}
	return &DepthState{desc: desc}, nil
}

// CreateShader implements gfx.Device by reflecting the GLSL declarations.
func (d *Device) CreateShader(stage gfx.Stage, name, source string) (gfx.ShaderModule, error) {
	if err := d.fail("CreateShader"); err != nil {
		return nil, fmt.Errorf("%w: %v", gfx.ErrShaderCompile, err)
	}
	layout, err := ParseLayout(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", gfx.ErrShaderCompile, name, err)
	}
	m := &Module{name: name, stage: stage, layout: layout}
	d.Shaders = append(d.Shaders, m)
	return m, nil
}

// Context implements gfx.Device.
func (d *Device) Context() gfx.Context {
	return d.ctx
}

// Recorder returns the concrete context for state inspection.
func (d *Device) Recorder() *Context {
	return d.ctx
}

// Reset forgets recorded commands but keeps resources and bound state.
func (d *Device) Reset() {
	d.Commands = d.Commands[:0]
}

// Ops returns the recorded command names in submission order.
func (d *Device) Ops() []Op {
	ops := make([]Op, len(d.Commands))
	for i, c := range d.Commands {
		ops[i] = c.Op
	}
	return ops
}

// Find returns the recorded commands with the given name.
func (d *Device) Find(op Op) []Command {
	var out []Command
	for _, c := range d.Commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Module returns the first created shader module with the given name.
func (d *Device) Module(name string) *Module {
	for _, m := range d.Shaders {
		if m.name == name {
			return m
		}
	}
	return nil
}
