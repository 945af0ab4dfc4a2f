// Package shader wraps a compiled shader module with a CPU-side constant
// buffer addressed by variable name.
//
// Setters write into the buffer and Flush uploads it in one call. A name the
// module does not declare (or declares with another type) is ignored, so a
// material can set every parameter it owns regardless of which ones the bound
// shader actually consumes.
package shader

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/logger"
)

// Shader is one compiled stage plus its pending parameter values.
type Shader struct {
	module    gfx.ShaderModule
	layout    *gfx.Layout
	constants []byte
	blocks    map[string][]byte

	tracking bool
	ignored  map[string]struct{}
}

// Compile creates a shader module on dev and wraps it.
func Compile(dev gfx.Device, stage gfx.Stage, name, source string) (*Shader, error) {
	m, err := dev.CreateShader(stage, name, source)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	return Wrap(m), nil
}

// Wrap wraps an existing module.
func Wrap(m gfx.ShaderModule) *Shader {
	layout := m.Layout()
	s := &Shader{
		module:    m,
		layout:    layout,
		constants: make([]byte, layout.Size),
		blocks:    make(map[string][]byte, len(layout.Blocks)),
	}
	return s
}

// Module returns the wrapped module.
func (s *Shader) Module() gfx.ShaderModule { return s.module }

// Name returns the module name.
func (s *Shader) Name() string { return s.module.Name() }

// Stage returns the module's pipeline stage.
func (s *Shader) Stage() gfx.Stage { return s.module.Stage() }

// Layout returns the module's reflection table.
func (s *Shader) Layout() *gfx.Layout { return s.layout }

// Activate binds the shader to its stage.
func (s *Shader) Activate(ctx gfx.Context) {
	ctx.SetShader(s.module.Stage(), s.module)
}

// Release frees the module.
func (s *Shader) Release() {
	s.module.Release()
}

// SetTracking enables recording of ignored parameter names.
func (s *Shader) SetTracking(on bool) {
	s.tracking = on
	if on && s.ignored == nil {
		s.ignored = make(map[string]struct{})
	}
}

// Ignored returns the sorted names that were set but not consumed since
// tracking was enabled.
func (s *Shader) Ignored() []string {
	names := make([]string, 0, len(s.ignored))
	for name := range s.ignored {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Shader) miss(name string) bool {
	if s.tracking {
		if _, seen := s.ignored[name]; !seen {
			s.ignored[name] = struct{}{}
			logger.Named("shader").Debug("parameter ignored",
				zap.String("shader", s.module.Name()),
				zap.String("name", name))
		}
	}
	return false
}

// HasVariable reports whether the module declares a loose variable.
func (s *Shader) HasVariable(name string) bool {
	_, ok := s.layout.Variables[name]
	return ok
}

// HasTexture reports whether the module declares a texture.
func (s *Shader) HasTexture(name string) bool {
	_, ok := s.layout.Textures[name]
	return ok
}

func (s *Shader) slot(name string, t gfx.VarType) ([]byte, bool) {
	v, ok := s.layout.Variables[name]
	if !ok || v.Type != t {
		return nil, s.miss(name)
	}
	return s.constants[v.Offset : v.Offset+v.Size], true
}

// SetInt sets an int or bool variable.
func (s *Shader) SetInt(name string, v int32) bool {
	dst, ok := s.slot(name, gfx.TypeInt)
	if ok {
		binary.LittleEndian.PutUint32(dst, uint32(v))
	}
	return ok
}

// SetFloat sets a float variable.
func (s *Shader) SetFloat(name string, v float32) bool {
	dst, ok := s.slot(name, gfx.TypeFloat)
	if ok {
		gfx.PutFloats(dst, v)
	}
	return ok
}

// SetFloat2 sets a vec2 variable.
func (s *Shader) SetFloat2(name string, v mgl32.Vec2) bool {
	dst, ok := s.slot(name, gfx.TypeVec2)
	if ok {
		gfx.PutFloats(dst, v[:]...)
	}
	return ok
}

// SetFloat3 sets a vec3 variable.
func (s *Shader) SetFloat3(name string, v mgl32.Vec3) bool {
	dst, ok := s.slot(name, gfx.TypeVec3)
	if ok {
		gfx.PutFloats(dst, v[:]...)
	}
	return ok
}

// SetFloat4 sets a vec4 variable.
func (s *Shader) SetFloat4(name string, v mgl32.Vec4) bool {
	dst, ok := s.slot(name, gfx.TypeVec4)
	if ok {
		gfx.PutFloats(dst, v[:]...)
	}
	return ok
}

// SetMatrix4x4 sets a mat4 variable. Matrices are stored column-major.
func (s *Shader) SetMatrix4x4(name string, m mgl32.Mat4) bool {
	dst, ok := s.slot(name, gfx.TypeMat4)
	if ok {
		gfx.PutFloats(dst, m[:]...)
	}
	return ok
}

// SetData stages the contents of a uniform block. Data longer than the
// block is truncated.
func (s *Shader) SetData(block string, data []byte) bool {
	b, ok := s.layout.Blocks[block]
	if !ok {
		return s.miss(block)
	}
	if b.Size > 0 && len(data) > b.Size {
		data = data[:b.Size]
	}
	s.blocks[block] = append(s.blocks[block][:0], data...)
	return true
}

// SetTexture binds a texture by name to the shader's stage immediately.
func (s *Shader) SetTexture(ctx gfx.Context, name string, t gfx.Texture) bool {
	slot, ok := s.layout.Textures[name]
	if !ok {
		return s.miss(name)
	}
	ctx.SetTexture(s.module.Stage(), slot, t)
	return true
}

// SetSampler binds a sampler by name to the shader's stage immediately.
func (s *Shader) SetSampler(ctx gfx.Context, name string, smp gfx.Sampler) bool {
	slot, ok := s.layout.Samplers[name]
	if !ok {
		return s.miss(name)
	}
	ctx.SetSampler(s.module.Stage(), slot, smp)
	return true
}

// Flush uploads the constant buffer and every staged block.
func (s *Shader) Flush(ctx gfx.Context) {
	if len(s.constants) > 0 {
		ctx.UploadConstants(s.module, s.constants)
	}
	names := make([]string, 0, len(s.blocks))
	for name := range s.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ctx.UploadBlock(s.module, name, s.blocks[name])
	}
}
