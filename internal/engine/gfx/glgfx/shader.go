package glgfx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

type uniform struct {
	name     string
	location int32
	variable gfx.Variable
}

type uniformBlock struct {
	binding uint32
	ubo     uint32
	size    int
}

type module struct {
	program uint32
	name    string
	stage   gfx.Stage
	layout  *gfx.Layout

	uniforms []uniform
	blocks   map[string]*uniformBlock
}

func (m *module) Name() string        { return m.name }
func (m *module) Stage() gfx.Stage    { return m.stage }
func (m *module) Layout() *gfx.Layout { return m.layout }

func (m *module) Release() {
	for _, b := range m.blocks {
		gl.DeleteBuffers(1, &b.ubo)
	}
	m.blocks = nil
	if m.program != 0 {
		gl.DeleteProgram(m.program)
		m.program = 0
	}
}

func shaderType(stage gfx.Stage) uint32 {
	if stage == gfx.StagePixel {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func varType(glType uint32) (gfx.VarType, bool) {
	switch glType {
	case gl.FLOAT:
		return gfx.TypeFloat, true
	case gl.FLOAT_VEC2:
		return gfx.TypeVec2, true
	case gl.FLOAT_VEC3:
		return gfx.TypeVec3, true
	case gl.FLOAT_VEC4:
		return gfx.TypeVec4, true
	case gl.INT, gl.BOOL:
		return gfx.TypeInt, true
	case gl.FLOAT_MAT4:
		return gfx.TypeMat4, true
	default:
		return 0, false
	}
}

func isSampler(glType uint32) bool {
	switch glType {
	case gl.SAMPLER_2D, gl.SAMPLER_CUBE, gl.SAMPLER_2D_SHADOW:
		return true
	default:
		return false
	}
}

// CreateShader implements gfx.Device. The source is compiled into a
// separable single-stage program and its active uniforms are reflected.
func (d *Device) CreateShader(stage gfx.Stage, name, source string) (gfx.ShaderModule, error) {
	csource, free := gl.Strs(source + "\x00")
	program := gl.CreateShaderProgramv(shaderType(stage), 1, csource)
	free()

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("%w: %s %s shader: %s", gfx.ErrShaderCompile, name, stage, strings.TrimRight(log, "\x00"))
	}

	m := &module{
		program: program,
		name:    name,
		stage:   stage,
		layout:  gfx.NewLayout(),
		blocks:  make(map[string]*uniformBlock),
	}
	if err := m.reflect(); err != nil {
		m.Release()
		return nil, fmt.Errorf("%w: %s: %v", gfx.ErrShaderCompile, name, err)
	}

	d.log.Debug("shader created",
		zap.String("name", name),
		zap.Stringer("stage", stage),
		zap.Int("variables", len(m.layout.Variables)),
		zap.Int("textures", len(m.layout.Textures)),
		zap.Int("blocks", len(m.blocks)))
	return m, nil
}

type activeUniform struct {
	name   string
	glType uint32
}

func (m *module) reflect() error {
	var count int32
	gl.GetProgramiv(m.program, gl.ACTIVE_UNIFORMS, &count)

	var loose []activeUniform
	nameBuf := make([]uint8, 256)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var glType uint32
		gl.GetActiveUniform(m.program, i, int32(len(nameBuf)), &length, &size, &glType, &nameBuf[0])

		var blockIndex int32
		index := i
		gl.GetActiveUniformsiv(m.program, 1, &index, gl.UNIFORM_BLOCK_INDEX, &blockIndex)
		if blockIndex >= 0 {
			continue
		}
		loose = append(loose, activeUniform{name: string(nameBuf[:length]), glType: glType})
	}

	// Driver enumeration order is unspecified; sort for stable slots.
	sort.Slice(loose, func(i, j int) bool { return loose[i].name < loose[j].name })

	for _, u := range loose {
		location := gl.GetUniformLocation(m.program, gl.Str(u.name+"\x00"))
		if isSampler(u.glType) {
			slot := m.layout.AddTexture(u.name)
			gl.ProgramUniform1i(m.program, location, int32(unitBase(m.stage))+int32(slot))
			continue
		}
		vt, ok := varType(u.glType)
		if !ok {
			return fmt.Errorf("uniform %s: unsupported type 0x%x", u.name, u.glType)
		}
		if err := m.layout.AddVariable(u.name, vt); err != nil {
			return err
		}
		m.uniforms = append(m.uniforms, uniform{name: u.name, location: location, variable: m.layout.Variables[u.name]})
	}

	var blockCount int32
	gl.GetProgramiv(m.program, gl.ACTIVE_UNIFORM_BLOCKS, &blockCount)
	for i := uint32(0); i < uint32(blockCount); i++ {
		var length, size int32
		gl.GetActiveUniformBlockName(m.program, i, int32(len(nameBuf)), &length, &nameBuf[0])
		gl.GetActiveUniformBlockiv(m.program, i, gl.UNIFORM_BLOCK_DATA_SIZE, &size)
		name := string(nameBuf[:length])

		b := &uniformBlock{binding: unitBase(m.stage) + i, size: int(size)}
		gl.UniformBlockBinding(m.program, i, b.binding)
		gl.GenBuffers(1, &b.ubo)
		gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
		gl.BufferData(gl.UNIFORM_BUFFER, int(size), nil, gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

		m.blocks[name] = b
		m.layout.AddBlock(name, int(size))
	}
	return nil
}
