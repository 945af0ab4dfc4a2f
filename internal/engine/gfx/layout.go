package gfx

import (
	"fmt"
	"sort"
)

// VarType is the type of a loose shader variable.
type VarType int

const (
	TypeFloat VarType = iota
	TypeVec2
	TypeVec3
	TypeVec4
	TypeInt
	TypeMat4
)

// Size returns the tightly packed byte size of t.
func (t VarType) Size() int {
	switch t {
	case TypeFloat, TypeInt:
		return 4
	case TypeVec2:
		return 8
	case TypeVec3:
		return 12
	case TypeVec4:
		return 16
	case TypeMat4:
		return 64
	default:
		return 0
	}
}

// ParseVarType maps a GLSL type name to a VarType.
func ParseVarType(glsl string) (VarType, bool) {
	switch glsl {
	case "float":
		return TypeFloat, true
	case "vec2":
		return TypeVec2, true
	case "vec3":
		return TypeVec3, true
	case "vec4":
		return TypeVec4, true
	case "int", "bool":
		return TypeInt, true
	case "mat4":
		return TypeMat4, true
	default:
		return 0, false
	}
}

// Variable locates a loose variable in a module's constant buffer.
type Variable struct {
	Offset int
	Size   int
	Type   VarType
}

// Block is a uniform block uploaded as a whole.
type Block struct {
	Index int
	Size  int
}

// Layout is the name to offset reflection table of one shader module.
// Textures and Samplers map names to slots of the module's stage.
type Layout struct {
	Size      int
	Variables map[string]Variable
	Blocks    map[string]Block
	Textures  map[string]int
	Samplers  map[string]int
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{
		Variables: make(map[string]Variable),
		Blocks:    make(map[string]Block),
		Textures:  make(map[string]int),
		Samplers:  make(map[string]int),
	}
}

// AddVariable appends a variable at the end of the constant buffer.
func (l *Layout) AddVariable(name string, t VarType) error {
	if _, ok := l.Variables[name]; ok {
		return fmt.Errorf("duplicate variable %q", name)
	}
	size := t.Size()
	if size == 0 {
		return fmt.Errorf("variable %q: unsupported type %d", name, t)
	}
	l.Variables[name] = Variable{Offset: l.Size, Size: size, Type: t}
	l.Size += size
	return nil
}

// AddBlock registers a uniform block.
func (l *Layout) AddBlock(name string, size int) {
	l.Blocks[name] = Block{Index: len(l.Blocks), Size: size}
}

// AddTexture registers a texture and its sampler under the same name and slot.
func (l *Layout) AddTexture(name string) int {
	if slot, ok := l.Textures[name]; ok {
		return slot
	}
	slot := len(l.Textures)
	l.Textures[name] = slot
	l.Samplers[name] = slot
	return slot
}

// VariableNames returns the variable names ordered by offset.
func (l *Layout) VariableNames() []string {
	names := make([]string, 0, len(l.Variables))
	for name := range l.Variables {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return l.Variables[names[i]].Offset < l.Variables[names[j]].Offset
	})
	return names
}
