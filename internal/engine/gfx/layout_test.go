package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutPacksVariables(t *testing.T) {
	l := NewLayout()
	require.NoError(t, l.AddVariable("world", TypeMat4))
	require.NoError(t, l.AddVariable("colorTint", TypeVec3))
	require.NoError(t, l.AddVariable("roughness", TypeFloat))

	assert.Equal(t, Variable{Offset: 0, Size: 64, Type: TypeMat4}, l.Variables["world"])
	assert.Equal(t, 64, l.Variables["colorTint"].Offset)
	assert.Equal(t, 76, l.Variables["roughness"].Offset)
	assert.Equal(t, 80, l.Size)
	assert.Equal(t, []string{"world", "colorTint", "roughness"}, l.VariableNames())
}

func TestLayoutRejectsDuplicates(t *testing.T) {
	l := NewLayout()
	require.NoError(t, l.AddVariable("uvScale", TypeVec2))
	assert.Error(t, l.AddVariable("uvScale", TypeVec2))
}

func TestLayoutTexturesShareSamplerSlots(t *testing.T) {
	l := NewLayout()
	assert.Equal(t, 0, l.AddTexture("albedoMap"))
	assert.Equal(t, 1, l.AddTexture("shadowMap"))
	assert.Equal(t, 0, l.AddTexture("albedoMap"))
	assert.Equal(t, 1, l.Samplers["shadowMap"])
}

func TestParseVarType(t *testing.T) {
	tests := []struct {
		glsl string
		want VarType
		ok   bool
	}{
		{"float", TypeFloat, true},
		{"vec3", TypeVec3, true},
		{"mat4", TypeMat4, true},
		{"int", TypeInt, true},
		{"sampler2D", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseVarType(tt.glsl)
		assert.Equal(t, tt.ok, ok, tt.glsl)
		if ok {
			assert.Equal(t, tt.want, got, tt.glsl)
		}
	}
}
