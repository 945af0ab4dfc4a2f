package shader

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/lumen/internal/engine/shaders"
)

func TestSettersWriteDeclaredVariables(t *testing.T) {
	dev := gfxtest.NewDevice()
	vs, err := Compile(dev, gfx.StageVertex, "standard", shaders.StandardVertex)
	require.NoError(t, err)

	world := mgl32.Translate3D(4, 5, 6)
	assert.True(t, vs.SetMatrix4x4("world", world))
	vs.Flush(dev.Context())

	uploads := dev.Find(gfxtest.OpUploadConstants)
	require.Len(t, uploads, 1)
	got, ok := uploads[0].Mat4("world")
	require.True(t, ok)
	assert.Equal(t, world, got)
}

func TestUnknownNamesAreIgnored(t *testing.T) {
	dev := gfxtest.NewDevice()
	ps, err := Compile(dev, gfx.StagePixel, "uv", shaders.UVPixel)
	require.NoError(t, err)
	ps.SetTracking(true)

	assert.True(t, ps.SetFloat2("uvScale", mgl32.Vec2{2, 2}))
	assert.False(t, ps.SetFloat("roughness", 0.5))
	assert.False(t, ps.SetTexture(dev.Context(), "albedoMap", nil))
	// Declared, but as a vec2.
	assert.False(t, ps.SetFloat3("uvOffset", mgl32.Vec3{}))

	assert.Equal(t, []string{"albedoMap", "roughness", "uvOffset"}, ps.Ignored())
	assert.Empty(t, dev.Find(gfxtest.OpSetTexture))
}

func TestTexturesBindImmediately(t *testing.T) {
	dev := gfxtest.NewDevice()
	ps, err := Compile(dev, gfx.StagePixel, "pbr", shaders.PBRPixel)
	require.NoError(t, err)

	tex, err := dev.CreateTexture2D(1, 1, []byte{255, 255, 255, 255}, false)
	require.NoError(t, err)
	smp, err := dev.CreateSampler(gfx.SamplerDesc{})
	require.NoError(t, err)

	ctx := dev.Context()
	require.True(t, ps.SetTexture(ctx, "normalMap", tex))
	require.True(t, ps.SetSampler(ctx, "normalMap", smp))

	cmds := dev.Commands
	require.Len(t, cmds, 2)
	assert.Equal(t, gfxtest.OpSetTexture, cmds[0].Op)
	assert.Equal(t, gfx.StagePixel, cmds[0].Stage)
	assert.Equal(t, 1, cmds[0].Slot)
	assert.Equal(t, gfxtest.OpSetSampler, cmds[1].Op)
	assert.Equal(t, 1, cmds[1].Slot)
}

func TestFlushUploadsBlocks(t *testing.T) {
	dev := gfxtest.NewDevice()
	ps, err := Compile(dev, gfx.StagePixel, "pbr", shaders.PBRPixel)
	require.NoError(t, err)

	assert.True(t, ps.SetData("Lights", make([]byte, 4096)))
	assert.True(t, ps.SetInt("lightCount", 2))
	ps.Flush(dev.Context())

	blocks := dev.Find(gfxtest.OpUploadBlock)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Lights", blocks[0].Block)
	assert.Len(t, blocks[0].Data, 1024)

	n, ok := dev.Find(gfxtest.OpUploadConstants)[0].Int("lightCount")
	require.True(t, ok)
	assert.Equal(t, int32(2), n)
}

func TestCompileError(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Fail = "CreateShader"

	_, err := Compile(dev, gfx.StagePixel, "post", shaders.PostPixel)
	assert.ErrorIs(t, err, gfx.ErrShaderCompile)
}

func TestActivate(t *testing.T) {
	dev := gfxtest.NewDevice()
	vs, err := Compile(dev, gfx.StageVertex, "sky", shaders.SkyVertex)
	require.NoError(t, err)

	vs.Activate(dev.Context())
	assert.Equal(t, vs.Module(), dev.Recorder().BoundShader(gfx.StageVertex))
}
