package lighting

import (
	"encoding/binary"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/shaders"
)

func float(b []byte, off int) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestDirectionIsNormalized(t *testing.T) {
	tests := []mgl32.Vec3{
		{0, -1, 0},
		{1, -1, 0},
		{3, -4, 12},
		{0.001, 0, 0},
	}
	for _, dir := range tests {
		d := NewDirectional(dir, mgl32.Vec3{1, 1, 1}, 1)
		assert.InDelta(t, 1, d.Direction().Len(), 1e-6, "directional %v", dir)

		s := NewSpot(mgl32.Vec3{}, dir, 10, 0.2, 0.4, mgl32.Vec3{1, 1, 1}, 1)
		assert.InDelta(t, 1, s.Direction().Len(), 1e-6, "spot %v", dir)

		d.SetDirection(dir.Mul(7))
		assert.InDelta(t, 1, d.Direction().Len(), 1e-6)
	}
}

func TestZeroDirectionIsIgnored(t *testing.T) {
	d := NewDirectional(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, d.Direction())

	d.SetDirection(mgl32.Vec3{1, 0, 0})
	d.SetDirection(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, d.Direction())

	s := NewSpot(mgl32.Vec3{}, mgl32.Vec3{0, 0, -2}, 10, 0.2, 0.4, mgl32.Vec3{1, 1, 1}, 1)
	s.SetDirection(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, s.Direction())
}

func TestTypes(t *testing.T) {
	assert.Equal(t, TypeDirectional, NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{}, 1).Type())
	assert.Equal(t, TypePoint, (&Point{}).Type())
	assert.Equal(t, TypeSpot, NewSpot(mgl32.Vec3{}, mgl32.Vec3{0, -1, 0}, 1, 0, 0, mgl32.Vec3{}, 1).Type())
	assert.Equal(t, "spot", TypeSpot.String())
	assert.Equal(t, "unknown", Type(9).String())
}

func TestPackLayout(t *testing.T) {
	set := NewSet(mgl32.Vec3{0.1, 0.1, 0.1})
	require.True(t, set.Add(NewDirectional(mgl32.Vec3{0, -2, 0}, mgl32.Vec3{1, 0.9, 0.8}, 2)))
	require.True(t, set.Add(&Point{Position: mgl32.Vec3{1, 2, 3}, Range: 8, Color: mgl32.Vec3{0, 1, 0}, Intensity: 3}))
	require.True(t, set.Add(NewSpot(mgl32.Vec3{4, 5, 6}, mgl32.Vec3{1, 0, 0}, 12, 0.25, 0.5, mgl32.Vec3{0, 0, 1}, 4)))

	b := set.Pack()
	require.Len(t, b, MaxLights*RecordSize)

	// Directional.
	assert.Equal(t, float32(-1), float(b, 4))
	assert.Equal(t, uint32(TypeDirectional), binary.LittleEndian.Uint32(b[12:]))
	assert.Equal(t, float32(0.9), float(b, 36))
	assert.Equal(t, float32(2), float(b, 44))

	// Point.
	p := b[RecordSize:]
	assert.Equal(t, uint32(TypePoint), binary.LittleEndian.Uint32(p[12:]))
	assert.Equal(t, float32(1), float(p, 16))
	assert.Equal(t, float32(3), float(p, 24))
	assert.Equal(t, float32(8), float(p, 28))
	assert.Equal(t, float32(1), float(p, 36))
	assert.Equal(t, float32(3), float(p, 44))

	// Spot.
	s := b[2*RecordSize:]
	assert.Equal(t, float32(1), float(s, 0))
	assert.Equal(t, uint32(TypeSpot), binary.LittleEndian.Uint32(s[12:]))
	assert.Equal(t, float32(6), float(s, 24))
	assert.Equal(t, float32(12), float(s, 28))
	assert.Equal(t, float32(0.25), float(s, 48))
	assert.Equal(t, float32(0.5), float(s, 52))

	// Unused slots stay zero.
	assert.Equal(t, make([]byte, (MaxLights-3)*RecordSize), b[3*RecordSize:])
}

func TestPackClearsRemovedLights(t *testing.T) {
	set := NewSet(mgl32.Vec3{})
	set.Add(&Point{Position: mgl32.Vec3{1, 1, 1}, Range: 5, Intensity: 1})
	set.Pack()
	set.Remove(0)

	assert.Equal(t, 0, set.Len())
	assert.Equal(t, make([]byte, MaxLights*RecordSize), set.Pack())
}

func TestSetCapacity(t *testing.T) {
	set := NewSet(mgl32.Vec3{})
	for i := 0; i < MaxLights; i++ {
		require.True(t, set.Add(&Point{}))
	}
	assert.False(t, set.Add(&Point{}))
	assert.Equal(t, MaxLights, set.Len())

	set.Remove(-1)
	set.Remove(MaxLights)
	assert.Equal(t, MaxLights, set.Len())

	set.Clear()
	assert.Equal(t, 0, set.Len())
}

func TestShadowCaster(t *testing.T) {
	set := NewSet(mgl32.Vec3{})
	_, ok := set.ShadowCaster()
	assert.False(t, ok)

	first := NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	second := NewDirectional(mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	set.Add(&Point{})
	set.Add(first)
	set.Add(second)

	got, ok := set.ShadowCaster()
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Same(t, second, set.At(2))
}

func TestApply(t *testing.T) {
	dev := gfxtest.NewDevice()
	ps, err := shader.Compile(dev, gfx.StagePixel, "pbr", shaders.PBRPixel)
	require.NoError(t, err)

	set := NewSet(mgl32.Vec3{0.2, 0.3, 0.4})
	set.Add(NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1))
	set.Add(&Point{Range: 4, Intensity: 1})
	set.Apply(ps)
	ps.Flush(dev.Context())

	consts := dev.Find(gfxtest.OpUploadConstants)
	require.Len(t, consts, 1)
	count, ok := consts[0].Int("lightCount")
	require.True(t, ok)
	assert.Equal(t, int32(2), count)
	ambient, _ := consts[0].Vec3("ambientColor")
	assert.Equal(t, mgl32.Vec3{0.2, 0.3, 0.4}, ambient)

	blocks := dev.Find(gfxtest.OpUploadBlock)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Lights", blocks[0].Block)
	assert.Len(t, blocks[0].Data, MaxLights*RecordSize)
}

func TestSunDirection(t *testing.T) {
	// Sun straight overhead shines down.
	dir := SunDirection(0, 90)
	assertNear(t, mgl32.Vec3{0, -1, 0}, dir, 1e-5, "%v", dir)

	// Sun on the +Z horizon shines towards -Z.
	dir = SunDirection(0, 0)
	assertNear(t, mgl32.Vec3{0, 0, -1}, dir, 1e-5, "%v", dir)

	dir = SunDirection(135, 45)
	assert.InDelta(t, 1, dir.Len(), 1e-5)
	lon, lat := SunAngles(dir)
	assert.InDelta(t, 135, lon, 1e-3)
	assert.InDelta(t, 45, lat, 1e-3)
}

func assertNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}
