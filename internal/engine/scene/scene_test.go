package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/picking"
	"github.com/Faultbox/lumen/internal/engine/platform"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/shaders"
	"github.com/Faultbox/lumen/internal/engine/sky"
)

func fixture(t *testing.T) (*Scene, *gfxtest.Device, *mesh.Mesh, *material.Material) {
	t.Helper()
	dev := gfxtest.NewDevice()
	cube, err := mesh.NewCube(dev, 2)
	require.NoError(t, err)
	vs, err := shader.Compile(dev, gfx.StageVertex, "standard", shaders.StandardVertex)
	require.NoError(t, err)
	ps, err := shader.Compile(dev, gfx.StagePixel, "uv", shaders.UVPixel)
	require.NoError(t, err)

	s := New(mgl32.Vec3{0.1, 0.1, 0.1})
	s.AddMesh(cube)
	mat := s.AddMaterial(material.New("uv", vs, ps))
	return s, dev, cube, mat
}

func TestEntitiesKeepInsertionOrder(t *testing.T) {
	s, _, cube, mat := fixture(t)
	for _, name := range []string{"c", "a", "b"} {
		s.AddEntity(NewEntity(name, cube, mat))
	}

	var names []string
	for _, e := range s.Entities() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestEntitiesShareMeshAndMaterial(t *testing.T) {
	s, _, cube, mat := fixture(t)
	a := s.AddEntity(NewEntity("a", cube, mat))
	b := s.AddEntity(NewEntity("b", cube, mat))

	assert.Same(t, a.Mesh(), b.Mesh())
	assert.Same(t, a.Material(), b.Material())
	assert.NotSame(t, a.Transform(), b.Transform())

	mat.SetTint(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, b.Material().Tint())
}

func TestMaterialLookup(t *testing.T) {
	s, _, _, mat := fixture(t)
	got, ok := s.Material("uv")
	require.True(t, ok)
	assert.Same(t, mat, got)
	_, ok = s.Material("missing")
	assert.False(t, ok)
}

func TestActiveCamera(t *testing.T) {
	s, _, _, _ := fixture(t)
	assert.Nil(t, s.ActiveCamera())

	first := camera.New(4.0/3, mgl32.Vec3{6, 1, 12}, camera.DefaultOptions())
	second := camera.New(4.0/3, mgl32.Vec3{0, 0, 2}, camera.DefaultOptions())
	assert.Equal(t, 0, s.AddCamera(first))
	assert.Equal(t, 1, s.AddCamera(second))
	assert.Same(t, first, s.ActiveCamera())

	require.NoError(t, s.SetActiveCamera(1))
	assert.Same(t, second, s.ActiveCamera())
	assert.Equal(t, 1, s.ActiveCameraIndex())

	assert.ErrorIs(t, s.SetActiveCamera(2), ErrNoCamera)
	assert.ErrorIs(t, s.SetActiveCamera(-1), ErrNoCamera)
	assert.Equal(t, 1, s.ActiveCameraIndex())
}

func TestUpdateMovesOnlyActiveCamera(t *testing.T) {
	s, _, _, _ := fixture(t)
	a := camera.New(1, mgl32.Vec3{}, camera.DefaultOptions())
	b := camera.New(1, mgl32.Vec3{}, camera.DefaultOptions())
	s.AddCamera(a)
	s.AddCamera(b)

	s.Update(1, platform.StaticInput{Keys: map[platform.Key]bool{platform.KeyW: true}})
	assert.NotEqual(t, mgl32.Vec3{}, a.Position())
	assert.Equal(t, mgl32.Vec3{}, b.Position())
}

func TestResizeUpdatesEveryCamera(t *testing.T) {
	s, _, _, _ := fixture(t)
	a := camera.New(800.0/600, mgl32.Vec3{}, camera.DefaultOptions())
	b := camera.New(800.0/600, mgl32.Vec3{}, camera.DefaultOptions())
	s.AddCamera(a)
	s.AddCamera(b)

	s.Resize(1920.0 / 1080)
	assert.InDelta(t, 1920.0/1080, a.Aspect(), 1e-6)
	assert.InDelta(t, 1920.0/1080, b.Aspect(), 1e-6)
}

func TestBounds(t *testing.T) {
	s, _, cube, mat := fixture(t)
	assert.True(t, s.Bounds().IsEmpty())

	a := s.AddEntity(NewEntity("a", cube, mat))
	a.Transform().SetPosition(mgl32.Vec3{-3, 0, 0})
	b := s.AddEntity(NewEntity("b", cube, mat))
	b.Transform().SetPosition(mgl32.Vec3{3, 0, -5})
	b.Transform().SetScale(mgl32.Vec3{2, 2, 2})

	box := s.Bounds()
	assertNear(t, mgl32.Vec3{-4, -2, -7}, box.Min, 1e-5, "%v", box.Min)
	assertNear(t, mgl32.Vec3{5, 2, 1}, box.Max, 1e-5, "%v", box.Max)
}

func TestPickNearest(t *testing.T) {
	s, _, cube, mat := fixture(t)
	far := s.AddEntity(NewEntity("far", cube, mat))
	far.Transform().SetPosition(mgl32.Vec3{0, 0, -10})
	s.AddEntity(NewEntity("near", cube, mat))
	side := s.AddEntity(NewEntity("side", cube, mat))
	side.Transform().SetPosition(mgl32.Vec3{5, 0, 0})

	r := picking.Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}
	i, d := s.Pick(r)
	assert.Equal(t, 1, i)
	assert.InDelta(t, 4, d, 1e-5)

	miss := picking.Ray{Origin: mgl32.Vec3{0, 10, 5}, Direction: mgl32.Vec3{0, 0, -1}}
	i, _ = s.Pick(miss)
	assert.Equal(t, -1, i)
}

func TestStats(t *testing.T) {
	s, _, cube, mat := fixture(t)
	s.AddEntity(NewEntity("a", cube, mat))
	s.AddEntity(NewEntity("b", cube, mat))

	st := s.Stats()
	assert.Equal(t, Stats{Entities: 2, Triangles: 24, Vertices: 48, Indices: 72}, st)
}

func TestRelease(t *testing.T) {
	s, dev, _, _ := fixture(t)
	sk, err := sky.NewGradient(dev, 2, [3]uint8{0, 0, 255}, [3]uint8{255, 255, 255}, [3]uint8{0, 0, 0})
	require.NoError(t, err)
	s.SetSky(sk)
	require.NotNil(t, s.Sky())

	s.Release()
	assert.Nil(t, s.Sky())
	for _, b := range dev.Buffers {
		assert.True(t, b.Released)
	}
	for _, tex := range dev.Textures {
		assert.True(t, tex.Released)
	}
}

func assertNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}
