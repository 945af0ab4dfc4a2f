package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/postprocess"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/shaders"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/engine/sky"
)

type swapCounter struct{ presents int }

func (s *swapCounter) Present() { s.presents++ }

type fixture struct {
	dev      *gfxtest.Device
	renderer *Renderer
	scene    *scene.Scene
	swap     *swapCounter
	vs       *shader.Shader
	cams     [2]*camera.Camera
}

func config() Config {
	return Config{
		Width:      800,
		Height:     600,
		ClearColor: [4]float32{0.4, 0.6, 0.75, 0},
		Shadow:     shadow.DefaultOptions(),
		Post:       postprocess.DefaultSettings(),
	}
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	dev := gfxtest.NewDevice()
	swap := &swapCounter{}
	r, err := New(dev, swap, cfg)
	require.NoError(t, err)

	vs, err := shader.Compile(dev, gfx.StageVertex, "standard", shaders.StandardVertex)
	require.NoError(t, err)
	ps, err := shader.Compile(dev, gfx.StagePixel, "pbr", shaders.PBRPixel)
	require.NoError(t, err)
	cube, err := mesh.NewCube(dev, 1)
	require.NoError(t, err)

	sc := scene.New(mgl32.Vec3{0.1, 0.1, 0.1})
	sc.AddMesh(cube)
	mat := sc.AddMaterial(material.New("pbr", vs, ps))
	for i, name := range []string{"a", "b", "c"} {
		e := sc.AddEntity(scene.NewEntity(name, cube, mat))
		e.Transform().SetPosition(mgl32.Vec3{float32(3 * i), 0, -5})
	}
	sc.Lights().Add(lighting.NewDirectional(mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 1, 1}, 1))

	aspect := float32(cfg.Width) / float32(cfg.Height)
	f := &fixture{dev: dev, renderer: r, scene: sc, swap: swap, vs: vs}
	f.cams[0] = camera.New(aspect, mgl32.Vec3{6, 1, 12}, camera.DefaultOptions())
	wide := camera.DefaultOptions()
	wide.FOV = mgl32.DegToRad(90)
	f.cams[1] = camera.New(aspect, mgl32.Vec3{0, 0, 2}, wide)
	sc.AddCamera(f.cams[0])
	sc.AddCamera(f.cams[1])
	return f
}

func indexOf(ops []gfxtest.Op, op gfxtest.Op, from int) int {
	for i := from; i < len(ops); i++ {
		if ops[i] == op {
			return i
		}
	}
	return -1
}

func TestFramePassOrder(t *testing.T) {
	f := newFixture(t, config())
	sk, err := sky.NewGradient(f.dev, 4, [3]uint8{0, 0, 255}, [3]uint8{255, 255, 255}, [3]uint8{0, 0, 0})
	require.NoError(t, err)
	f.scene.SetSky(sk)
	f.dev.Reset()

	f.renderer.Frame(f.scene, 1.0/60)

	ops := f.dev.Ops()
	clear := indexOf(ops, gfxtest.OpClearColor, 0)
	shadowBind := indexOf(ops, gfxtest.OpBindDepthTarget, 0)
	shadowDraw := indexOf(ops, gfxtest.OpDrawIndexed, shadowBind)
	rebind := indexOf(ops, gfxtest.OpBindColorTarget, shadowBind)
	backBuffer := indexOf(ops, gfxtest.OpBindBackBuffer, 0)
	resolve := indexOf(ops, gfxtest.OpDraw, 0)

	require.NotEqual(t, -1, clear)
	require.NotEqual(t, -1, shadowBind)
	assert.Less(t, clear, shadowBind)
	assert.Less(t, shadowBind, shadowDraw)
	assert.Less(t, shadowDraw, rebind)
	assert.Less(t, rebind, backBuffer)
	assert.Less(t, backBuffer, resolve)

	draws := f.dev.Find(gfxtest.OpDrawIndexed)
	// Three shadow draws, three opaque draws and the sky cube.
	assert.Len(t, draws, 7)
	assert.Equal(t, 1, f.swap.presents)

	st := f.renderer.Stats()
	assert.Equal(t, uint64(1), st.Frames)
	assert.Equal(t, 3, st.ShadowDraws)
	assert.Equal(t, 5, st.DrawCalls)
}

func TestShadowPassIsDepthOnly(t *testing.T) {
	f := newFixture(t, config())
	f.dev.Reset()
	ctx := f.renderer.ctx
	f.renderer.BeginFrame(0)
	f.renderer.RenderShadowMap(f.scene)

	var inShadow bool
	for _, cmd := range f.dev.Commands {
		switch cmd.Op {
		case gfxtest.OpBindDepthTarget:
			inShadow = true
		case gfxtest.OpBindColorTarget:
			inShadow = false
		case gfxtest.OpDrawIndexed:
			assert.True(t, inShadow)
		}
	}
	rec := f.dev.Recorder()
	assert.Nil(t, rec.BoundShader(gfx.StagePixel))
	assert.Nil(t, rec.BoundRasterizer(), "biased rasterizer removed")
	assert.Equal(t, f.renderer.Target().ColorTarget(), rec.BoundColorTarget())
	assert.Equal(t, gfx.Viewport{Width: 800, Height: 600}, ctx.Viewport())

	biased := f.dev.Find(gfxtest.OpSetRasterizer)
	require.NotEmpty(t, biased)
	var sawBias bool
	for _, cmd := range biased {
		if cmd.Rasterizer != nil && cmd.Rasterizer.Desc().DepthBias == 1000 {
			sawBias = true
		}
	}
	assert.True(t, sawBias)
}

func TestShadowPassWithoutDirectionalLight(t *testing.T) {
	f := newFixture(t, config())
	f.scene.Lights().Clear()
	f.scene.Lights().Add(&lighting.Point{Position: mgl32.Vec3{0, 2, 0}, Range: 5, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1})
	f.dev.Reset()

	f.renderer.BeginFrame(0)
	f.renderer.RenderShadowMap(f.scene)
	assert.Len(t, f.dev.Find(gfxtest.OpClearDepth), 2)
	assert.Empty(t, f.dev.Find(gfxtest.OpDrawIndexed))
}

func TestOpaquePassResendsPerEntity(t *testing.T) {
	f := newFixture(t, config())
	f.dev.Reset()
	f.renderer.Frame(f.scene, 0.5)

	blocks := f.dev.Find(gfxtest.OpUploadBlock)
	assert.Len(t, blocks, 3)
	for _, b := range blocks {
		assert.Equal(t, "Lights", b.Block)
	}

	var shadowBinds int
	for _, cmd := range f.dev.Find(gfxtest.OpSetTexture) {
		if cmd.Texture == f.renderer.ShadowMap().Texture() {
			shadowBinds++
			assert.Equal(t, gfx.StagePixel, cmd.Stage)
		}
	}
	assert.Equal(t, 3, shadowBinds)

	var lightViews int
	for _, cmd := range f.dev.Find(gfxtest.OpUploadConstants) {
		if cmd.Module != f.vs.Module() {
			continue
		}
		lv, ok := cmd.Mat4("lightView")
		require.True(t, ok)
		assert.Equal(t, f.renderer.ShadowMap().View(), lv)
		lightViews++
	}
	assert.Equal(t, 3, lightViews)
}

func uploadedViews(f *fixture) []mgl32.Mat4 {
	var views []mgl32.Mat4
	for _, cmd := range f.dev.Find(gfxtest.OpUploadConstants) {
		if cmd.Module != f.vs.Module() {
			continue
		}
		if v, ok := cmd.Mat4("view"); ok {
			views = append(views, v)
		}
	}
	return views
}

func TestCameraSwitch(t *testing.T) {
	f := newFixture(t, config())
	f.dev.Reset()
	f.renderer.Frame(f.scene, 0)
	for _, v := range uploadedViews(f) {
		assert.Equal(t, f.cams[0].View(), v)
	}

	require.NoError(t, f.scene.SetActiveCamera(1))
	f.dev.Reset()
	f.renderer.Frame(f.scene, 0)
	views := uploadedViews(f)
	require.Len(t, views, 3)
	for _, v := range views {
		assert.Equal(t, f.cams[1].View(), v)
	}

	post := f.dev.Find(gfxtest.OpUploadConstants)
	last := post[len(post)-1]
	pos, ok := last.Vec3("cameraPosition")
	require.True(t, ok)
	assert.Equal(t, f.cams[1].Position(), pos)
}

func TestResize(t *testing.T) {
	f := newFixture(t, config())
	before := len(f.dev.ColorTargets)

	require.NoError(t, f.renderer.Resize(f.scene, 1920, 1080))

	assert.Len(t, f.dev.ColorTargets, before+1)
	assert.True(t, f.dev.ColorTargets[before-1].Released)
	assert.Equal(t, 1920, f.renderer.Target().Width())
	assert.Equal(t, 1080, f.renderer.Target().Height())
	for _, c := range f.scene.Cameras() {
		assert.InDelta(t, 1920.0/1080, c.Aspect(), 1e-6)
	}
	assert.Equal(t, shadow.DefaultResolution, f.renderer.ShadowMap().Resolution())
	assert.Len(t, f.dev.DepthTargets, 1)

	f.dev.Reset()
	f.renderer.Frame(f.scene, 0)
	assert.Equal(t, gfx.Viewport{Width: 1920, Height: 1080}, f.renderer.ctx.Viewport())

	require.NoError(t, f.renderer.Resize(f.scene, 0, 0))
	w, h := f.renderer.Size()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

func TestOffscreenOutput(t *testing.T) {
	cfg := config()
	cfg.Offscreen = true
	f := newFixture(t, cfg)
	require.NotNil(t, f.renderer.Output())

	f.dev.Reset()
	f.renderer.Frame(f.scene, 0)

	binds := f.dev.Find(gfxtest.OpBindColorTarget)
	require.NotEmpty(t, binds)
	outputBind := binds[len(binds)-1]
	assert.Equal(t, f.dev.ColorTargets[1], outputBind.Target)
	assert.Nil(t, f.dev.Recorder().BoundColorTarget())

	require.NoError(t, f.renderer.Resize(f.scene, 1024, 768))
	assert.Equal(t, 1024, f.renderer.Output().Width())
}

func TestResizeFailureKeepsOldSize(t *testing.T) {
	cfg := config()
	cfg.Offscreen = true
	f := newFixture(t, cfg)

	// The scene target resizes, then the output target fails.
	f.dev.Fail = "CreateColorTarget"
	f.dev.FailAt = 2
	require.Error(t, f.renderer.Resize(f.scene, 1920, 1080))

	w, h := f.renderer.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 800, f.renderer.Target().Width())
	assert.Equal(t, 600, f.renderer.Target().Height())
	assert.Equal(t, 800, f.renderer.Output().Width())
	for _, c := range f.scene.Cameras() {
		assert.InDelta(t, 800.0/600, c.Aspect(), 1e-6)
	}

	f.dev.Fail = ""
	f.dev.Reset()
	f.renderer.Frame(f.scene, 0)
	assert.Equal(t, gfx.Viewport{Width: 800, Height: 600}, f.renderer.ctx.Viewport())
}

func TestBackBufferHasNoOutput(t *testing.T) {
	f := newFixture(t, config())
	assert.Nil(t, f.renderer.Output())
}

func TestFitShadowToScene(t *testing.T) {
	cfg := config()
	cfg.FitShadowToScene = true
	f := newFixture(t, cfg)
	f.renderer.Frame(f.scene, 0)

	center := f.scene.Bounds().Center()
	assertNear(t, center, f.renderer.ShadowMap().Center(), 1e-5)

	f.renderer.SetFitShadowToScene(false, shadow.DefaultOptions())
	assert.False(t, f.renderer.FitShadowToScene())
	assert.Equal(t, mgl32.Vec3{}, f.renderer.ShadowMap().Center())
}

func TestNewFailures(t *testing.T) {
	for _, method := range []string{"CreateDepthTarget", "CreateShader", "CreateColorTarget", "CreateDepthState"} {
		t.Run(method, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			dev.Fail = method
			_, err := New(dev, nil, config())
			assert.Error(t, err)
		})
	}
}

func TestClearColorAndElapsed(t *testing.T) {
	f := newFixture(t, config())
	f.renderer.SetClearColor([4]float32{1, 0, 0, 1})
	f.dev.Reset()
	f.renderer.Frame(f.scene, 0.25)
	f.renderer.Frame(f.scene, 0.25)

	clears := f.dev.Find(gfxtest.OpClearColor)
	require.Len(t, clears, 2)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, clears[0].Color)
	assert.Equal(t, float32(0.5), f.renderer.Elapsed())
}

func assertNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}
