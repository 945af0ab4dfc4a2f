package game

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/assets"
	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/shaders"
	"github.com/Faultbox/lumen/internal/engine/sky"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/logger"
)

// Material names shown in the inspector.
const (
	MaterialPurple     = "Purple"
	MaterialUV         = "UV Preview"
	MaterialNormals    = "Normal Preview"
	MaterialColorshift = "Custom Colorshift"
	MaterialGround     = "Ground"
)

// rowZ is the depth of the entity rows; the cameras start at positive Z
// looking down -Z.
const rowZ = -5

var (
	primaryCameraPos   = mgl32.Vec3{6, 1, 12}
	secondaryCameraPos = mgl32.Vec3{0, 0, 2}
	secondaryCameraFOV = mgl32.DegToRad(90)
)

type entitySpec struct {
	name     string
	mesh     string
	material string
	position mgl32.Vec3
}

var demoEntities = []entitySpec{
	{"sphere0", "sphere", MaterialColorshift, mgl32.Vec3{-3, 0, rowZ}},
	{"cube", "cube", MaterialPurple, mgl32.Vec3{0, 0, rowZ}},
	{"helix", "helix", MaterialPurple, mgl32.Vec3{3, 0, rowZ}},
	{"torus", "torus", MaterialUV, mgl32.Vec3{6, 0, rowZ}},
	{"cylinder", "cylinder", MaterialUV, mgl32.Vec3{9, 0, rowZ}},
	{"quad", "quad", MaterialNormals, mgl32.Vec3{12, 0, rowZ}},
	{"quad_double_sided", "quad_double_sided", MaterialNormals, mgl32.Vec3{15, 0, rowZ}},
	{"sphere1", "sphere", MaterialPurple, mgl32.Vec3{0, -3, rowZ}},
	{"sphere2", "sphere", MaterialUV, mgl32.Vec3{6, -3, rowZ}},
	{"sphere3", "sphere", MaterialNormals, mgl32.Vec3{12, -3, rowZ}},
}

// Stand-ins for model files missing from the assets directory.
var primitives = map[string]func() ([]mesh.Vertex, []uint32){
	"sphere":            func() ([]mesh.Vertex, []uint32) { return mesh.SphereData(0.5, 32, 16) },
	"cube":              func() ([]mesh.Vertex, []uint32) { return mesh.CubeData(1) },
	"helix":             func() ([]mesh.Vertex, []uint32) { return mesh.SphereData(0.5, 8, 4) },
	"torus":             func() ([]mesh.Vertex, []uint32) { return mesh.SphereData(0.5, 24, 12) },
	"cylinder":          func() ([]mesh.Vertex, []uint32) { return mesh.CubeData(1) },
	"quad":              func() ([]mesh.Vertex, []uint32) { return mesh.PlaneData(1, 1) },
	"quad_double_sided": func() ([]mesh.Vertex, []uint32) { return mesh.PlaneData(1, 1) },
	"ground":            func() ([]mesh.Vertex, []uint32) { return mesh.PlaneData(40, 24) },
}

// Shaders are the compiled programs the demo materials share.
type Shaders struct {
	Vertex     *shader.Shader
	PBR        *shader.Shader
	UV         *shader.Shader
	Normals    *shader.Shader
	Colorshift *shader.Shader
}

// CompileShaders compiles every demo shader.
func CompileShaders(dev gfx.Device) (*Shaders, error) {
	s := &Shaders{}
	var err error
	compile := func(dst **shader.Shader, stage gfx.Stage, name, src string) {
		if err != nil {
			return
		}
		*dst, err = shader.Compile(dev, stage, name, src)
	}
	compile(&s.Vertex, gfx.StageVertex, "standard", shaders.StandardVertex)
	compile(&s.PBR, gfx.StagePixel, "pbr", shaders.PBRPixel)
	compile(&s.UV, gfx.StagePixel, "uv", shaders.UVPixel)
	compile(&s.Normals, gfx.StagePixel, "normals", shaders.NormalsPixel)
	compile(&s.Colorshift, gfx.StagePixel, "colorshift", shaders.ColorshiftPixel)
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("compiling demo shaders: %w", err)
	}
	return s, nil
}

// Release frees the compiled shaders.
func (s *Shaders) Release() {
	for _, sh := range []*shader.Shader{s.Vertex, s.PBR, s.UV, s.Normals, s.Colorshift} {
		if sh != nil {
			sh.Release()
		}
	}
}

// Demo is the showcase scene plus the GPU resources the scene does not own.
type Demo struct {
	Scene    *scene.Scene
	Shaders  *Shaders
	sampler  gfx.Sampler
	textures []gfx.Texture
}

// Release frees the scene and everything the demo created for it.
func (d *Demo) Release() {
	if d.Scene != nil {
		d.Scene.Release()
	}
	for _, t := range d.textures {
		t.Release()
	}
	d.textures = nil
	if d.sampler != nil {
		d.sampler.Release()
	}
	if d.Shaders != nil {
		d.Shaders.Release()
	}
}

type builder struct {
	dev  gfx.Device
	am   *assets.Manager
	demo *Demo
	log  *zap.Logger
}

// BuildDemo creates the showcase scene: ten entities in two rows with
// four materials, a sun, a point and a spot light, two cameras and a sky.
// Models, textures and sky faces are read from am when present and
// replaced by procedural stand-ins when missing.
func BuildDemo(dev gfx.Device, am *assets.Manager, cfg *config.Config, aspect float32) (*Demo, error) {
	b := &builder{dev: dev, am: am, demo: &Demo{}, log: logger.Named("game")}
	if err := b.build(cfg, aspect); err != nil {
		b.demo.Release()
		return nil, err
	}
	st := b.demo.Scene.Stats()
	b.log.Info("demo scene built",
		zap.Int("entities", st.Entities),
		zap.Int("meshes", len(b.demo.Scene.Meshes())),
		zap.Int("triangles", st.Triangles))
	return b.demo, nil
}

func (b *builder) build(cfg *config.Config, aspect float32) error {
	var err error
	b.demo.Shaders, err = CompileShaders(b.dev)
	if err != nil {
		return err
	}
	b.demo.sampler, err = b.dev.CreateSampler(gfx.SamplerDesc{
		Filter:        gfx.FilterAnisotropic,
		Address:       gfx.AddressWrap,
		MaxAnisotropy: 16,
	})
	if err != nil {
		return fmt.Errorf("creating material sampler: %w", err)
	}

	sc := scene.New(mgl32.Vec3{0.1, 0.1, 0.15})
	b.demo.Scene = sc

	if err := b.addMaterials(sc); err != nil {
		return err
	}
	if err := b.addEntities(sc); err != nil {
		return err
	}
	addLights(sc)

	opts := CameraOptions(cfg.Camera)
	sc.AddCamera(camera.New(aspect, primaryCameraPos, opts))
	wide := opts
	wide.FOV = secondaryCameraFOV
	sc.AddCamera(camera.New(aspect, secondaryCameraPos, wide))

	sk, err := b.loadSky()
	if err != nil {
		return err
	}
	sc.SetSky(sk)
	return nil
}

func (b *builder) addMaterials(sc *scene.Scene) error {
	sh := b.demo.Shaders

	purple := material.New(MaterialPurple, sh.Vertex, sh.PBR)
	purple.SetTint(mgl32.Vec3{0.75, 0, 0.95})
	purple.SetRoughness(0.5)
	if err := b.bindPBRTextures(purple, "purple", false); err != nil {
		return err
	}

	ground := material.New(MaterialGround, sh.Vertex, sh.PBR)
	ground.SetRoughness(0.9)
	ground.SetUVScale(mgl32.Vec2{8, 5})
	if err := b.bindPBRTextures(ground, "ground", true); err != nil {
		return err
	}

	sc.AddMaterial(purple)
	sc.AddMaterial(material.New(MaterialUV, sh.Vertex, sh.UV))
	sc.AddMaterial(material.New(MaterialNormals, sh.Vertex, sh.Normals))
	sc.AddMaterial(material.New(MaterialColorshift, sh.Vertex, sh.Colorshift))
	sc.AddMaterial(ground)
	return nil
}

// bindPBRTextures attaches the four PBR maps, read from
// textures/<stem>_<map>.png or filled with neutral values.
func (b *builder) bindPBRTextures(mat *material.Material, stem string, checker bool) error {
	white := color.RGBA{255, 255, 255, 255}
	fallbacks := []struct {
		slot  string
		file  string
		color color.RGBA
	}{
		{"albedoMap", "albedo", white},
		{"normalMap", "normals", color.RGBA{128, 128, 255, 255}},
		{"roughnessMap", "roughness", white},
		{"metalnessMap", "metal", color.RGBA{0, 0, 0, 255}},
	}

	for _, f := range fallbacks {
		name := path.Join("textures", stem+"_"+f.file+".png")
		var tex gfx.Texture
		data, err := b.am.Load(name)
		switch {
		case err == nil:
			tex, err = texture.Load(b.dev, name, data)
		case !errors.Is(err, assets.ErrNotFound):
		case checker && f.slot == "albedoMap":
			img := texture.CheckerImage(64, 8, white, color.RGBA{150, 150, 160, 255})
			tex, err = texture.Upload(b.dev, img, true)
		default:
			tex, err = texture.Solid(b.dev, f.color)
		}
		if err != nil {
			return fmt.Errorf("material %s texture %s: %w", mat.Name(), f.slot, err)
		}
		b.demo.textures = append(b.demo.textures, tex)
		mat.AddTexture(f.slot, tex)
		mat.AddSampler(f.slot, b.demo.sampler)
	}
	return nil
}

func (b *builder) addEntities(sc *scene.Scene) error {
	meshes := make(map[string]*mesh.Mesh)
	get := func(name string) (*mesh.Mesh, error) {
		if m, ok := meshes[name]; ok {
			return m, nil
		}
		m, err := b.loadMesh(name)
		if err != nil {
			return nil, err
		}
		meshes[name] = sc.AddMesh(m)
		return m, nil
	}

	for _, entry := range demoEntities {
		m, err := get(entry.mesh)
		if err != nil {
			return err
		}
		mat, _ := sc.Material(entry.material)
		e := sc.AddEntity(scene.NewEntity(entry.name, m, mat))
		e.Transform().MoveAbsolute(entry.position)
	}

	ground, err := get("ground")
	if err != nil {
		return err
	}
	mat, _ := sc.Material(MaterialGround)
	e := sc.AddEntity(scene.NewEntity("ground", ground, mat))
	e.Transform().SetPosition(mgl32.Vec3{6, -4, rowZ})
	return nil
}

// loadMesh reads models/<name>.glb, .gltf or .obj, in that order, and
// falls back to a primitive.
func (b *builder) loadMesh(name string) (*mesh.Mesh, error) {
	for _, ext := range []string{".glb", ".gltf"} {
		p, err := b.am.Path(path.Join("models", name+ext))
		if err != nil {
			continue
		}
		meshes, err := mesh.LoadGLTF(b.dev, p)
		if err != nil {
			return nil, fmt.Errorf("loading model %s: %w", name, err)
		}
		if len(meshes) == 0 {
			return nil, fmt.Errorf("loading model %s: %w", name, mesh.ErrEmptyMesh)
		}
		for _, extra := range meshes[1:] {
			extra.Release()
		}
		return meshes[0], nil
	}

	objName := path.Join("models", name+".obj")
	if data, err := b.am.Load(objName); err == nil {
		m, err := mesh.LoadOBJ(b.dev, name, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("loading model %s: %w", objName, err)
		}
		return m, nil
	}

	gen, ok := primitives[name]
	if !ok {
		return nil, fmt.Errorf("%w: model %s", assets.ErrNotFound, name)
	}
	b.log.Debug("model missing, using primitive", zap.String("model", name))
	v, i := gen()
	return mesh.New(b.dev, name, v, i)
}

func addLights(sc *scene.Scene) {
	lights := sc.Lights()
	lights.Add(lighting.NewDirectional(lighting.SunDirection(30, 45), mgl32.Vec3{1, 0.95, 0.85}, 2.5))
	lights.Add(&lighting.Point{
		Position:  mgl32.Vec3{6, 1.5, rowZ + 2},
		Range:     8,
		Color:     mgl32.Vec3{0.3, 0.6, 1},
		Intensity: 3,
	})
	lights.Add(lighting.NewSpot(
		mgl32.Vec3{12, 4, rowZ + 2}, mgl32.Vec3{0, -1, -0.3}, 12,
		mgl32.DegToRad(15), mgl32.DegToRad(30),
		mgl32.Vec3{1, 0.6, 0.3}, 4))
}

// loadSky reads skies/<face>.png for all six faces, or builds a gradient
// sky when any face is missing.
func (b *builder) loadSky() (*sky.Sky, error) {
	var names [6]string
	var data [6][]byte
	complete := true
	for i, face := range texture.FaceNames {
		names[i] = path.Join("skies", face+".png")
		d, err := b.am.Load(names[i])
		if err != nil {
			complete = false
			break
		}
		data[i] = d
	}

	if !complete {
		b.log.Debug("sky faces missing, using gradient sky")
		return sky.NewGradient(b.dev, 64,
			[3]uint8{70, 120, 190}, [3]uint8{185, 210, 230}, [3]uint8{60, 55, 50})
	}

	cube, err := texture.LoadCube(b.dev, names, data)
	if err != nil {
		return nil, fmt.Errorf("loading sky: %w", err)
	}
	return sky.New(b.dev, cube)
}
