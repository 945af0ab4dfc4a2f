package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/picking"
	"github.com/Faultbox/lumen/internal/engine/postprocess"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/shadow"
	"github.com/Faultbox/lumen/internal/logger"
)

var shadowResolutions = []int{512, 1024, 2048}

var fogModes = []postprocess.FogMode{
	postprocess.FogLinear,
	postprocess.FogSmooth,
	postprocess.FogExponential,
}

// Panel is the inspector window: frame stats plus live editors for the
// entities, materials, lights, shadow map, post-process and cameras.
type Panel struct {
	renderer *renderer.Renderer
	scene    *scene.Scene
	timer    *FrameTimer
	shadow   shadow.Options
	log      *zap.Logger

	// OnSave persists the current settings. The Save button is hidden when nil.
	OnSave func() error

	selected int
	status   string
	Enabled  bool
}

// NewPanel creates a panel editing sc as drawn by r. shadowOpts are the
// configured shadow options, restored when bounds fitting is switched off.
func NewPanel(r *renderer.Renderer, sc *scene.Scene, shadowOpts shadow.Options) *Panel {
	return &Panel{
		renderer: r,
		scene:    sc,
		timer:    &FrameTimer{},
		shadow:   shadowOpts,
		log:      logger.Named("ui"),
		selected: -1,
		Enabled:  true,
	}
}

// Timer returns the frame timer shown in the panel.
func (p *Panel) Timer() *FrameTimer { return p.timer }

// Selected returns the index of the entity picked last, or -1.
func (p *Panel) Selected() int { return p.selected }

// PickAt selects the entity under the pixel (x, y) of the rendered frame,
// or clears the selection when nothing is hit.
func (p *Panel) PickAt(x, y float32) {
	c := p.scene.ActiveCamera()
	w, h := p.renderer.Size()
	if c == nil || w <= 0 || h <= 0 {
		return
	}
	ray := picking.ScreenToRay(x, y, float32(w), float32(h), c.Projection().Mul4(c.View()).Inv())
	i, d := p.scene.Pick(ray)
	p.selected = i
	if i >= 0 {
		p.log.Debug("entity picked", zap.String("entity", p.scene.Entities()[i].Name()), zap.Float32("distance", d))
	}
}

// Render draws the panel.
func (p *Panel) Render() {
	if !p.Enabled {
		return
	}

	imgui.SetNextWindowPos(imgui.NewVec2(10, 10))
	imgui.SetNextWindowSize(imgui.NewVec2(340, 0))
	imgui.SetNextWindowBgAlpha(0.85)

	if imgui.BeginV("Inspector", nil, imgui.WindowFlagsNoCollapse|imgui.WindowFlagsAlwaysAutoResize) {
		p.renderInfo()
		p.renderEntities()
		p.renderMaterials()
		p.renderLights()
		p.renderShadow()
		p.renderPost()
		p.renderCameras()
		p.renderSave()
	}
	imgui.End()
}

func (p *Panel) renderInfo() {
	fps := p.timer.FPS()
	fpsColor := imgui.NewVec4(0.2, 1.0, 0.2, 1.0)
	if fps < 30 {
		fpsColor = imgui.NewVec4(1.0, 0.2, 0.2, 1.0)
	} else if fps < 60 {
		fpsColor = imgui.NewVec4(1.0, 1.0, 0.2, 1.0)
	}
	imgui.TextColored(fpsColor, fmt.Sprintf("FPS: %.1f", fps))
	imgui.SameLine()
	imgui.TextDisabled(fmt.Sprintf("(%.2f ms)", float64(p.timer.FrameTime().Microseconds())/1000))

	w, h := p.renderer.Size()
	stats := p.renderer.Stats()
	sceneStats := p.scene.Stats()
	imgui.Text(fmt.Sprintf("Resolution: %dx%d", w, h))
	imgui.Text(fmt.Sprintf("Draw calls: %d (shadow %d)", stats.DrawCalls, stats.ShadowDraws))
	imgui.Text(fmt.Sprintf("Entities: %d  Triangles: %d", sceneStats.Entities, sceneStats.Triangles))
	if entities := p.scene.Entities(); p.selected >= 0 && p.selected < len(entities) {
		imgui.Text("Selected: " + entities[p.selected].Name())
	} else {
		imgui.TextDisabled("Right-click an entity to select it")
	}

	bg := p.renderer.ClearColor()
	if imgui.ColorEdit4("Clear color", &bg) {
		p.renderer.SetClearColor(bg)
	}
	imgui.Separator()
}

func (p *Panel) renderEntities() {
	if !imgui.TreeNodeExStrV("Entities", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	defer imgui.TreePop()

	for i, e := range p.scene.Entities() {
		id := fmt.Sprintf("##entity%d", i)
		flags := imgui.TreeNodeFlagsNone
		if i == p.selected {
			flags = imgui.TreeNodeFlagsSelected
		}
		if !imgui.TreeNodeExStrV(e.Name()+id, flags) {
			continue
		}

		t := e.Transform()
		pos := [3]float32(t.Position())
		if imgui.DragFloat3("Position"+id, &pos) {
			t.SetPosition(mgl32.Vec3(pos))
		}
		rot := [3]float32(t.PitchYawRoll())
		if imgui.DragFloat3("Rotation"+id, &rot) {
			t.SetRotation(mgl32.Vec3(rot))
		}
		scale := [3]float32(t.ScaleFactors())
		if imgui.DragFloat3("Scale"+id, &scale) {
			t.SetScale(mgl32.Vec3(scale))
		}

		m := e.Mesh()
		imgui.TextDisabled(fmt.Sprintf("Mesh %s: %d vertices, %d triangles",
			m.Name(), m.VertexCount(), m.TriangleCount()))

		imgui.Text("Material")
		for j, mat := range p.scene.Materials() {
			label := fmt.Sprintf("%s%s_mat%d", mat.Name(), id, j)
			if imgui.SelectableBoolV(label, e.Material() == mat, 0, imgui.NewVec2(0, 0)) {
				e.SetMaterial(mat)
			}
		}
		imgui.TreePop()
	}
}

func (p *Panel) renderMaterials() {
	if !imgui.TreeNodeExStrV("Materials", imgui.TreeNodeFlagsNone) {
		return
	}
	defer imgui.TreePop()

	for i, mat := range p.scene.Materials() {
		id := fmt.Sprintf("##material%d", i)
		if !imgui.TreeNodeExStrV(mat.Name()+id, imgui.TreeNodeFlagsNone) {
			continue
		}

		tint := [3]float32(mat.Tint())
		if imgui.ColorEdit3("Tint"+id, &tint) {
			mat.SetTint(mgl32.Vec3(tint))
		}
		rough := mat.Roughness()
		if imgui.SliderFloatV("Roughness"+id, &rough, 0, 1, "%.2f", imgui.SliderFlagsNone) {
			mat.SetRoughness(rough)
		}
		scale := [2]float32(mat.UVScale())
		if imgui.DragFloat2("UV scale"+id, &scale) {
			mat.SetUVScale(mgl32.Vec2(scale))
		}
		offset := [2]float32(mat.UVOffset())
		if imgui.DragFloat2("UV offset"+id, &offset) {
			mat.SetUVOffset(mgl32.Vec2(offset))
		}
		imgui.TextDisabled(fmt.Sprintf("Shaders: %s / %s",
			mat.VertexShader().Name(), mat.PixelShader().Name()))
		imgui.TreePop()
	}
}

func (p *Panel) renderLights() {
	if !imgui.TreeNodeExStrV("Lights", imgui.TreeNodeFlagsNone) {
		return
	}
	defer imgui.TreePop()

	lights := p.scene.Lights()
	ambient := [3]float32(lights.Ambient())
	if imgui.ColorEdit3("Ambient", &ambient) {
		lights.SetAmbient(mgl32.Vec3(ambient))
	}

	for i, l := range lights.Lights() {
		id := fmt.Sprintf("##light%d", i)
		if !imgui.TreeNodeExStrV(fmt.Sprintf("%s light %d%s", l.Type(), i, id), imgui.TreeNodeFlagsNone) {
			continue
		}
		switch l := l.(type) {
		case *lighting.Directional:
			lon, lat := lighting.SunAngles(l.Direction())
			changed := imgui.SliderFloatV("Longitude"+id, &lon, -180, 180, "%.0f", imgui.SliderFlagsNone)
			changed = imgui.SliderFloatV("Latitude"+id, &lat, 1, 90, "%.0f", imgui.SliderFlagsNone) || changed
			if changed {
				l.SetDirection(lighting.SunDirection(lon, lat))
			}
			editColor(id, &l.Color, &l.Intensity)
		case *lighting.Point:
			editPosition(id, &l.Position)
			imgui.SliderFloatV("Range"+id, &l.Range, 0.1, 50, "%.1f", imgui.SliderFlagsNone)
			editColor(id, &l.Color, &l.Intensity)
		case *lighting.Spot:
			editPosition(id, &l.Position)
			dir := [3]float32(l.Direction())
			if imgui.DragFloat3("Direction"+id, &dir) {
				if v := mgl32.Vec3(dir); v.Len() > 1e-4 {
					l.SetDirection(v)
				}
			}
			imgui.SliderFloatV("Range"+id, &l.Range, 0.1, 50, "%.1f", imgui.SliderFlagsNone)
			inner := mgl32.RadToDeg(l.Inner)
			outer := mgl32.RadToDeg(l.Outer)
			if imgui.SliderFloatV("Inner"+id, &inner, 0, 89, "%.0f deg", imgui.SliderFlagsNone) {
				l.Inner = mgl32.DegToRad(inner)
				l.Outer = max(l.Outer, l.Inner)
			}
			if imgui.SliderFloatV("Outer"+id, &outer, 0, 89, "%.0f deg", imgui.SliderFlagsNone) {
				l.Outer = mgl32.DegToRad(outer)
				l.Inner = min(l.Inner, l.Outer)
			}
			editColor(id, &l.Color, &l.Intensity)
		}
		imgui.TreePop()
	}
}

func editPosition(id string, pos *mgl32.Vec3) {
	v := [3]float32(*pos)
	if imgui.DragFloat3("Position"+id, &v) {
		*pos = mgl32.Vec3(v)
	}
}

func editColor(id string, color *mgl32.Vec3, intensity *float32) {
	c := [3]float32(*color)
	if imgui.ColorEdit3("Color"+id, &c) {
		*color = mgl32.Vec3(c)
	}
	imgui.SliderFloatV("Intensity"+id, intensity, 0, 10, "%.2f", imgui.SliderFlagsNone)
}

func (p *Panel) renderShadow() {
	if !imgui.TreeNodeExStrV("Shadow", imgui.TreeNodeFlagsNone) {
		return
	}
	defer imgui.TreePop()

	sm := p.renderer.ShadowMap()
	imgui.Text(fmt.Sprintf("Resolution: %d", sm.Resolution()))
	for i, res := range shadowResolutions {
		if i > 0 {
			imgui.SameLine()
		}
		if imgui.Button(fmt.Sprintf("%d", res)) && res != sm.Resolution() {
			if err := p.renderer.ResizeShadowMap(res); err != nil {
				p.log.Error("shadow map resize failed", zap.Int("resolution", res), zap.Error(err))
				p.status = err.Error()
			}
		}
	}

	fit := p.renderer.FitShadowToScene()
	if imgui.Checkbox("Fit to scene", &fit) {
		p.renderer.SetFitShadowToScene(fit, p.shadow)
	}

	imgui.BeginDisabledV(fit)
	opts := sm.Options()
	if imgui.SliderFloatV("Projection size", &opts.ProjectionSize, 1, 100, "%.1f", imgui.SliderFlagsNone) {
		sm.SetProjectionSize(opts.ProjectionSize)
	}
	if imgui.SliderFloatV("Light distance", &opts.LightDistance, 1, 100, "%.1f", imgui.SliderFlagsNone) {
		sm.SetLightDistance(opts.LightDistance)
	}
	imgui.EndDisabled()
}

func (p *Panel) renderPost() {
	if !imgui.TreeNodeExStrV("Post-process", imgui.TreeNodeFlagsNone) {
		return
	}
	defer imgui.TreePop()

	s := p.renderer.Settings()
	blur := int32(s.BlurRadius)
	if imgui.SliderIntV("Blur radius", &blur, 0, 10, "%d", imgui.SliderFlagsNone) {
		s.BlurRadius = int(blur)
	}

	imgui.Text("Fog")
	for _, mode := range fogModes {
		if imgui.SelectableBoolV(mode.String()+"##fog", s.Fog == mode, 0, imgui.NewVec2(0, 0)) {
			s.Fog = mode
		}
	}
	fogColor := [3]float32(s.FogColor)
	if imgui.ColorEdit3("Fog color", &fogColor) {
		s.FogColor = mgl32.Vec3(fogColor)
	}
	if s.Fog == postprocess.FogExponential {
		imgui.SliderFloatV("Density", &s.FogDensity, 0, 0.5, "%.3f", imgui.SliderFlagsNone)
	} else {
		imgui.SliderFloatV("Start", &s.FogStart, 0, 200, "%.1f", imgui.SliderFlagsNone)
		imgui.SliderFloatV("End", &s.FogEnd, 0, 200, "%.1f", imgui.SliderFlagsNone)
	}

	imgui.Checkbox("Height fog", &s.HeightFog)
	imgui.BeginDisabledV(!s.HeightFog)
	imgui.SliderFloatV("Height density", &s.HeightFogDensity, 0, 2, "%.2f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Fog height", &s.HeightFogHeight, -20, 20, "%.1f", imgui.SliderFlagsNone)
	imgui.EndDisabled()
}

func (p *Panel) renderCameras() {
	if !imgui.TreeNodeExStrV("Cameras", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	defer imgui.TreePop()

	active := p.scene.ActiveCameraIndex()
	for i, c := range p.scene.Cameras() {
		kind := "orthographic"
		if c.IsPerspective() {
			kind = "perspective"
		}
		label := fmt.Sprintf("Camera %d (%s)##camera%d", i, kind, i)
		if imgui.SelectableBoolV(label, i == active, 0, imgui.NewVec2(0, 0)) && i != active {
			if err := p.scene.SetActiveCamera(i); err != nil {
				p.log.Error("camera switch failed", zap.Int("camera", i), zap.Error(err))
			}
		}
	}

	c := p.scene.ActiveCamera()
	if c == nil {
		return
	}
	imgui.Spacing()
	pos := c.Position()
	imgui.Text(fmt.Sprintf("Position: %.2f, %.2f, %.2f", pos[0], pos[1], pos[2]))

	persp := c.IsPerspective()
	if imgui.Checkbox("Perspective", &persp) {
		c.SetPerspective(persp)
	}
	imgui.BeginDisabledV(!persp)
	fov := mgl32.RadToDeg(c.FOV())
	if imgui.SliderFloatV("FOV", &fov, 10, 120, "%.0f deg", imgui.SliderFlagsNone) {
		c.SetFOV(mgl32.DegToRad(fov))
	}
	imgui.EndDisabled()

	move := c.MoveSpeed()
	if imgui.SliderFloatV("Move speed", &move, 0.5, 50, "%.1f", imgui.SliderFlagsNone) {
		c.SetMoveSpeed(move)
	}
	look := c.LookSpeed()
	if imgui.SliderFloatV("Look speed", &look, 0.0005, 0.01, "%.4f", imgui.SliderFlagsNone) {
		c.SetLookSpeed(look)
	}
	imgui.TextDisabled("WASD move, Space/X up/down, Shift fast, drag to look")
}

func (p *Panel) renderSave() {
	if p.OnSave == nil {
		return
	}
	imgui.Separator()
	if imgui.Button("Save settings") {
		p.status = "saved"
		if err := p.OnSave(); err != nil {
			p.log.Error("saving settings failed", zap.Error(err))
			p.status = err.Error()
		}
	}
	if p.status != "" {
		imgui.SameLine()
		imgui.TextDisabled(p.status)
	}
}
