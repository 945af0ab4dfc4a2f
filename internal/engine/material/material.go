// Package material binds a vertex/pixel shader pair with the parameters and
// textures a surface is drawn with.
package material

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/transform"
)

// Viewer supplies the camera state a material uploads.
type Viewer interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Position() mgl32.Vec3
}

// Material is shared by every entity drawn with it.
type Material struct {
	name      string
	vertex    *shader.Shader
	pixel     *shader.Shader
	tint      mgl32.Vec3
	roughness float32
	uvScale   mgl32.Vec2
	uvOffset  mgl32.Vec2

	textures map[string]gfx.Texture
	samplers map[string]gfx.Sampler
}

// New creates a material with a white tint and an identity UV transform.
func New(name string, vertex, pixel *shader.Shader) *Material {
	return &Material{
		name:     name,
		vertex:   vertex,
		pixel:    pixel,
		tint:     mgl32.Vec3{1, 1, 1},
		uvScale:  mgl32.Vec2{1, 1},
		textures: make(map[string]gfx.Texture),
		samplers: make(map[string]gfx.Sampler),
	}
}

func (m *Material) Name() string        { return m.name }
func (m *Material) SetName(name string) { m.name = name }

func (m *Material) VertexShader() *shader.Shader { return m.vertex }
func (m *Material) PixelShader() *shader.Shader  { return m.pixel }

// SetShaders replaces the shader pair.
func (m *Material) SetShaders(vertex, pixel *shader.Shader) {
	m.vertex = vertex
	m.pixel = pixel
}

func (m *Material) Tint() mgl32.Vec3            { return m.tint }
func (m *Material) SetTint(tint mgl32.Vec3)     { m.tint = tint }
func (m *Material) Roughness() float32          { return m.roughness }
func (m *Material) UVScale() mgl32.Vec2         { return m.uvScale }
func (m *Material) SetUVScale(scale mgl32.Vec2) { m.uvScale = scale }
func (m *Material) UVOffset() mgl32.Vec2        { return m.uvOffset }
func (m *Material) SetUVOffset(off mgl32.Vec2)  { m.uvOffset = off }

// SetRoughness clamps to [0, 1].
func (m *Material) SetRoughness(r float32) {
	m.roughness = mgl32.Clamp(r, 0, 1)
}

// AddTexture registers a texture under the shader name it binds to,
// replacing any previous one.
func (m *Material) AddTexture(name string, t gfx.Texture) { m.textures[name] = t }

// AddSampler registers a sampler under the shader name it binds to.
func (m *Material) AddSampler(name string, s gfx.Sampler) { m.samplers[name] = s }

func (m *Material) RemoveTexture(name string) { delete(m.textures, name) }
func (m *Material) RemoveSampler(name string) { delete(m.samplers, name) }

// Texture returns the texture registered under name.
func (m *Material) Texture(name string) (gfx.Texture, bool) {
	t, ok := m.textures[name]
	return t, ok
}

// Sampler returns the sampler registered under name.
func (m *Material) Sampler(name string) (gfx.Sampler, bool) {
	s, ok := m.samplers[name]
	return s, ok
}

// TextureNames returns the registered texture names in sorted order.
func (m *Material) TextureNames() []string { return sortedKeys(m.textures) }

// SamplerNames returns the registered sampler names in sorted order.
func (m *Material) SamplerNames() []string { return sortedKeys(m.samplers) }

// Prepare activates the shader pair, writes the object, camera and surface
// parameters, binds every registered texture and sampler and flushes both
// stages. Texture slots of the pixel shader that the material does not
// register are left unbound. Parameters staged on the shaders beforehand (lights, shadow
// matrices) are flushed with them.
func (m *Material) Prepare(ctx gfx.Context, t *transform.Transform, cam Viewer) {
	m.vertex.Activate(ctx)
	m.pixel.Activate(ctx)

	m.vertex.SetMatrix4x4("world", t.WorldMatrix())
	m.vertex.SetMatrix4x4("worldInvTranspose", t.WorldInverseTransposeMatrix())
	m.vertex.SetMatrix4x4("view", cam.View())
	m.vertex.SetMatrix4x4("projection", cam.Projection())

	m.pixel.SetFloat3("colorTint", m.tint)
	m.pixel.SetFloat("roughness", m.roughness)
	m.pixel.SetFloat2("uvScale", m.uvScale)
	m.pixel.SetFloat2("uvOffset", m.uvOffset)
	m.pixel.SetFloat3("cameraPosition", cam.Position())

	for _, name := range m.TextureNames() {
		m.pixel.SetTexture(ctx, name, m.textures[name])
	}
	for _, name := range m.SamplerNames() {
		m.pixel.SetSampler(ctx, name, m.samplers[name])
	}

	layout := m.pixel.Layout()
	for _, name := range sortedKeys(layout.Textures) {
		if _, ok := m.textures[name]; !ok {
			m.pixel.SetTexture(ctx, name, nil)
		}
	}
	for _, name := range sortedKeys(layout.Samplers) {
		if _, ok := m.samplers[name]; !ok {
			m.pixel.SetSampler(ctx, name, nil)
		}
	}

	m.vertex.Flush(ctx)
	m.pixel.Flush(ctx)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
