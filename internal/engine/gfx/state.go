package gfx

// Filter selects texture filtering.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
	FilterAnisotropic
)

// AddressMode selects how coordinates outside [0,1] are resolved.
type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
	AddressBorder
)

// CompareFunc is a depth or sampler comparison.
type CompareFunc int

const (
	CompareNone CompareFunc = iota
	CompareLess
	CompareLessEqual
	CompareAlways
)

// SamplerDesc describes a sampler. A Compare other than CompareNone makes
// it a comparison sampler, returning 1 where the reference passes.
type SamplerDesc struct {
	Filter        Filter
	Address       AddressMode
	Border        [4]float32
	Compare       CompareFunc
	MaxAnisotropy int
}

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// RasterizerDesc describes rasterizer state. DepthBias is in units of the
// smallest resolvable depth difference, not world units.
type RasterizerDesc struct {
	Cull                 CullMode
	DepthBias            int
	SlopeScaledDepthBias float32
}

// DefaultRasterizer is the state SetRasterizerState(nil) restores.
var DefaultRasterizer = RasterizerDesc{Cull: CullBack}

// DepthDesc describes depth testing.
type DepthDesc struct {
	Test  bool
	Write bool
	Func  CompareFunc
}

// DefaultDepth is the state SetDepthState(nil) restores.
var DefaultDepth = DepthDesc{Test: true, Write: true, Func: CompareLess}
