// Package shaders provides embedded GLSL shader sources.
//
// Vertex stages declare their outputs with explicit locations so that any
// pixel stage can be paired with them in a separable pipeline.
package shaders

import _ "embed"

// StandardVertex transforms mesh vertices and projects them into light space.
//
//go:embed standard.vert
var StandardVertex string

// PBRPixel lights a surface with the packed light array and the shadow map.
//
//go:embed pbr.frag
var PBRPixel string

// UVPixel visualizes transformed texture coordinates.
//
//go:embed uv.frag
var UVPixel string

// NormalsPixel visualizes world-space normals.
//
//go:embed normals.frag
var NormalsPixel string

// ShadowVertex writes light-space depth. It has no pixel stage.
//
//go:embed shadow.vert
var ShadowVertex string

// SkyVertex projects the sky cube onto the far plane.
//
//go:embed sky.vert
var SkyVertex string

// SkyPixel samples the sky cubemap.
//
//go:embed sky.frag
var SkyPixel string

// PostVertex emits the full-screen triangle.
//
//go:embed post.vert
var PostVertex string

// PostPixel applies blur and fog to the off-screen scene.
//
//go:embed post.frag
var PostPixel string

// ColorshiftPixel cycles surface color over time.
//
//go:embed custom.frag
var ColorshiftPixel string
