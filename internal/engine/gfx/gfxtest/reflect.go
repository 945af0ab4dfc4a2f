package gfxtest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	uniformBlock = regexp.MustCompile(`(?s)(?:layout\s*\([^)]*\)\s*)?uniform\s+(\w+)\s*\{(.*?)\}\s*\w*\s*;`)
	uniformDecl  = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*;`)
	arrayMember  = regexp.MustCompile(`(\w+)\s+\w+\s*\[\s*(\d+)\s*\]\s*;`)
)

// std140 sizes of the block member types the engine shaders use. A struct
// member is looked up by its type name in structSizes.
var std140Sizes = map[string]int{
	"float": 4, "int": 4, "vec2": 8, "vec3": 16, "vec4": 16, "mat4": 64,
}

// ParseLayout reflects the uniforms of a GLSL source: loose uniforms become
// variables, samplers become texture slots in declaration order, and uniform
// blocks are sized with std140 rules for arrays of 16-byte aligned structs.
func ParseLayout(source string) (*gfx.Layout, error) {
	src := blockComment.ReplaceAllString(source, "")
	src = lineComment.ReplaceAllString(src, "")

	structSizes := parseStructSizes(src)

	layout := gfx.NewLayout()
	for _, m := range uniformBlock.FindAllStringSubmatch(src, -1) {
		layout.AddBlock(m[1], blockSize(m[2], structSizes))
	}
	src = uniformBlock.ReplaceAllString(src, "")

	for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
		typ, name := m[1], m[2]
		if strings.HasPrefix(typ, "sampler") {
			layout.AddTexture(name)
			continue
		}
		vt, ok := gfx.ParseVarType(typ)
		if !ok {
			return nil, fmt.Errorf("uniform %s: unsupported type %s", name, typ)
		}
		if err := layout.AddVariable(name, vt); err != nil {
			return nil, err
		}
	}
	return layout, nil
}

var structDecl = regexp.MustCompile(`(?s)struct\s+(\w+)\s*\{(.*?)\}\s*;`)
var memberDecl = regexp.MustCompile(`(\w+)\s+\w+\s*;`)

func parseStructSizes(src string) map[string]int {
	sizes := make(map[string]int)
	for _, m := range structDecl.FindAllStringSubmatch(src, -1) {
		size := 0
		for _, member := range memberDecl.FindAllStringSubmatch(m[2], -1) {
			s := std140Sizes[member[1]]
			if s == 16 && size%16 != 0 {
				size += 16 - size%16
			}
			if member[1] == "vec3" {
				s = 12
			}
			size += s
		}
		if size%16 != 0 {
			size += 16 - size%16
		}
		sizes[m[1]] = size
	}
	return sizes
}

func blockSize(body string, structSizes map[string]int) int {
	size := 0
	for _, m := range arrayMember.FindAllStringSubmatch(body, -1) {
		elem := structSizes[m[1]]
		if elem == 0 {
			elem = std140Sizes[m[1]]
		}
		var count int
		fmt.Sscan(m[2], &count)
		size += elem * count
	}
	return size
}
