package gfx

import (
	"encoding/binary"
	"math"
)

// PutFloats writes f into dst as little-endian float32 values.
func PutFloats(dst []byte, f ...float32) {
	for i, v := range f {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

// Uint32Bytes encodes indices for an index buffer.
func Uint32Bytes(v []uint32) []byte {
	out := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], x)
	}
	return out
}
