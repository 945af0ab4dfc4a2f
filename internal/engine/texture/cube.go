package texture

import (
	"fmt"
	"image"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Cube face order, matching gfx.Device.CreateTextureCube.
const (
	FaceRight = iota
	FaceLeft
	FaceUp
	FaceDown
	FaceFront
	FaceBack
)

// FaceNames are the conventional file stems of the six cube faces.
var FaceNames = [6]string{"right", "left", "up", "down", "front", "back"}

// UploadCube combines six face images into one cubemap. Faces are scaled
// to the size of the first face; cube faces keep their top-down row order.
func UploadCube(dev gfx.Device, faces [6]*image.RGBA) (gfx.Texture, error) {
	if faces[0] == nil {
		return nil, fmt.Errorf("cube face %s missing", FaceNames[0])
	}
	size := faces[0].Rect.Dx()
	if faces[0].Rect.Dy() != size {
		return nil, fmt.Errorf("cube face %s is %dx%d, must be square",
			FaceNames[0], faces[0].Rect.Dx(), faces[0].Rect.Dy())
	}

	var pixels [6][]byte
	for i, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("cube face %s missing", FaceNames[i])
		}
		f = Resize(f, size, size)
		pixels[i] = f.Pix[:size*size*4]
	}
	return dev.CreateTextureCube(size, pixels)
}

// LoadCube decodes six encoded faces and uploads them as a cubemap.
func LoadCube(dev gfx.Device, names [6]string, data [6][]byte) (gfx.Texture, error) {
	var faces [6]*image.RGBA
	for i := range data {
		img, err := Decode(names[i], data[i])
		if err != nil {
			return nil, err
		}
		faces[i] = img
	}
	tex, err := UploadCube(dev, faces)
	if err != nil {
		return nil, fmt.Errorf("uploading cubemap: %w", err)
	}
	return tex, nil
}

// GradientCube returns six faces shading from horizon to zenith, a
// stand-in sky when no face images are available.
func GradientCube(size int, zenith, horizon, ground [3]uint8) [6]*image.RGBA {
	lerp := func(a, b uint8, t float32) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*t)
	}
	fill := func(img *image.RGBA, at func(x, y int) [3]uint8) {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				c := at(x, y)
				o := img.PixOffset(x, y)
				img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c[0], c[1], c[2], 255
			}
		}
	}

	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, size, size))
	}
	side := func(x, y int) [3]uint8 {
		t := float32(y) / float32(max(size-1, 1))
		if t < 0.5 {
			t *= 2
			return [3]uint8{lerp(zenith[0], horizon[0], t), lerp(zenith[1], horizon[1], t), lerp(zenith[2], horizon[2], t)}
		}
		return ground
	}
	for _, i := range []int{FaceRight, FaceLeft, FaceFront, FaceBack} {
		fill(faces[i], side)
	}
	fill(faces[FaceUp], func(int, int) [3]uint8 { return zenith })
	fill(faces[FaceDown], func(int, int) [3]uint8 { return ground })
	return faces
}
