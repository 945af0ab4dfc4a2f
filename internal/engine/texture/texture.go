// Package texture decodes images and uploads them as GPU textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"path"
	"strings"

	_ "golang.org/x/image/bmp"  // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Decode decodes PNG, JPEG, BMP, WEBP or TGA data into RGBA. The name's
// extension selects TGA, which has no magic number; every other format is
// sniffed.
func Decode(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to a zero-origin RGBA image.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// Resize scales img to w x h.
func Resize(img *image.RGBA, w, h int) *image.RGBA {
	if img.Rect.Dx() == w && img.Rect.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, img, img.Rect, draw.Src, nil)
	return dst
}

// FlipVertical returns the pixel rows of img bottom row first, the order
// textures are uploaded in.
func FlipVertical(img *image.RGBA) []byte {
	h := img.Rect.Dy()
	row := img.Rect.Dx() * 4
	out := make([]byte, row*h)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+row]
		copy(out[(h-1-y)*row:], src)
	}
	return out
}

// Upload creates a 2D texture from a decoded image.
func Upload(dev gfx.Device, img *image.RGBA, mipmaps bool) (gfx.Texture, error) {
	return dev.CreateTexture2D(img.Rect.Dx(), img.Rect.Dy(), FlipVertical(img), mipmaps)
}

// Load decodes and uploads a 2D texture with mipmaps.
func Load(dev gfx.Device, name string, data []byte) (gfx.Texture, error) {
	img, err := Decode(name, data)
	if err != nil {
		return nil, err
	}
	tex, err := Upload(dev, img, true)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", name, err)
	}
	return tex, nil
}

// Solid creates a 1x1 texture of one color.
func Solid(dev gfx.Device, c color.RGBA) (gfx.Texture, error) {
	return dev.CreateTexture2D(1, 1, []byte{c.R, c.G, c.B, c.A}, false)
}

// CheckerImage returns a two-color checkerboard of cells x cells squares.
func CheckerImage(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	if cell == 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
