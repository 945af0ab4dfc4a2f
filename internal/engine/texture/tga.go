package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != tgaTrueColor && imageType != tgaTrueColorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		src:         data[18+idLength:],
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		stride:      bpp / 8,
		topToBottom: topToBottom,
	}

	var err error
	if imageType == tgaTrueColor {
		err = d.raw(width * height)
	} else {
		err = d.rle(width * height)
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	src         []byte
	pos         int
	img         *image.RGBA
	stride      int
	topToBottom bool
	written     int
}

// pixel reads one BGR(A) pixel.
func (d *tgaDecoder) pixel() ([4]byte, error) {
	if d.pos+d.stride > len(d.src) {
		return [4]byte{}, errTGATruncated
	}
	p := d.src[d.pos:]
	d.pos += d.stride
	a := byte(255)
	if d.stride == 4 {
		a = p[3]
	}
	return [4]byte{p[2], p[1], p[0], a}, nil
}

// put stores the next pixel in file order, which is bottom row first
// unless the descriptor says otherwise.
func (d *tgaDecoder) put(c [4]byte) {
	w := d.img.Rect.Dx()
	h := d.img.Rect.Dy()
	x, y := d.written%w, d.written/w
	if !d.topToBottom {
		y = h - 1 - y
	}
	copy(d.img.Pix[d.img.PixOffset(x, y):], c[:])
	d.written++
}

func (d *tgaDecoder) raw(count int) error {
	for d.written < count {
		c, err := d.pixel()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle(count int) error {
	for d.written < count {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		header := d.src[d.pos]
		d.pos++
		run := int(header&0x7f) + 1

		if header&0x80 != 0 {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			for i := 0; i < run && d.written < count; i++ {
				d.put(c)
			}
			continue
		}
		for i := 0; i < run && d.written < count; i++ {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			d.put(c)
		}
	}
	return nil
}
