package stream

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Frame is one picture of an animation as sent to a surface.
type Frame struct {
	*image.RGBA
}

// NewFrame creates a transparent Frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// InterpolateFrame merges two frames of the same size. At 0 the result is f,
// at 1 it is f2. Colours are blended straight, not premultiplied, so a
// bubble fading in or out keeps its colour.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(f.Rect.Dx(), f.Rect.Dy())
	x := math.Max(0, math.Min(1, transitionPoint))
	for i := 0; i+3 < len(out.Pix); i += 4 {
		c1, a1 := pixelColor(f.Pix[i : i+4])
		c2, a2 := pixelColor(f2.Pix[i : i+4])

		// A transparent pixel has no colour of its own.
		if a1 == 0 {
			c1 = c2
		}
		if a2 == 0 {
			c2 = c1
		}

		c := c1.BlendRgb(c2, x).Clamped()
		a := a1 + (a2-a1)*x
		out.Pix[i+0] = uint8(math.Round(c.R * a * 255))
		out.Pix[i+1] = uint8(math.Round(c.G * a * 255))
		out.Pix[i+2] = uint8(math.Round(c.B * a * 255))
		out.Pix[i+3] = uint8(math.Round(a * 255))
	}

	return out
}

// pixelColor splits a premultiplied RGBA pixel into its colour and alpha.
func pixelColor(px []uint8) (colorful.Color, float64) {
	if px[3] == 0 {
		return colorful.Color{}, 0
	}
	a := float64(px[3])
	return colorful.Color{R: float64(px[0]) / a, G: float64(px[1]) / a, B: float64(px[2]) / a}, a / 255
}

// MarshalBinary converts a Frame into binary data: little endian uint16
// width and height followed by the premultiplied RGBA pixels, row by row.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	w, h := f.Rect.Dx(), f.Rect.Dy()
	if w > math.MaxUint16 || h > math.MaxUint16 {
		return nil, fmt.Errorf("frame of %dx%d is too large", w, h)
	}

	data = make([]byte, 4, 4+w*h*4)
	binary.LittleEndian.PutUint16(data[0:], uint16(w))
	binary.LittleEndian.PutUint16(data[2:], uint16(h))
	for y := 0; y < h; y++ {
		i := f.PixOffset(f.Rect.Min.X, f.Rect.Min.Y+y)
		data = append(data, f.Pix[i:i+w*4]...)
	}

	return data, nil
}
