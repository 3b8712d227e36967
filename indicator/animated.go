package indicator

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// An AnimatedImage is the looped part of an animation baked into frames that
// are each shown for FrameDuration seconds, repeating forever.
type AnimatedImage struct {
	Frames        []*image.RGBA
	FrameDuration float64
	Color         Color
}

// AnimatedImageForFrameRate bakes the looped part of the animation at
// frameRate frames per second.
func (ind *Indicator) AnimatedImageForFrameRate(frameRate float64) *AnimatedImage {
	r := ResolveFrameRate(frameRate)
	return &AnimatedImage{
		Frames:        ind.Frames(r),
		FrameDuration: 1 / r,
		Color:         ind.color,
	}
}

// AnimatedImage bakes the looped part of the animation at DefaultFrameRate.
func (ind *Indicator) AnimatedImage() *AnimatedImage {
	return ind.AnimatedImageForFrameRate(DefaultFrameRate)
}

// AnimatedImageFor bakes an indicator of the default style in one go.
func AnimatedImageFor(c Color, bubbleRadius float64) *AnimatedImage {
	return NewWithColor(c, bubbleRadius).AnimatedImage()
}

// Duration is the length of one loop of the image in seconds.
func (a *AnimatedImage) Duration() float64 {
	return float64(len(a.Frames)) * a.FrameDuration
}

// Delay is the frame duration in hundredths of a second, the unit GIF uses.
func (a *AnimatedImage) Delay() int {
	d := int(math.Round(a.FrameDuration * 100))
	if d < 1 {
		d = 1
	}
	return d
}

// GIF converts the image to a looping GIF with the bubbles flattened onto
// background. Pixels no bubble touches stay transparent.
func (a *AnimatedImage) GIF(background colorful.Color) *gif.GIF {
	pal := a.palette(background)

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(a.Frames)),
		Delay:     make([]int, len(a.Frames)),
		Disposal:  make([]byte, len(a.Frames)),
		LoopCount: 0,
	}

	delay := a.Delay()
	for i, f := range a.Frames {
		g.Image[i] = toPaletted(f, pal)
		g.Delay[i] = delay
		g.Disposal[i] = gif.DisposalBackground
	}

	if len(a.Frames) > 0 {
		b := a.Frames[0].Bounds()
		g.Config = image.Config{ColorModel: pal, Width: b.Dx(), Height: b.Dy()}
	}

	return g
}

// EncodeGIF writes the image to w as a looping GIF.
func (a *AnimatedImage) EncodeGIF(w io.Writer, background colorful.Color) error {
	if len(a.Frames) == 0 {
		return fmt.Errorf("encode gif: no frames")
	}
	if err := gif.EncodeAll(w, a.GIF(background)); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// Every pixel of a frame is the bubble colour at some coverage, so the
// palette is indexed by alpha: 0 is transparent and i is the colour blended
// over the background at i/255.
func (a *AnimatedImage) palette(background colorful.Color) color.Palette {
	pal := make(color.Palette, 256)
	pal[0] = color.RGBA{}
	for i := 1; i < len(pal); i++ {
		r, g, b := background.BlendRgb(a.Color.Color, float64(i)/255).Clamped().RGB255()
		pal[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return pal
}

func toPaletted(f *image.RGBA, pal color.Palette) *image.Paletted {
	b := f.Bounds()
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	for y := 0; y < b.Dy(); y++ {
		src := f.Pix[f.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := pm.Pix[pm.PixOffset(0, y):]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4+3]
		}
	}
	return pm
}
