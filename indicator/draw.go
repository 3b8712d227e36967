package indicator

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Control point distance for approximating a quarter circle with a cubic
// Bézier curve.
const kappa = 0.5522847498307936

// NewFrame allocates a transparent canvas of the indicator's pixel bounds.
func (ind *Indicator) NewFrame() *image.RGBA {
	return image.NewRGBA(ind.Bounds())
}

// DrawForTime draws the animation at time t over dst, centered in dst's
// bounds. The bubbles are composited over what dst already holds; draw onto
// a cleared canvas to get a single frame.
func (ind *Indicator) DrawForTime(dst draw.Image, t float64) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}

	w, h := b.Dx(), b.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	r, g, bl := ind.color.RGB255()

	z := vector.NewRasterizer(w, h)
	for _, bubble := range ind.Bubbles(t) {
		alpha := uint8(math.Round(255 * ind.color.Alpha * bubble.Opacity))
		if alpha == 0 || bubble.Radius <= 0 {
			continue
		}

		z.Reset(w, h)
		addCircle(z, cx+bubble.X*ind.scale, cy+bubble.Y*ind.scale, bubble.Radius*ind.scale)
		z.Draw(dst, b, image.NewUniform(color.NRGBA{R: r, G: g, B: bl, A: alpha}), image.Point{})
	}
}

func addCircle(z *vector.Rasterizer, cx, cy, r float64) {
	k := r * kappa
	z.MoveTo(f32(cx+r), f32(cy))
	z.CubeTo(f32(cx+r), f32(cy+k), f32(cx+k), f32(cy+r), f32(cx), f32(cy+r))
	z.CubeTo(f32(cx-k), f32(cy+r), f32(cx-r), f32(cy+k), f32(cx-r), f32(cy))
	z.CubeTo(f32(cx-r), f32(cy-k), f32(cx-k), f32(cy-r), f32(cx), f32(cy-r))
	z.CubeTo(f32(cx+k), f32(cy-r), f32(cx+r), f32(cy-k), f32(cx+r), f32(cy))
	z.ClosePath()
}

func f32(v float64) float32 {
	return float32(v)
}
