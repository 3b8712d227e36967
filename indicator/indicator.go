// Package indicator renders an Apple Watch style activity indicator, a ring
// of pulsing bubbles, procedurally at run time and bakes its looped part
// into an animated image.
package indicator

import (
	"image"
	"math"

	"github.com/matt-g-everett/bubbletx/util"
)

const (
	// DefaultBubbleRadius is the radius of a single bubble when none is
	// given. Apple Watch seems to be using 4.
	DefaultBubbleRadius = 4.0

	// MinBubbleRadius and MaxBubbleRadius bound the radius of a bubble.
	MinBubbleRadius = 0.5
	MaxBubbleRadius = 128.0

	// DefaultScale is the number of pixels per unit.
	DefaultScale = 2.0

	// MaxScale bounds the pixel density.
	MaxScale = 8.0

	// DefaultFrameRate is the frame rate of AnimatedImage.
	DefaultFrameRate = 30.0

	// MaxFrameRate bounds the number of frames baked per second of loop.
	MaxFrameRate = 120.0

	// MaxImageSide bounds the side of a frame in pixels. Larger indicators
	// are drawn at a lower scale.
	MaxImageSide = 512

	// MaxImagePixels bounds the pixels of all the frames of one animated
	// image.
	MaxImagePixels = 16 << 20

	// NumBubbles is the number of bubble slots on the ring.
	NumBubbles = 8

	// Distance from the center to the center of a bubble, in bubble radii.
	ringRadiusFactor = 3.0

	// Precision of the visual parameters. Configs that agree at this
	// precision share a cache key and render the same pixels.
	colorStep  = 0.001
	radiusStep = 0.01
	scaleStep  = 0.01
	rateStep   = 0.01
)

// Config describes how an indicator looks.
type Config struct {
	Style        Style   `yaml:"style"`
	Color        Color   `yaml:"color"`
	BubbleRadius float64 `yaml:"bubbleRadius"`
	Scale        float64 `yaml:"scale"`
}

// An Indicator draws the frames of one configuration. It holds no mutable
// state and is safe for concurrent use.
type Indicator struct {
	style  Style
	color  Color
	radius float64
	scale  float64
	timing Timing
}

// New creates an Indicator. A zero Style, BubbleRadius or Scale takes its
// default; the colour is used as given.
func New(cfg Config) *Indicator {
	cfg = cfg.Resolved()

	ind := new(Indicator)
	ind.style = cfg.Style
	ind.color = cfg.Color
	ind.radius = cfg.BubbleRadius
	ind.scale = cfg.Scale
	ind.timing = ind.style.timing()
	return ind
}

// Resolved returns the configuration that is actually drawn: defaults filled
// in, out of range values clamped, and every parameter rounded to the
// precision the cache key carries.
func (cfg Config) Resolved() Config {
	style := cfg.Style
	if _, ok := timings[style]; !ok {
		style = DefaultStyle
	}

	c := cfg.Color.Clamped()
	c.R = util.Quantize(c.R, colorStep)
	c.G = util.Quantize(c.G, colorStep)
	c.B = util.Quantize(c.B, colorStep)
	c.Alpha = util.Quantize(c.Alpha, colorStep)

	radius := util.Quantize(ResolveBubbleRadius(cfg.BubbleRadius), radiusStep)
	return Config{
		Style:        style,
		Color:        c,
		BubbleRadius: radius,
		Scale:        util.Quantize(fitScale(ResolveScale(cfg.Scale), radius), scaleStep),
	}
}

// fitScale lowers scale until a frame of an indicator with bubbles of
// radius fits in MaxImageSide.
func fitScale(scale float64, radius float64) float64 {
	size := 2 * (ringRadiusFactor + 1) * radius
	most := math.Floor(MaxImageSide/size/scaleStep+1e-9) * scaleStep
	return math.Min(scale, most)
}

// NewWithColor creates an Indicator of the default style.
func NewWithColor(color Color, bubbleRadius float64) *Indicator {
	return New(Config{Style: DefaultStyle, Color: color, BubbleRadius: bubbleRadius})
}

// ResolveBubbleRadius maps a requested radius onto the one actually drawn.
// Zero, negative and non-finite values mean DefaultBubbleRadius.
func ResolveBubbleRadius(r float64) float64 {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return DefaultBubbleRadius
	}
	return util.Clamp(r, MinBubbleRadius, MaxBubbleRadius)
}

// ResolveScale maps a requested pixel density onto the one actually used.
func ResolveScale(s float64) float64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return DefaultScale
	}
	return math.Min(s, MaxScale)
}

// ResolveFrameRate maps a requested frame rate onto the one actually used.
func ResolveFrameRate(r float64) float64 {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return DefaultFrameRate
	}
	r = util.Quantize(math.Min(r, MaxFrameRate), rateStep)
	if r <= 0 {
		return DefaultFrameRate
	}
	return r
}

func (ind *Indicator) Style() Style          { return ind.style }
func (ind *Indicator) Color() Color          { return ind.color }
func (ind *Indicator) BubbleRadius() float64 { return ind.radius }
func (ind *Indicator) Scale() float64        { return ind.scale }

// Config returns the resolved configuration of the indicator.
func (ind *Indicator) Config() Config {
	return Config{Style: ind.style, Color: ind.color, BubbleRadius: ind.radius, Scale: ind.scale}
}

// LoopStartTime is the time the looped part of the animation begins, right
// after the bubbles have faded in.
func (ind *Indicator) LoopStartTime() float64 {
	return ind.timing.LoopStartTime
}

// LoopDuration is how long a single looped part of the animation lasts.
func (ind *Indicator) LoopDuration() float64 {
	return ind.timing.LoopDuration
}

// Size is the side of the minimal square, in units, safely enclosing the
// whole animation.
func (ind *Indicator) Size() float64 {
	return 2 * (ind.ringRadius() + ind.radius)
}

// Bounds is the pixel rectangle a frame is drawn into.
func (ind *Indicator) Bounds() image.Rectangle {
	side := int(math.Ceil(ind.Size()*ind.scale - 1e-9))
	return image.Rect(0, 0, side, side)
}

func (ind *Indicator) ringRadius() float64 {
	return ind.radius * ringRadiusFactor
}
