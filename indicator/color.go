package indicator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is the colour of the bubbles, with an alpha channel in [0, 1].
type Color struct {
	colorful.Color
	Alpha float64
}

// White is the default bubble colour.
var White = Color{Color: colorful.Color{R: 1, G: 1, B: 1}, Alpha: 1}

// RGBA255 builds a Color from 8-bit channels and an alpha in [0, 1].
func RGBA255(r, g, b uint8, alpha float64) Color {
	return Color{
		Color: colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0},
		Alpha: alpha,
	}
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	switch len(s) {
	case 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color{Color: c, Alpha: 1}, nil
	case 9:
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color{Color: c, Alpha: float64(a) / 255.0}, nil
	default:
		return Color{}, fmt.Errorf("parse color %q: want #rrggbb or #rrggbbaa", s)
	}
}

// Clamped returns the colour with every channel, alpha included, forced into
// [0, 1]. NaN channels become 0.
func (c Color) Clamped() Color {
	return Color{
		Color: colorful.Color{R: clampUnit(c.R), G: clampUnit(c.G), B: clampUnit(c.B)},
		Alpha: clampUnit(c.Alpha),
	}
}

// Hex formats the colour as "#rrggbbaa".
func (c Color) Hex() string {
	c = c.Clamped()
	return fmt.Sprintf("%s%02x", c.Color.Hex(), uint8(math.Round(c.Alpha*255)))
}

// UnmarshalYAML decodes a colour from its hex form.
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
