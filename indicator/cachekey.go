package indicator

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const cacheKeyPrefix = "bubbles/v1"

// CacheKey identifies the animation of an indicator by its style, colour and
// bubble radius. The values are resolved the same way New resolves them, so
// a radius of 0 and an explicit DefaultBubbleRadius share a key.
func CacheKey(style Style, color Color, bubbleRadius float64) string {
	cfg := Config{Style: style, Color: color, BubbleRadius: bubbleRadius}.Resolved()
	c := cfg.Color

	var sb strings.Builder
	sb.WriteString(cacheKeyPrefix)
	sb.WriteByte('/')
	sb.WriteString(cfg.Style.String())
	sb.WriteByte('/')
	sb.WriteString(formatFixed(c.R, 3))
	sb.WriteByte(',')
	sb.WriteString(formatFixed(c.G, 3))
	sb.WriteByte(',')
	sb.WriteString(formatFixed(c.B, 3))
	sb.WriteByte(',')
	sb.WriteString(formatFixed(c.Alpha, 3))
	sb.WriteByte('/')
	sb.WriteString(formatFixed(cfg.BubbleRadius, 2))
	return sb.String()
}

// CacheKey identifies the animation of the indicator.
func (ind *Indicator) CacheKey() string {
	return CacheKey(ind.style, ind.color, ind.radius)
}

// ImageKey identifies the bytes of an encoded animated image: the animation
// plus the frame rate, pixel density and background it was baked with.
func (ind *Indicator) ImageKey(frameRate float64, background colorful.Color) string {
	return ind.CacheKey() +
		"@" + formatFixed(ResolveFrameRate(frameRate), 2) + "fps" +
		"/x" + formatFixed(ind.scale, 2) +
		"/" + background.Clamped().Hex()
}

func formatFixed(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
