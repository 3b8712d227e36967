package stream

import (
	"image"
	"image/draw"
)

// An Animation draws itself for any instant. *indicator.Indicator is one.
type Animation interface {
	DrawForTime(dst draw.Image, t float64)
	Bounds() image.Rectangle
}
