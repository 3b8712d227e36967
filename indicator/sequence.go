package indicator

import (
	"image"
	"math"
)

// FrameCount is the number of frames the looped part takes at frameRate.
func (ind *Indicator) FrameCount(frameRate float64) int {
	r := ResolveFrameRate(frameRate)
	// Allow for the error in products like 0.1*30.
	n := int(math.Ceil(ind.timing.LoopDuration*r - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

// ImagePixels is the number of pixels rendered for the looped part of the
// animation at frameRate.
func (ind *Indicator) ImagePixels(frameRate float64) int {
	b := ind.Bounds()
	return b.Dx() * b.Dy() * ind.FrameCount(frameRate)
}

// Timestamps returns evenly spaced times within
// [LoopStartTime, LoopStartTime+LoopDuration). The end of the loop is never
// sampled, since it is the same instant as its start.
func (ind *Indicator) Timestamps(frameRate float64) []float64 {
	r := ResolveFrameRate(frameRate)
	ts := make([]float64, ind.FrameCount(r))
	for k := range ts {
		ts[k] = ind.timing.LoopStartTime + float64(k)/r
	}
	return ts
}

// Frames renders the looped part of the animation at frameRate, in order.
func (ind *Indicator) Frames(frameRate float64) []*image.RGBA {
	ts := ind.Timestamps(frameRate)
	frames := make([]*image.RGBA, len(ts))
	for i, t := range ts {
		f := ind.NewFrame()
		ind.DrawForTime(f, t)
		frames[i] = f
	}
	return frames
}
