package util

import (
	"math"

	"github.com/fogleman/ease"
)

// Pulse maps a phase onto a gain that eases from 0 up to 1 at the middle of
// the period and back down to 0 at its end. The phase wraps at 1.
func Pulse(phase float64) float64 {
	phase = Wrap(phase, 1)
	value := phase * 2
	if phase >= 0.5 {
		value = (1 - phase) * 2
	}
	return ease.InOutQuad(value)
}

// FadeIn is the one-shot envelope for the start of an animation: 0 at t=0,
// 1 from duration onwards.
func FadeIn(t float64, duration float64) float64 {
	if duration <= 0 || t >= duration {
		return 1
	}
	if t <= 0 || math.IsNaN(t) {
		return 0
	}
	return ease.OutQuad(t / duration)
}

// Wrap returns x modulo period, always in [0, period).
func Wrap(x float64, period float64) float64 {
	m := math.Mod(x, period)
	if m < 0 {
		m += period
	}
	if m >= period {
		m = 0
	}
	return m
}

// Quantize rounds x to the nearest multiple of step.
func Quantize(x float64, step float64) float64 {
	// Adding zero turns -0 into +0 so formatted values stay stable.
	return math.Round(x/step)*step + 0
}

func Clamp(x float64, min float64, max float64) float64 {
	return math.Max(min, math.Min(max, x))
}
