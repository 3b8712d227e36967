package indicator

import (
	"math"

	"github.com/matt-g-everett/bubbletx/util"
)

const (
	// Dimmest and smallest a bubble gets in the steady state.
	minOpacity = 0.3
	minScale   = 0.5

	// Resolution of the steady state phase, in seconds. Times a whole number
	// of loops apart land on the same phase and draw the same pixels.
	phaseStep = 1e-6
)

// Bubble is the state of one bubble at an instant. Coordinates are in units
// relative to the center of the indicator, with y growing downwards.
type Bubble struct {
	Index   int
	X       float64
	Y       float64
	Radius  float64
	Opacity float64
}

// Bubbles computes the state of every bubble at time t (seconds since the
// animation started). It depends on nothing but the indicator and t.
func (ind *Indicator) Bubbles(t float64) []Bubble {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}

	envelope := util.FadeIn(t, ind.timing.LoopStartTime)
	loop := ind.steadyPhase(t) / ind.timing.LoopDuration

	rotation := 0.0
	if ind.style == Beta {
		rotation = 2 * math.Pi * loop
	}

	ring := ind.ringRadius()
	bubbles := make([]Bubble, NumBubbles)
	for i := range bubbles {
		slot := float64(i) / NumBubbles
		gain := util.Pulse(loop - slot)

		scale := 1.0
		if ind.style == Modern {
			scale = minScale + (1-minScale)*gain
		}

		// Slot 0 sits at twelve o'clock, the rest follow clockwise.
		angle := -math.Pi/2 + 2*math.Pi*slot + rotation
		bubbles[i] = Bubble{
			Index:   i,
			X:       ring * math.Cos(angle),
			Y:       ring * math.Sin(angle),
			Radius:  ind.radius * scale,
			Opacity: envelope * (minOpacity + (1-minOpacity)*gain),
		}
	}

	return bubbles
}

// steadyPhase is the time since the start of the current loop. Before
// LoopStartTime it runs backwards from the first loop, so the fade in blends
// into it without a jump.
//
// t is reduced modulo the loop before anything is added to it, which is
// exact, so only the caller's own rounding of t can break periodicity.
func (ind *Indicator) steadyPhase(t float64) float64 {
	duration := ind.timing.LoopDuration
	p := util.Wrap(util.Wrap(t, duration)-util.Wrap(ind.timing.LoopStartTime, duration), duration)
	p = util.Quantize(p, phaseStep)
	if p >= duration {
		p = 0
	}
	return p
}
