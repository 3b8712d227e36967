package indicator

import (
	"fmt"
	"strings"
)

// Style selects how the bubbles of an indicator move.
type Style int

const (
	// Modern bubbles stay in place and only pulse, like the indicator in
	// current versions of watchOS.
	Modern Style = iota

	// Beta bubbles rotate around the center, like the indicator shown in the
	// early watchOS betas.
	Beta

	// DefaultStyle is used when no style is given.
	DefaultStyle = Modern
)

func (s Style) String() string {
	switch s {
	case Modern:
		return "modern"
	case Beta:
		return "beta"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle parses a style name. An empty name means DefaultStyle.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultStyle, nil
	case "modern":
		return Modern, nil
	case "beta":
		return Beta, nil
	default:
		return DefaultStyle, fmt.Errorf("unknown style %q", name)
	}
}

// UnmarshalYAML decodes a style from its name.
func (s *Style) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseStyle(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML encodes a style as its name.
func (s Style) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Timing splits an animation into its one-shot fade in and the looped part
// that follows it.
type Timing struct {
	LoopStartTime float64
	LoopDuration  float64
}

var timings = map[Style]Timing{
	Modern: {LoopStartTime: 0.5, LoopDuration: 1.0},
	// One full revolution per loop keeps the rotation seamless.
	Beta: {LoopStartTime: 0.5, LoopDuration: 1.5},
}

func (s Style) timing() Timing {
	if t, ok := timings[s]; ok {
		return t
	}
	return timings[DefaultStyle]
}
