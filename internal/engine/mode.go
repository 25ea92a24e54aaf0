package engine

import (
	"fmt"
	"strings"
)

// Mode selects one self-contained animation variant.
type Mode int

const (
	ModeFloatingShapes Mode = iota // Rotating squares drifting and bouncing
	ModeMatrixRain                 // Falling katakana columns with trails
	ModeBouncingBalls              // Colored balls bouncing off the edges
	ModeStarfield                  // Stars flying towards the viewer

	modeCount
)

var modeNames = [modeCount]string{
	ModeFloatingShapes: "floating-shapes",
	ModeMatrixRain:     "matrix-rain",
	ModeBouncingBalls:  "bouncing-balls",
	ModeStarfield:      "starfield",
}

// String returns the mode tag.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Next returns the following mode, wrapping around after the last one.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// Prev returns the preceding mode, wrapping around before the first one.
func (m Mode) Prev() Mode {
	return (m + modeCount - 1) % modeCount
}

// SeedCount returns how many particles the mode seeds on a surface of the given width.
func (m Mode) SeedCount(width int) int {
	switch m {
	case ModeFloatingShapes:
		return ShapeCount
	case ModeMatrixRain:
		return max(width, 0) / ColumnWidth
	case ModeBouncingBalls:
		return BallCount
	case ModeStarfield:
		return StarCount
	}
	return 0
}

// Modes returns all modes in selection order.
func Modes() []Mode {
	modes := make([]Mode, 0, modeCount)
	for m := Mode(0); m < modeCount; m++ {
		modes = append(modes, m)
	}
	return modes
}

// ParseMode converts a mode tag such as "matrix-rain" to a Mode.
// Underscores and case are tolerated.
func ParseMode(tag string) (Mode, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), "_", "-")
	for m, name := range modeNames {
		if name == norm {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, tag)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
