// Package draw provides the terminal drawing surface and output helpers.
package draw

import "github.com/lucasb-eyer/go-colorful"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// litThreshold is the summed channel value below which a color counts as black.
const litThreshold = 0.02

// Lit reports whether a color is bright enough to be drawn.
func Lit(c colorful.Color) bool {
	return c.R+c.G+c.B > litThreshold
}

// Dim returns c scaled towards black by factor (0 = black, 1 = unchanged).
func Dim(c colorful.Color, factor float64) colorful.Color {
	return scale(c, factor)
}

func scale(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
