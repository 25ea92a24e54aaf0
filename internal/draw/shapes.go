package draw

import "math"

// RotatedSquare writes the four corners of a square of the given side length,
// centered at (cx, cy) and rotated by angle radians, into dst.
// dst must have length 4.
func RotatedSquare(dst []Point, cx, cy, side, angle float64) {
	half := side / 2
	sin, cos := math.Sincos(angle)
	corners := [4]Point{{-half, -half}, {half, -half}, {half, half}, {-half, half}}
	for i, p := range corners {
		dst[i] = Point{
			X: cx + p.X*cos - p.Y*sin,
			Y: cy + p.X*sin + p.Y*cos,
		}
	}
}
