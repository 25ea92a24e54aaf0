// Package physics provides the boundary and projection rules shared by the animations.
package physics

// ReflectAxis bounces a particle on one axis: the velocity component negates
// when pos lies outside [lo, hi] and the particle is still moving away from
// the range. The position itself is not clamped, so a particle may overshoot
// by up to one step before it turns around. A particle left outside by a
// shrinking range keeps heading back in.
// Reports whether a reflection happened.
func ReflectAxis(pos float64, vel *float64, lo, hi float64) bool {
	if (pos < lo && *vel < 0) || (pos > hi && *vel > 0) {
		*vel = -*vel
		return true
	}
	return false
}

// Project applies a pinhole perspective to one coordinate: the offset from
// center is scaled by focal/depth. depth must be positive.
func Project(raw, center, focal, depth float64) float64 {
	return (raw-center)*(focal/depth) + center
}
