package engine

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/termsaver/internal/draw"
	"github.com/tomz197/termsaver/internal/physics"
)

// Seed counts and tuning of the four modes.
const (
	ShapeCount = 20
	BallCount  = 15
	StarCount  = 200

	ColumnWidth = 20     // Horizontal spacing of matrix-rain columns
	GlyphBase   = 0x30A0 // First code point of the matrix-rain glyph range
	GlyphRange  = 96     // Number of code points in the glyph range
	DropResetY  = -20.0  // Where a column restarts after leaving the bottom
	RainFade    = 0.05   // Opacity of the black layer painted over each rain frame

	StarDepth       = 1000.0 // Depth a star restarts from, also the focal length
	StarMaxSize     = 3.0    // Radius of a star at the viewer
	glowScale       = 1.35   // Halo size relative to the particle
	glowBrightness  = 0.3    // Halo color relative to the particle
	starGlowMinSize = 1.0
)

// Shape is a rotating square in floating-shapes mode.
type Shape struct {
	X, Y          float64
	Size          float64
	VX, VY        float64
	Rotation      float64
	RotationSpeed float64
}

// Drop is one matrix-rain column.
type Drop struct {
	X, Y  float64
	Speed float64
	Glyph rune
}

// Ball is a bouncing ball with its own color.
type Ball struct {
	X, Y   float64
	Radius float64
	VX, VY float64
	Color  colorful.Color
}

// Star is a point in the starfield; Z is its distance from the viewer.
type Star struct {
	X, Y, Z float64
	Speed   float64
}

// Projected returns the star's screen position and radius on a surface of
// the given size. Z must be positive.
func (s Star) Projected(width, height float64) (x, y, size float64) {
	cx, cy := width/2, height/2
	x = physics.Project(s.X, cx, StarDepth, s.Z)
	y = physics.Project(s.Y, cy, StarDepth, s.Z)
	size = (StarDepth - s.Z) / StarDepth * StarMaxSize
	return x, y, size
}

// ===== floating shapes =====

func (e *Engine) seedShapes() {
	for range ShapeCount {
		e.shapes = append(e.shapes, Shape{
			X:             e.rng.Float64() * e.width,
			Y:             e.rng.Float64() * e.height,
			Size:          e.between(10, 40),
			VX:            e.between(-1, 1),
			VY:            e.between(-1, 1),
			RotationSpeed: e.between(-0.05, 0.05),
		})
	}
}

func (e *Engine) updateShapes() {
	for i := range e.shapes {
		s := &e.shapes[i]
		s.X += s.VX
		s.Y += s.VY
		s.Rotation += s.RotationSpeed

		physics.ReflectAxis(s.X, &s.VX, 0, e.width)
		physics.ReflectAxis(s.Y, &s.VY, 0, e.height)
	}
}

func (e *Engine) drawShapes() {
	halo := draw.Dim(e.color, glowBrightness)
	for _, s := range e.shapes {
		if e.glow {
			draw.RotatedSquare(e.quad[:], s.X, s.Y, s.Size*glowScale, s.Rotation)
			e.surface.FillPolygon(e.quad[:], halo)
		}
		draw.RotatedSquare(e.quad[:], s.X, s.Y, s.Size, s.Rotation)
		e.surface.FillPolygon(e.quad[:], e.color)
	}
}

// ===== matrix rain =====

func (e *Engine) seedDrops() {
	columns := ModeMatrixRain.SeedCount(int(e.width))
	for i := range columns {
		e.drops = append(e.drops, Drop{
			X:     float64(i * ColumnWidth),
			Y:     e.rng.Float64() * e.height,
			Speed: e.between(1, 4),
			Glyph: e.randomGlyph(),
		})
	}
}

func (e *Engine) randomGlyph() rune {
	return rune(GlyphBase + e.rng.Intn(GlyphRange))
}

func (e *Engine) updateDrops() {
	for i := range e.drops {
		d := &e.drops[i]
		d.Y += d.Speed
		if d.Y > e.height {
			d.Y = DropResetY
			d.Glyph = e.randomGlyph()
		}
	}
}

func (e *Engine) drawDrops() {
	for _, d := range e.drops {
		e.surface.DrawGlyph(d.X, d.Y, d.Glyph, e.color)
	}
}

// ===== bouncing balls =====

func (e *Engine) seedBalls() {
	for range BallCount {
		r := e.between(10, 30)
		// Balls start fully inside.
		e.balls = append(e.balls, Ball{
			X:      e.between(r, max(e.width-r, r)),
			Y:      e.between(r, max(e.height-r, r)),
			Radius: r,
			VX:     e.between(-4, 4),
			VY:     e.between(-4, 4),
			Color:  Palette[e.rng.Intn(len(Palette))],
		})
	}
}

func (e *Engine) updateBalls() {
	for i := range e.balls {
		b := &e.balls[i]
		b.X += b.VX
		b.Y += b.VY

		physics.ReflectAxis(b.X, &b.VX, b.Radius, e.width-b.Radius)
		physics.ReflectAxis(b.Y, &b.VY, b.Radius, e.height-b.Radius)
	}
}

func (e *Engine) drawBalls() {
	for _, b := range e.balls {
		if e.glow {
			e.surface.FillCircle(b.X, b.Y, b.Radius*glowScale, draw.Dim(b.Color, glowBrightness))
		}
		e.surface.FillCircle(b.X, b.Y, b.Radius, b.Color)
	}
}

// ===== starfield =====

func (e *Engine) seedStars() {
	for range StarCount {
		e.stars = append(e.stars, Star{
			X:     e.rng.Float64() * e.width,
			Y:     e.rng.Float64() * e.height,
			Z:     e.rng.Float64() * StarDepth,
			Speed: e.between(1, 3),
		})
	}
}

func (e *Engine) updateStars() {
	for i := range e.stars {
		s := &e.stars[i]
		s.Z -= s.Speed
		if s.Z <= 0 {
			s.X = e.rng.Float64() * e.width
			s.Y = e.rng.Float64() * e.height
			s.Z = StarDepth
		}
	}
}

func (e *Engine) drawStars() {
	halo := draw.Dim(e.color, glowBrightness)
	for _, s := range e.stars {
		x, y, size := s.Projected(e.width, e.height)
		if e.glow && size > starGlowMinSize {
			e.surface.FillCircle(x, y, size*2, halo)
		}
		e.surface.FillCircle(x, y, size, e.color)
	}
}
