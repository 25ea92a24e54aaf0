// Package engine implements the mode-switchable screensaver animation.
//
// An Engine owns a drawable Surface, the current mode, the primary color and the
// particles of the active mode. It has no timer of its own: whatever paces frames
// calls Tick once per display refresh while the engine is active.
package engine

import (
	"math/rand"
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/termsaver/internal/draw"
)

// Surface is the drawable region the engine paints on.
// Coordinates are in surface units; Size is re-read before every frame.
type Surface interface {
	Size() (width, height int)
	Clear()
	Fade(alpha float64)
	FillPolygon(points []draw.Point, c colorful.Color)
	FillCircle(x, y, r float64, c colorful.Color)
	DrawGlyph(x, y float64, ch rune, c colorful.Color)
}

// Options configures a new Engine.
type Options struct {
	Mode  Mode
	Color *colorful.Color // Nil selects DefaultColor
	Glow  bool           // Paint a dim halo around shapes, balls and stars
	Rand  *rand.Rand     // Nil seeds from the clock
}

// Engine is the animation state machine: Inactive until Start, Active until Stop.
type Engine struct {
	surface Surface
	rng     *rand.Rand

	active bool
	seeded bool // False while active but waiting for a usable surface
	mode   Mode
	color  colorful.Color
	glow   bool

	width  float64
	height float64

	// Only the collection of the current mode is ever non-empty.
	shapes []Shape
	drops  []Drop
	balls  []Ball
	stars  []Star

	quad [4]draw.Point // Scratch corners for shapes
}

// New creates an inactive engine drawing on s. s may be nil, in which case
// the engine stays inert until SetSurface provides one.
func New(s Surface, opts Options) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	color := DefaultColor
	if opts.Color != nil {
		color = *opts.Color
	}
	mode := opts.Mode
	if !mode.Valid() {
		mode = ModeFloatingShapes
	}
	return &Engine{
		surface: s,
		rng:     rng,
		mode:    mode,
		color:   color,
		glow:    opts.Glow,
	}
}

// SetSurface replaces the drawing surface. Particles are reseeded on the next
// tick if the engine is active.
func (e *Engine) SetSurface(s Surface) {
	e.surface = s
	e.seeded = false
}

// Start activates the engine and seeds particles for the current mode.
// Calling Start on an active engine does nothing.
func (e *Engine) Start() {
	if e.active {
		return
	}
	e.active = true
	e.seed()
}

// Stop deactivates the engine, discards all particles and blanks the surface.
// Calling Stop on an inactive engine does nothing.
func (e *Engine) Stop() {
	if !e.active {
		return
	}
	e.active = false
	e.seeded = false
	e.reset()
	if e.surface != nil {
		e.surface.Clear()
	}
}

// SetMode switches the animation. While active the new mode is seeded right
// away and the previous particles are discarded; otherwise the mode is used
// by the next Start. Invalid modes are ignored.
func (e *Engine) SetMode(m Mode) {
	if !m.Valid() {
		return
	}
	e.mode = m
	if e.active {
		e.seed()
	}
}

// SetColor changes the primary color used by the color-parametric modes.
func (e *Engine) SetColor(c colorful.Color) {
	e.color = c
}

// SetGlow toggles the halo effect.
func (e *Engine) SetGlow(on bool) {
	e.glow = on
}

// Active reports whether the engine is running.
func (e *Engine) Active() bool { return e.active }

// Mode returns the current mode.
func (e *Engine) Mode() Mode { return e.mode }

// Color returns the primary color.
func (e *Engine) Color() colorful.Color { return e.color }

// Glow reports whether halos are painted.
func (e *Engine) Glow() bool { return e.glow }

// Len returns the number of particles of the current mode.
func (e *Engine) Len() int {
	return len(e.shapes) + len(e.drops) + len(e.balls) + len(e.stars)
}

// Shapes returns a copy of the floating-shapes particles.
func (e *Engine) Shapes() []Shape { return slices.Clone(e.shapes) }

// Drops returns a copy of the matrix-rain columns.
func (e *Engine) Drops() []Drop { return slices.Clone(e.drops) }

// Balls returns a copy of the bouncing balls.
func (e *Engine) Balls() []Ball { return slices.Clone(e.balls) }

// Stars returns a copy of the starfield stars.
func (e *Engine) Stars() []Star { return slices.Clone(e.stars) }

// Tick advances the active mode by one step and repaints the surface.
// It does nothing while inactive or while the surface has no drawable area.
func (e *Engine) Tick() {
	if !e.active || !e.measure() {
		return
	}
	if !e.seeded {
		e.seed()
	}
	e.update()
	e.draw()
}

// measure re-reads the surface size. Reports false when nothing can be drawn.
func (e *Engine) measure() bool {
	if e.surface == nil {
		e.width, e.height = 0, 0
		return false
	}
	w, h := e.surface.Size()
	if w <= 0 || h <= 0 {
		e.width, e.height = 0, 0
		return false
	}
	e.width, e.height = float64(w), float64(h)
	return true
}

func (e *Engine) reset() {
	e.shapes = e.shapes[:0]
	e.drops = e.drops[:0]
	e.balls = e.balls[:0]
	e.stars = e.stars[:0]
}

// seed discards every collection and populates the current mode. Seeding is
// deferred to the first tick when the surface is unusable.
func (e *Engine) seed() {
	e.reset()
	if !e.measure() {
		e.seeded = false
		return
	}
	if e.surface != nil {
		e.surface.Clear()
	}

	switch e.mode {
	case ModeFloatingShapes:
		e.seedShapes()
	case ModeMatrixRain:
		e.seedDrops()
	case ModeBouncingBalls:
		e.seedBalls()
	case ModeStarfield:
		e.seedStars()
	}
	e.seeded = true
}

func (e *Engine) update() {
	switch e.mode {
	case ModeFloatingShapes:
		e.updateShapes()
	case ModeMatrixRain:
		e.updateDrops()
	case ModeBouncingBalls:
		e.updateBalls()
	case ModeStarfield:
		e.updateStars()
	}
}

// draw paints the current state. Every mode starts from a blank surface except
// matrix rain, which fades the previous frame to leave trails.
func (e *Engine) draw() {
	if e.mode == ModeMatrixRain {
		e.surface.Fade(RainFade)
	} else {
		e.surface.Clear()
	}

	switch e.mode {
	case ModeFloatingShapes:
		e.drawShapes()
	case ModeMatrixRain:
		e.drawDrops()
	case ModeBouncingBalls:
		e.drawBalls()
	case ModeStarfield:
		e.drawStars()
	}
}

// between returns a random value in [lo, hi).
func (e *Engine) between(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}
