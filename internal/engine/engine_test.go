package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/termsaver/internal/draw"
)

type fakeSurface struct {
	width, height int
	clears        int
	fades         int
	polygons      int
	circles       int
	glyphs        int
	lastColor     colorful.Color
}

func (f *fakeSurface) Size() (int, int) { return f.width, f.height }
func (f *fakeSurface) Clear() { f.clears++ }
func (f *fakeSurface) Fade(float64) { f.fades++ }
func (f *fakeSurface) FillPolygon(_ []draw.Point, c colorful.Color) {
	f.polygons++
	f.lastColor = c
}
func (f *fakeSurface) FillCircle(_, _, _ float64, c colorful.Color) {
	f.circles++
	f.lastColor = c
}
func (f *fakeSurface) DrawGlyph(_, _ float64, _ rune, c colorful.Color) {
	f.glyphs++
	f.lastColor = c
}

func (f *fakeSurface) draws() int { return f.polygons + f.circles + f.glyphs }

func newTestEngine(w, h int, mode Mode) (*Engine, *fakeSurface) {
	s := &fakeSurface{width: w, height: h}
	e := New(s, Options{Mode: mode, Rand: rand.New(rand.NewSource(1))})
	return e, s
}

func TestStartSeedsCurrentMode(t *testing.T) {
	tests := []struct {
		mode     Mode
		width    int
		expected int
	}{
		{ModeFloatingShapes, 800, 20},
		{ModeMatrixRain, 800, 40},
		{ModeMatrixRain, 400, 20},
		{ModeMatrixRain, 19, 0},
		{ModeBouncingBalls, 800, 15},
		{ModeStarfield, 800, 200},
	}

	for _, tt := range tests {
		e, _ := newTestEngine(tt.width, 600, tt.mode)
		if e.Len() != 0 {
			t.Errorf("%s: expected no particles before start, got %d", tt.mode, e.Len())
		}
		e.Start()
		if e.Len() != tt.expected {
			t.Errorf("%s at width %d: expected %d particles, got %d", tt.mode, tt.width, tt.expected, e.Len())
		}
	}
}

func TestSetModeWhileActiveReseeds(t *testing.T) {
	e, _ := newTestEngine(800, 600, ModeFloatingShapes)
	e.Start()

	for _, m := range Modes() {
		e.SetMode(m)
		if e.Mode() != m {
			t.Fatalf("expected mode %s, got %s", m, e.Mode())
		}
		if e.Len() != m.SeedCount(800) {
			t.Errorf("%s: expected %d particles, got %d", m, m.SeedCount(800), e.Len())
		}
		if m != ModeFloatingShapes && len(e.Shapes()) != 0 {
			t.Errorf("%s: shapes of previous mode were not discarded", m)
		}
		if m != ModeMatrixRain && len(e.Drops()) != 0 {
			t.Errorf("%s: drops of previous mode were not discarded", m)
		}
		if m != ModeBouncingBalls && len(e.Balls()) != 0 {
			t.Errorf("%s: balls of previous mode were not discarded", m)
		}
		if m != ModeStarfield && len(e.Stars()) != 0 {
			t.Errorf("%s: stars of previous mode were not discarded", m)
		}
		e.Tick()
	}
}

func TestSetModeWhileInactiveIsDeferred(t *testing.T) {
	e, _ := newTestEngine(800, 600, ModeFloatingShapes)
	e.SetMode(ModeStarfield)
	if e.Len() != 0 {
		t.Fatalf("expected no particles while inactive, got %d", e.Len())
	}
	e.Start()
	if len(e.Stars()) != StarCount {
		t.Errorf("expected %d stars after start, got %d", StarCount, len(e.Stars()))
	}
}

func TestSetModeIgnoresInvalid(t *testing.T) {
	e, _ := newTestEngine(800, 600, ModeBouncingBalls)
	e.Start()
	e.SetMode(Mode(42))
	if e.Mode() != ModeBouncingBalls || e.Len() != BallCount {
		t.Errorf("invalid mode changed state: mode=%s len=%d", e.Mode(), e.Len())
	}
}

func TestStopClearsAndRestartReseeds(t *testing.T) {
	e, s := newTestEngine(800, 600, ModeBouncingBalls)
	e.Start()
	initial := e.Len()
	for range 50 {
		e.Tick()
	}

	clears := s.clears
	e.Stop()
	if e.Active() {
		t.Fatal("expected inactive after stop")
	}
	if e.Len() != 0 {
		t.Errorf("expected particles cleared on stop, got %d", e.Len())
	}
	if s.clears != clears+1 {
		t.Errorf("expected stop to blank the surface once, got %d clears", s.clears-clears)
	}

	e.Stop()
	if s.clears != clears+1 {
		t.Error("second stop should be a no-op")
	}

	e.Start()
	if e.Len() != initial {
		t.Errorf("expected %d particles after restart, got %d", initial, e.Len())
	}
}

func TestStartTwiceKeepsParticles(t *testing.T) {
	e, _ := newTestEngine(800, 600, ModeFloatingShapes)
	e.Start()
	e.Tick()
	before := e.Shapes()
	e.Start()
	after := e.Shapes()
	if before[0] != after[0] {
		t.Error("start on an active engine should not reseed")
	}
}

func TestTickInactiveDoesNothing(t *testing.T) {
	e, s := newTestEngine(800, 600, ModeStarfield)
	e.Tick()
	if s.draws() != 0 || s.clears != 0 {
		t.Errorf("expected no drawing while inactive, got %d draws and %d clears", s.draws(), s.clears)
	}
}

func TestBouncingBallsStayInBounds(t *testing.T) {
	e, _ := newTestEngine(800, 600, ModeBouncingBalls)
	e.Start()

	for range 1000 {
		e.Tick()
	}

	balls := e.Balls()
	if len(balls) != 15 {
		t.Fatalf("expected 15 balls, got %d", len(balls))
	}
	for i, b := range balls {
		if b.X < -b.Radius || b.X > 800+b.Radius {
			t.Errorf("ball %d: x=%.2f outside [0, 800] with radius %.2f", i, b.X, b.Radius)
		}
		if b.Y < -b.Radius || b.Y > 600+b.Radius {
			t.Errorf("ball %d: y=%.2f outside [0, 600] with radius %.2f", i, b.Y, b.Radius)
		}
	}
}

func TestFloatingShapesReflect(t *testing.T) {
	e, _ := newTestEngine(640, 480, ModeFloatingShapes)
	e.Start()

	for tick := range 2000 {
		e.Tick()
		for i, s := range e.Shapes() {
			tolX, tolY := math.Abs(s.VX), math.Abs(s.VY)
			if s.X < -tolX || s.X > 640+tolX || s.Y < -tolY || s.Y > 480+tolY {
				t.Fatalf("tick %d shape %d escaped: (%.2f, %.2f)", tick, i, s.X, s.Y)
			}
		}
	}
}

// outside returns how far pos lies beyond [lo, hi].
func outside(pos, lo, hi float64) float64 {
	return max(lo-pos, pos-hi, 0)
}

func TestBallsReturnAfterShrink(t *testing.T) {
	e, s := newTestEngine(800, 600, ModeBouncingBalls)
	e.Start()
	e.Tick()

	// One ball heading in, one heading out, both past the new edge.
	e.balls[0] = Ball{X: 700, Y: 150, Radius: 20, VX: -2}
	e.balls[1] = Ball{X: 150, Y: 500, Radius: 20, VY: 2}
	s.width, s.height = 400, 300

	for range 400 {
		e.Tick()
	}
	for i, b := range e.Balls()[:2] {
		if outside(b.X, b.Radius, 400-b.Radius) > 2 || outside(b.Y, b.Radius, 300-b.Radius) > 2 {
			t.Errorf("ball %d stranded at (%.1f, %.1f)", i, b.X, b.Y)
		}
	}
}

// excess is how far a particle sits past the surface on each axis.
type excess struct{ x, y, vx, vy float64 }

func excesses(e *Engine, w, h float64) []excess {
	var out []excess
	for _, b := range e.Balls() {
		out = append(out, excess{outside(b.X, b.Radius, w-b.Radius), outside(b.Y, b.Radius, h-b.Radius), b.VX, b.VY})
	}
	for _, s := range e.Shapes() {
		out = append(out, excess{outside(s.X, 0, w), outside(s.Y, 0, h), s.VX, s.VY})
	}
	return out
}

func TestParticlesRecoverFromShrink(t *testing.T) {
	const eps = 1e-9
	for _, mode := range []Mode{ModeBouncingBalls, ModeFloatingShapes} {
		t.Run(mode.String(), func(t *testing.T) {
			e, s := newTestEngine(800, 600, mode)
			e.Start()
			for range 10 {
				e.Tick()
			}
			s.width, s.height = 400, 300
			e.Tick()
			start := excesses(e, 400, 300)

			for tick := range 5000 {
				e.Tick()
				for i, ex := range excesses(e, 400, 300) {
					// Never farther out than right after the shrink, plus one step.
					if ex.x > start[i].x+math.Abs(ex.vx)+eps || ex.y > start[i].y+math.Abs(ex.vy)+eps {
						t.Fatalf("tick %d particle %d drifted away: excess (%.2f, %.2f)", tick, i, ex.x, ex.y)
					}
				}
			}

			for i, ex := range excesses(e, 400, 300) {
				// Very slow particles may still be on their way back.
				if math.Abs(ex.vx) >= 0.1 && ex.x > math.Abs(ex.vx)+eps {
					t.Errorf("particle %d still %.2f outside horizontally", i, ex.x)
				}
				if math.Abs(ex.vy) >= 0.1 && ex.y > math.Abs(ex.vy)+eps {
					t.Errorf("particle %d still %.2f outside vertically", i, ex.y)
				}
			}
		})
	}
}

func TestBlackColorIsKept(t *testing.T) {
	black := colorful.Color{}
	e := New(&fakeSurface{width: 800, height: 600}, Options{Color: &black})
	if e.Color() != black {
		t.Errorf("expected black to be kept, got %s", e.Color().Hex())
	}
	if e2 := New(nil, Options{}); e2.Color() != DefaultColor {
		t.Errorf("expected the default color without an option, got %s", e2.Color().Hex())
	}
}

func TestFloatingShapesRotate(t *testing.T) {
	e, _ := newTestEngine(640, 480, ModeFloatingShapes)
	e.Start()
	before := e.Shapes()
	e.Tick()
	after := e.Shapes()
	for i := range before {
		want := before[i].Rotation + before[i].RotationSpeed
		if math.Abs(after[i].Rotation-want) > 1e-12 {
			t.Errorf("shape %d: expected rotation %v, got %v", i, want, after[i].Rotation)
		}
	}
}

func TestStarfieldDepthReset(t *testing.T) {
	e, _ := newTestEngine(800, 600, ModeStarfield)
	e.Start()

	resets := 0
	for range 1500 {
		before := e.Stars()
		e.Tick()
		after := e.Stars()
		for i := range after {
			if after[i].Z <= 0 || after[i].Z > StarDepth {
				t.Fatalf("star %d depth %v outside (0, %v]", i, after[i].Z, StarDepth)
			}
			if before[i].Z-before[i].Speed <= 0 {
				resets++
				if after[i].Z != StarDepth {
					t.Fatalf("star %d expected reset to %v, got %v", i, StarDepth, after[i].Z)
				}
			} else if after[i].Z != before[i].Z-before[i].Speed {
				t.Fatalf("star %d moved unexpectedly from %v to %v", i, before[i].Z, after[i].Z)
			}
		}
	}
	if resets == 0 {
		t.Error("expected at least one star to reach the viewer")
	}
}

func TestStarProjection(t *testing.T) {
	s := Star{X: 500, Y: 300, Z: 500}
	x, y, size := s.Projected(800, 600)
	if x != 600 || y != 300 {
		t.Errorf("expected (600, 300), got (%v, %v)", x, y)
	}
	if size != 1.5 {
		t.Errorf("expected size 1.5, got %v", size)
	}
}

func TestMatrixRainColumns(t *testing.T) {
	e, _ := newTestEngine(400, 300, ModeMatrixRain)
	e.Start()

	drops := e.Drops()
	if len(drops) != 20 {
		t.Fatalf("expected 20 columns, got %d", len(drops))
	}
	for i, d := range drops {
		if d.X != float64(i*ColumnWidth) {
			t.Errorf("column %d at x=%v", i, d.X)
		}
	}
}

func TestMatrixRainWrapsAndRerolls(t *testing.T) {
	e, _ := newTestEngine(400, 300, ModeMatrixRain)
	e.Start()

	wraps := 0
	for range 1000 {
		before := e.Drops()
		e.Tick()
		after := e.Drops()
		for i := range after {
			g := after[i].Glyph
			if g < GlyphBase || g >= GlyphBase+GlyphRange {
				t.Fatalf("column %d glyph %U outside range", i, g)
			}
			if before[i].Y+before[i].Speed > 300 {
				wraps++
				if after[i].Y != DropResetY {
					t.Fatalf("column %d expected reset to %v, got %v", i, DropResetY, after[i].Y)
				}
			} else if after[i].Glyph != before[i].Glyph {
				t.Fatalf("column %d glyph changed without wrapping", i)
			}
		}
	}
	if wraps == 0 {
		t.Error("expected columns to wrap")
	}
}

func TestMatrixRainFadesInsteadOfClearing(t *testing.T) {
	e, s := newTestEngine(400, 300, ModeMatrixRain)
	e.Start()
	clears := s.clears
	e.Tick()
	if s.fades != 1 {
		t.Errorf("expected one fade per tick, got %d", s.fades)
	}
	if s.clears != clears {
		t.Error("matrix rain should not clear the surface on tick")
	}
	if s.glyphs != 20 {
		t.Errorf("expected 20 glyphs drawn, got %d", s.glyphs)
	}
}

func TestOtherModesClearEveryTick(t *testing.T) {
	for _, m := range []Mode{ModeFloatingShapes, ModeBouncingBalls, ModeStarfield} {
		e, s := newTestEngine(800, 600, m)
		e.Start()
		clears := s.clears
		e.Tick()
		e.Tick()
		if s.clears != clears+2 {
			t.Errorf("%s: expected a clear per tick, got %d", m, s.clears-clears)
		}
		if s.fades != 0 {
			t.Errorf("%s: unexpected fade", m)
		}
	}
}

func TestPrimaryColorIsUsed(t *testing.T) {
	red, _ := ParseColor("#ff0000")
	e, s := newTestEngine(800, 600, ModeFloatingShapes)
	e.SetColor(red)
	e.Start()
	e.Tick()
	if s.polygons != ShapeCount {
		t.Errorf("expected %d polygons, got %d", ShapeCount, s.polygons)
	}
	if s.lastColor != red {
		t.Errorf("expected primary color %s, got %s", red.Hex(), s.lastColor.Hex())
	}
}

func TestGlowDrawsHalo(t *testing.T) {
	s := &fakeSurface{width: 800, height: 600}
	e := New(s, Options{Mode: ModeBouncingBalls, Glow: true, Rand: rand.New(rand.NewSource(3))})
	e.Start()
	e.Tick()
	if s.circles != 2*BallCount {
		t.Errorf("expected halo and ball per ball, got %d circles", s.circles)
	}
}

func TestInertWithoutSurface(t *testing.T) {
	e := New(nil, Options{Mode: ModeStarfield, Rand: rand.New(rand.NewSource(1))})
	e.Start()
	e.Tick()
	e.SetMode(ModeMatrixRain)
	e.Stop()
	if e.Len() != 0 {
		t.Errorf("expected no particles without a surface, got %d", e.Len())
	}
}

func TestZeroSizeSurfaceDefersSeeding(t *testing.T) {
	e, s := newTestEngine(0, 0, ModeBouncingBalls)
	e.Start()
	e.Tick()
	if e.Len() != 0 || s.draws() != 0 {
		t.Fatalf("expected inert engine, got %d particles and %d draws", e.Len(), s.draws())
	}

	s.width, s.height = 800, 600
	e.Tick()
	if e.Len() != BallCount {
		t.Errorf("expected %d balls once the surface is usable, got %d", BallCount, e.Len())
	}
	if s.circles != BallCount {
		t.Errorf("expected %d circles, got %d", BallCount, s.circles)
	}
}

func TestSetSurfaceReseeds(t *testing.T) {
	e, _ := newTestEngine(400, 300, ModeMatrixRain)
	e.Start()
	e.SetSurface(&fakeSurface{width: 800, height: 300})
	e.Tick()
	if len(e.Drops()) != 40 {
		t.Errorf("expected 40 columns on the wider surface, got %d", len(e.Drops()))
	}
}

func TestEngineOnCanvas(t *testing.T) {
	canvas := draw.NewScaledCanvas(100, 30, 800, 480)
	e := New(canvas, Options{Mode: ModeBouncingBalls, Rand: rand.New(rand.NewSource(7))})
	e.Start()
	e.Tick()

	lit := 0
	for y := range 60 {
		for x := range 100 {
			if draw.Lit(canvas.Pixel(x, y)) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected balls to light canvas pixels")
	}

	e.Stop()
	for y := range 60 {
		for x := range 100 {
			if draw.Lit(canvas.Pixel(x, y)) {
				t.Fatalf("pixel (%d, %d) still lit after stop", x, y)
			}
		}
	}
}
