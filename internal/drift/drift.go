// Package drift is the calm screensaver: logos and small motes float upwards
// over a dark gradient whose palette changes every half minute.
package drift

import (
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/termsaver/internal/draw"
)

const (
	LogoCount       = 8
	MoteCount       = 50
	LogoSize        = 30.0
	PaletteInterval = 30 * time.Second

	gradientBands = 24
	fadeSpan      = 0.1 // Fraction of the trip spent fading in and out
	logoOpacity   = 0.8
	moteOpacity   = 0.6
)

// Surface is what the scene paints on.
type Surface interface {
	Size() (width, height int)
	Clear()
	FillRect(x, y, w, h float64, c colorful.Color)
	FillCircle(x, y, r float64, c colorful.Color)
	FillPolygon(points []draw.Point, c colorful.Color)
}

// Gradient is a background of two edge colors and a middle color.
type Gradient struct {
	Edge, Mid colorful.Color
}

// Gradients are the background palettes.
var Gradients = []Gradient{
	{hex("#000428"), hex("#004e92")},
	{hex("#2c1810"), hex("#8b4513")},
	{hex("#0f0f23"), hex("#1e3a8a")},
	{hex("#1a1a2e"), hex("#16213e")},
	{hex("#0d0221"), hex("#2d1b69")},
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Floater is anything that rises from the bottom to the top of the screen on
// a repeating schedule.
type Floater struct {
	X        float64       // Horizontal position as a fraction of the width
	Size     float64       // Logical size
	Delay    time.Duration // Time before the first trip starts
	Duration time.Duration // Length of one trip
}

// Progress returns how far through its current trip the floater is at time t,
// in [0, 1). ok is false while the floater is still waiting for its first trip.
func (f Floater) Progress(t time.Duration) (p float64, ok bool) {
	t -= f.Delay
	if t < 0 || f.Duration <= 0 {
		return 0, false
	}
	return float64(t%f.Duration) / float64(f.Duration), true
}

// Scene holds the animated state.
type Scene struct {
	rng     *rand.Rand
	logos   []Floater
	motes   []Floater
	elapsed time.Duration
	paused  bool

	gradient    int
	sinceChange time.Duration

	points [4]draw.Point
}

// New creates a scene with randomized floaters. rng may be nil.
func New(rng *rand.Rand) *Scene {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Scene{rng: rng}
	for range LogoCount {
		s.logos = append(s.logos, Floater{
			X:        rng.Float64(),
			Size:     LogoSize,
			Delay:    seconds(rng.Float64() * 20),
			Duration: seconds(15 + rng.Float64()*10),
		})
	}
	for range MoteCount {
		s.motes = append(s.motes, Floater{
			X:        rng.Float64(),
			Size:     1 + rng.Float64()*3,
			Delay:    seconds(rng.Float64() * 25),
			Duration: seconds(20 + rng.Float64()*10),
		})
	}
	return s
}

// Logos returns the logo floaters.
func (s *Scene) Logos() []Floater { return s.logos }

// Motes returns the mote floaters.
func (s *Scene) Motes() []Floater { return s.motes }

// Elapsed returns the animation clock.
func (s *Scene) Elapsed() time.Duration { return s.elapsed }

// Gradient returns the index of the current background palette.
func (s *Scene) Gradient() int { return s.gradient }

// Paused reports whether the animation is frozen.
func (s *Scene) Paused() bool { return s.paused }

// Pause freezes every animation, including the palette timer.
func (s *Scene) Pause() { s.paused = true }

// Resume continues from where Pause stopped.
func (s *Scene) Resume() { s.paused = false }

// Update advances the animation clock.
func (s *Scene) Update(dt time.Duration) {
	if s.paused || dt <= 0 {
		return
	}
	s.elapsed += dt
	s.sinceChange += dt
	for s.sinceChange >= PaletteInterval {
		s.sinceChange -= PaletteInterval
		s.changeGradient()
	}
}

// changeGradient picks a different background palette at random.
func (s *Scene) changeGradient() {
	next := s.rng.Intn(len(Gradients) - 1)
	if next >= s.gradient {
		next++
	}
	s.gradient = next
}

// Draw paints the background, the motes and the logos.
func (s *Scene) Draw(surf Surface) {
	w, h := surf.Size()
	if w <= 0 || h <= 0 {
		return
	}
	width, height := float64(w), float64(h)
	g := Gradients[s.gradient]

	surf.Clear()
	bandHeight := height / gradientBands
	for i := range gradientBands {
		y := float64(i) * bandHeight
		surf.FillRect(0, y, width, bandHeight+1, g.At((y+bandHeight/2)/height))
	}

	for _, m := range s.motes {
		x, y, alpha, ok := s.place(m, width, height)
		if !ok {
			continue
		}
		bg := g.At(y / height)
		surf.FillCircle(x, y, m.Size/2, bg.BlendRgb(white, alpha*moteOpacity))
	}

	for _, l := range s.logos {
		x, y, alpha, ok := s.place(l, width, height)
		if !ok {
			continue
		}
		p, _ := l.Progress(s.elapsed)
		bg := g.At(y / height)
		s.drawLogo(surf, x, y, l.Size, p*2*math.Pi, bg.BlendRgb(white, alpha*logoOpacity))
	}
}

// place computes where a floater is and how opaque it is.
func (s *Scene) place(f Floater, width, height float64) (x, y, alpha float64, ok bool) {
	p, ok := f.Progress(s.elapsed)
	if !ok {
		return 0, 0, 0, false
	}
	margin := f.Size
	x = f.X * width
	y = height + margin - p*(height+2*margin)
	alpha = math.Min(1, math.Min(p/fadeSpan, (1-p)/fadeSpan))
	return x, y, alpha, true
}

// drawLogo paints a fruit silhouette: a round body with a leaf on top.
func (s *Scene) drawLogo(surf Surface, x, y, size, angle float64, c colorful.Color) {
	r := size / 2
	surf.FillCircle(x, y, r*0.8, c)

	sin, cos := math.Sincos(angle)
	leafX := x + 0.55*r*sin
	leafY := y - 0.55*r*cos
	leaf := s.points[:4]
	draw.RotatedSquare(leaf, leafX-0.2*r*cos, leafY-0.2*r*sin, r*0.35, angle+math.Pi/4)
	surf.FillPolygon(leaf, c)
}

// At returns the gradient color at t in [0, 1]: edge at both ends, mid in the center.
func (g Gradient) At(t float64) colorful.Color {
	t = math.Min(1, math.Max(0, t))
	return g.Edge.BlendLab(g.Mid, 1-math.Abs(2*t-1)).Clamped()
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func hex(s string) colorful.Color {
	c, _ := colorful.Hex(s)
	return c
}
