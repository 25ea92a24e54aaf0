// Package loop provides the frame loop that drives a screensaver scene.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/termsaver/internal/config"
	"github.com/tomz197/termsaver/internal/draw"
	"github.com/tomz197/termsaver/internal/input"
)

// Scene is anything the loop can animate.
type Scene interface {
	// Attach hands the scene the canvas it will draw on. Called once before
	// the first frame.
	Attach(c *draw.Canvas)
	// HandleInput reacts to the keys pressed since the last frame and
	// reports whether the loop should exit.
	HandleInput(in input.Input, now time.Time) (quit bool)
	Update(dt time.Duration)
	Draw(c *draw.Canvas)
}

// Options configures the frame loop.
type Options struct {
	FPS          int
	CellWidth    int // Logical units per terminal column
	CellHeight   int // Logical units per terminal row
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
}

// OptionsFrom builds loop options from a config.
func OptionsFrom(cfg *config.Config, logger *log.Logger) Options {
	return Options{
		FPS:        cfg.FPS,
		CellWidth:  cfg.CellWidth,
		CellHeight: cfg.CellHeight,
		Logger:     logger,
	}
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = config.DefaultFPS
	}
	if o.CellWidth <= 0 {
		o.CellWidth = config.DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = config.DefaultCellHeight
	}
	if o.TermSizeFunc == nil {
		o.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Run drives scene with the standard Input → Update → Draw cycle, rendering
// ANSI frames to w. It returns when the scene asks to quit, ctx is done or r
// reaches EOF.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, scene Scene, opts Options) error {
	opts = opts.withDefaults()
	stream := input.StartStream(r)

	draw.EnterAltScreen(w)
	draw.HideCursor(w)
	defer func() {
		draw.ShowCursor(w)
		draw.ExitAltScreen(w)
	}()
	draw.ClearScreen(w)

	out := draw.NewChunkWriter(w)
	canvas := draw.NewCanvas(0, 0)
	sizer := newSizer(opts)
	sizer.apply(canvas)
	scene.Attach(canvas)

	frameTime := time.Second / time.Duration(opts.FPS)
	lastTime := time.Now()

	for {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if scene.HandleInput(in, frameStart) {
			return nil
		}
		if in.Closed {
			opts.Logger.Debug("input closed")
			return nil
		}

		// ===== UPDATE PHASE =====
		sizer.apply(canvas)
		scene.Update(delta)

		// ===== DRAW PHASE =====
		scene.Draw(canvas)
		draw.ClearScreen(out)
		canvas.Render(out)
		if err := out.Flush(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		if !wait(ctx, frameTime-time.Since(frameStart)) {
			return nil
		}
	}
}

// wait sleeps for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// sizer keeps a canvas in step with the terminal.
type sizer struct {
	size       draw.TermSizeFunc
	cellWidth  int
	cellHeight int
	logger     *log.Logger
	failed     bool
}

func newSizer(opts Options) *sizer {
	return &sizer{
		size:       opts.TermSizeFunc,
		cellWidth:  opts.CellWidth,
		cellHeight: opts.CellHeight,
		logger:     opts.Logger,
	}
}

// apply resizes the canvas to the terminal and maps each cell to
// cellWidth × cellHeight logical units. A failed size query keeps the
// previous size.
func (s *sizer) apply(c *draw.Canvas) {
	w, h, err := s.size()
	if err != nil {
		if !s.failed {
			s.logger.Warn("terminal size unavailable", "err", err)
			s.failed = true
		}
		return
	}
	s.failed = false
	s.resize(c, w, h)
}

func (s *sizer) resize(c *draw.Canvas, w, h int) {
	c.Resize(w, h)
	c.SetLogicalSize(float64(w*s.cellWidth), float64(h*s.cellHeight))
}
