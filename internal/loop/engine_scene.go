package loop

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/tomz197/termsaver/internal/config"
	"github.com/tomz197/termsaver/internal/draw"
	"github.com/tomz197/termsaver/internal/engine"
	"github.com/tomz197/termsaver/internal/input"
)

// HintDuration is how long the exit hint stays up after an unbound key.
const HintDuration = 2 * time.Second

const (
	panelTitle = "T E R M S A V E R"
	panelHelp  = "space start · ←/→ mode · c color · g glow · q quit"
	exitHint   = "Press ESC or SPACE to exit"
	marker     = "▶ "
)

// EngineScene puts the animation engine behind a control panel.
// While the engine is inactive the panel shows the mode list and the
// current settings; while active the whole canvas belongs to the animation.
type EngineScene struct {
	engine *engine.Engine
	logger *log.Logger

	autoStart bool
	idle      time.Duration // Zero disables idle start

	lastInput time.Time
	hintUntil time.Time
	now       time.Time
}

// NewEngineScene builds the engine from cfg. rng may be nil.
func NewEngineScene(cfg *config.Config, logger *log.Logger, rng *rand.Rand) *EngineScene {
	color := cfg.PrimaryColor()
	e := engine.New(nil, engine.Options{
		Mode:  cfg.EngineMode(),
		Color: &color,
		Glow:  cfg.Glow,
		Rand:  rng,
	})
	return &EngineScene{
		engine:    e,
		logger:    logger,
		autoStart: cfg.AutoStart,
		idle:      time.Duration(cfg.IdleStart * float64(time.Second)),
	}
}

// Engine returns the underlying engine.
func (s *EngineScene) Engine() *engine.Engine { return s.engine }

// Attach implements Scene.
func (s *EngineScene) Attach(c *draw.Canvas) {
	s.engine.SetSurface(c)
	if s.autoStart {
		s.start()
	}
}

// HandleInput implements Scene.
func (s *EngineScene) HandleInput(in input.Input, now time.Time) bool {
	s.now = now
	if s.lastInput.IsZero() || in.Any {
		s.lastInput = now
	}
	if in.Quit {
		return true
	}

	handled := s.handleSettings(in)
	if s.engine.Active() {
		switch {
		case in.Space || in.Enter || in.Escape:
			s.stop()
		case in.Any && !handled:
			s.hintUntil = now.Add(HintDuration)
		}
		return false
	}

	switch {
	case in.Space || in.Enter:
		s.start()
	case s.idle > 0 && now.Sub(s.lastInput) >= s.idle:
		s.logger.Debug("idle start", "after", s.idle)
		s.start()
	}
	return false
}

// handleSettings applies mode, color and glow keys and reports whether any
// of them was pressed.
func (s *EngineScene) handleSettings(in input.Input) bool {
	handled := true
	switch {
	case in.Number >= 1 && in.Number <= len(engine.Modes()):
		s.setMode(engine.Mode(in.Number - 1))
	case in.Right || in.Down:
		s.setMode(s.engine.Mode().Next())
	case in.Left || in.Up:
		s.setMode(s.engine.Mode().Prev())
	default:
		handled = false
	}
	if in.Color {
		c := engine.NextColor(s.engine.Color())
		s.engine.SetColor(c)
		s.logger.Debug("color changed", "color", c.Hex())
		handled = true
	}
	if in.Glow {
		s.engine.SetGlow(!s.engine.Glow())
		handled = true
	}
	return handled
}

func (s *EngineScene) setMode(m engine.Mode) {
	if m == s.engine.Mode() {
		return
	}
	s.engine.SetMode(m)
	s.logger.Debug("mode changed", "mode", m)
}

func (s *EngineScene) start() {
	s.engine.Start()
	s.hintUntil = time.Time{}
	s.logger.Info("screensaver started", "mode", s.engine.Mode())
}

func (s *EngineScene) stop() {
	s.engine.Stop()
	s.hintUntil = time.Time{}
	s.logger.Info("screensaver stopped")
}

// Update implements Scene.
func (s *EngineScene) Update(time.Duration) {
	s.engine.Tick()
}

// Draw implements Scene.
func (s *EngineScene) Draw(c *draw.Canvas) {
	if s.engine.Active() {
		if s.now.Before(s.hintUntil) {
			drawFooter(c, exitHint, hintColor)
		}
		return
	}
	c.Clear()
	s.drawPanel(c)
}

// HintVisible reports whether the exit hint is showing.
func (s *EngineScene) HintVisible() bool {
	return s.engine.Active() && s.now.Before(s.hintUntil)
}

// drawPanel shows the mode list with the current mode marked in the
// primary color.
func (s *EngineScene) drawPanel(c *draw.Canvas) {
	modes := engine.Modes()
	lines := make([]string, 0, len(modes)+6)
	lines = append(lines, panelTitle, "")
	for _, m := range modes {
		lines = append(lines, modeLine(m, m == s.engine.Mode()))
	}
	glow := "off"
	if s.engine.Glow() {
		glow = "on"
	}
	lines = append(lines, "",
		fmt.Sprintf("color ██ %s   glow %s", s.engine.Color().Hex(), glow),
		"",
		panelHelp,
	)

	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l))
	}
	lines[0] = lipgloss.PlaceHorizontal(width, lipgloss.Center, panelTitle)
	block := panelStyle.Render(strings.Join(lines, "\n"))

	col, row := centerBlock(c, block)
	drawBlock(c, col, row, block, panelColor)

	primary := s.engine.Color()
	col += panelInsetCol
	row += panelInsetRow
	c.DrawText(col, row, lines[0], primary)
	c.DrawText(col, row+2+int(s.engine.Mode()), modeLine(s.engine.Mode(), true), primary)
	c.DrawText(col+len("color "), row+3+len(modes), "██", primary)
}

func modeLine(m engine.Mode, selected bool) string {
	prefix := "  "
	if selected {
		prefix = marker
	}
	return fmt.Sprintf("%s%d  %s", prefix, int(m)+1, strings.ReplaceAll(m.String(), "-", " "))
}
