package loop

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/termsaver/internal/config"
	"github.com/tomz197/termsaver/internal/draw"
	"github.com/tomz197/termsaver/internal/drift"
	"github.com/tomz197/termsaver/internal/input"
	"github.com/tomz197/termsaver/internal/video"
)

const (
	pausedTitle = "Screensaver Deactivated"
	pausedHelp  = "Press any key to restart · q to quit"
)

// NewScene creates the scene selected by cfg.Scene.
func NewScene(cfg *config.Config, logger *log.Logger) (Scene, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	switch cfg.Scene {
	case config.SceneEngine:
		return NewEngineScene(cfg, logger, rng), nil
	case config.SceneDrift:
		return NewDriftScene(drift.New(rng)), nil
	case config.SceneVideo:
		return NewVideoScene(video.Open(cfg.Asset, logger), cfg.PrimaryColor()), nil
	}
	return nil, config.ErrUnknownScene
}

// DriftScene runs the drift screensaver. Any key pauses or resumes it.
type DriftScene struct {
	scene *drift.Scene
}

func NewDriftScene(s *drift.Scene) *DriftScene {
	return &DriftScene{scene: s}
}

// Attach implements Scene.
func (s *DriftScene) Attach(*draw.Canvas) {}

// HandleInput implements Scene.
func (s *DriftScene) HandleInput(in input.Input, _ time.Time) bool {
	if in.Quit {
		return true
	}
	if !in.Any {
		return false
	}
	if s.scene.Paused() {
		s.scene.Resume()
	} else {
		s.scene.Pause()
	}
	return false
}

// Update implements Scene.
func (s *DriftScene) Update(dt time.Duration) {
	s.scene.Update(dt)
}

// Draw implements Scene.
func (s *DriftScene) Draw(c *draw.Canvas) {
	c.Clear()
	s.scene.Draw(c)
	if s.scene.Paused() {
		block := messageStyle.Render(pausedTitle + "\n\n" + pausedHelp)
		col, row := centerBlock(c, block)
		drawBlock(c, col, row, block, colorful.Color{R: 1, G: 1, B: 1})
	}
}

// VideoScene shows a clip centered on the canvas. Space pauses and resumes.
type VideoScene struct {
	player *video.Player
	color  colorful.Color
}

func NewVideoScene(p *video.Player, c colorful.Color) *VideoScene {
	return &VideoScene{player: p, color: c}
}

// Player returns the underlying player.
func (s *VideoScene) Player() *video.Player { return s.player }

// Attach implements Scene.
func (s *VideoScene) Attach(*draw.Canvas) {
	s.player.Play()
}

// HandleInput implements Scene.
func (s *VideoScene) HandleInput(in input.Input, _ time.Time) bool {
	if in.Quit || in.Escape {
		return true
	}
	if in.Space {
		if s.player.Playing() {
			s.player.Pause()
		} else {
			s.player.Play()
		}
	}
	return false
}

// Update implements Scene.
func (s *VideoScene) Update(dt time.Duration) {
	s.player.Advance(dt)
}

// Draw implements Scene. An empty player leaves the canvas blank.
func (s *VideoScene) Draw(c *draw.Canvas) {
	c.Clear()
	frame := s.player.Frame()
	if frame == "" {
		return
	}
	// Centering uses the clip's bounding box so frames don't jitter.
	w, h := s.player.Clip().Size()
	col := max((c.TerminalWidth()-w)/2, 0)
	row := max((c.TerminalHeight()-h)/2, 0)
	for i, line := range strings.Split(frame, "\n") {
		c.DrawText(col, row+i, line, s.color)
	}
}
