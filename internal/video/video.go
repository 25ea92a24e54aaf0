// Package video plays looping text-frame clips.
//
// A clip is a YAML asset holding a frame rate and a list of frames, each a
// multi-line block of text. The Player mirrors a media player: it plays,
// pauses, seeks and notifies when it reaches the end of the media.
package video

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DefaultFPS is used when a clip does not specify a frame rate.
const DefaultFPS = 10

var ErrEmptyClip = errors.New("video: clip has no frames")

// Clip is a decoded asset.
type Clip struct {
	FPS    float64  `yaml:"fps"`
	Frames []string `yaml:"frames"`
}

// Parse decodes a clip from YAML.
func Parse(data []byte) (*Clip, error) {
	var c Clip
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Frames) == 0 {
		return nil, ErrEmptyClip
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	for i, f := range c.Frames {
		c.Frames[i] = strings.TrimRight(f, "\n")
	}
	return &c, nil
}

// Load reads and decodes a clip file.
func Load(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load clip %s: %w", path, err)
	}
	return c, nil
}

// Size returns the widest line and the tallest frame in runes and lines.
func (c *Clip) Size() (width, height int) {
	for _, f := range c.Frames {
		lines := strings.Split(f, "\n")
		height = max(height, len(lines))
		for _, l := range lines {
			width = max(width, len([]rune(l)))
		}
	}
	return width, height
}

// Player steps through a clip in real time.
// A Player without a clip is inert: it never plays and has no frame.
type Player struct {
	clip    *Clip
	frame   int
	elapsed time.Duration
	playing bool
	onEnd   func()
}

// NewPlayer creates a paused player positioned at the first frame. c may be nil.
func NewPlayer(c *Clip) *Player {
	return &Player{clip: c}
}

// Open loads the clip at path and returns a looping player. When the asset is
// missing or broken the error is logged and an inert player is returned, so the
// host keeps running with an idle surface.
func Open(path string, logger *log.Logger) *Player {
	c, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Warn("video asset unavailable, staying idle", "path", path, "err", err)
		}
		return NewPlayer(nil)
	}
	p := NewPlayer(c)
	Loop(p)
	return p
}

// Loop makes p restart from the first frame whenever it reaches the end.
func Loop(p *Player) {
	p.OnEnd(func() {
		p.Seek(0)
		p.Play()
	})
}

// Empty reports whether the player has nothing to show.
func (p *Player) Empty() bool {
	return p.clip == nil || len(p.clip.Frames) == 0
}

// Clip returns the loaded clip, nil when empty.
func (p *Player) Clip() *Clip {
	return p.clip
}

// Play starts or resumes playback. Does nothing for an empty player.
func (p *Player) Play() {
	if p.Empty() {
		return
	}
	p.playing = true
}

// Pause stops playback at the current frame.
func (p *Player) Pause() {
	p.playing = false
}

// Playing reports whether the player is advancing.
func (p *Player) Playing() bool {
	return p.playing
}

// Seek moves to a frame, clamped to the clip, and resets the frame timer.
func (p *Player) Seek(frame int) {
	p.elapsed = 0
	if p.Empty() {
		p.frame = 0
		return
	}
	p.frame = min(max(frame, 0), len(p.clip.Frames)-1)
}

// Position returns the current frame index.
func (p *Player) Position() int {
	return p.frame
}

// Frame returns the text of the current frame, empty for an inert player.
func (p *Player) Frame() string {
	if p.Empty() {
		return ""
	}
	return p.clip.Frames[p.frame]
}

// OnEnd registers the end-of-media callback. It runs after the player has
// stopped on the last frame.
func (p *Player) OnEnd(fn func()) {
	p.onEnd = fn
}

// Advance moves playback forward by dt.
func (p *Player) Advance(dt time.Duration) {
	if !p.playing || p.Empty() {
		return
	}
	step := time.Duration(float64(time.Second) / p.clip.FPS)
	if step <= 0 {
		step = time.Second / DefaultFPS
	}

	p.elapsed += dt
	for p.playing && p.elapsed >= step {
		p.elapsed -= step
		if p.frame+1 < len(p.clip.Frames) {
			p.frame++
			continue
		}
		p.playing = false
		p.elapsed = 0
		if p.onEnd != nil {
			p.onEnd()
		}
	}
}
