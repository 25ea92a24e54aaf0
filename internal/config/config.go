package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/termsaver/internal/engine"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScene      = SceneEngine
	DefaultMode       = "floating-shapes"
	DefaultColor      = "#00ff00"
	DefaultFPS        = 60
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
	DefaultBackend    = BackendANSI

	MaxFPS = 120
)

// Scenes the frame loop can run.
const (
	SceneEngine = "engine"
	SceneDrift  = "drift"
	SceneVideo  = "video"
)

// Presenters for the local terminal.
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

var (
	ErrUnknownScene    = errors.New("config: unknown scene")
	ErrUnknownBackend  = errors.New("config: unknown backend")
	ErrInvalidFPS      = errors.New("config: fps out of range")
	ErrInvalidCellSize = errors.New("config: cell size must be positive")
	ErrInvalidIdle     = errors.New("config: idle_start must not be negative")
)

type Config struct {
	Scene      string  `yaml:"scene"`
	Mode       string  `yaml:"mode"`
	Color      string  `yaml:"color"`
	FPS        int     `yaml:"fps"`
	CellWidth  int     `yaml:"cell_width"`  // Logical units per terminal column
	CellHeight int     `yaml:"cell_height"` // Logical units per terminal row
	Glow       bool    `yaml:"glow"`
	AutoStart  bool    `yaml:"auto_start"`
	IdleStart  float64 `yaml:"idle_start"` // Seconds without input before the engine starts; 0 disables
	Asset      string  `yaml:"asset"`      // Clip file for the video scene
	Backend    string  `yaml:"backend"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      DefaultScene,
		Mode:       DefaultMode,
		Color:      DefaultColor,
		FPS:        DefaultFPS,
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
		Glow:       true,
		Backend:    DefaultBackend,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Scene {
	case SceneEngine, SceneDrift, SceneVideo:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownScene, c.Scene))
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend))
	}
	if _, err := engine.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := engine.ParseColor(c.Color); err != nil {
		errs = append(errs, err)
	}
	if c.FPS < 1 || c.FPS > MaxFPS {
		errs = append(errs, fmt.Errorf("%w: %d (1-%d)", ErrInvalidFPS, c.FPS, MaxFPS))
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrInvalidCellSize, c.CellWidth, c.CellHeight))
	}
	if c.IdleStart < 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidIdle, c.IdleStart))
	}
	return errors.Join(errs...)
}

// EngineMode returns the parsed mode, falling back to floating-shapes.
func (c *Config) EngineMode() engine.Mode {
	m, err := engine.ParseMode(c.Mode)
	if err != nil {
		return engine.ModeFloatingShapes
	}
	return m
}

// PrimaryColor returns the parsed color, falling back to the engine default.
func (c *Config) PrimaryColor() colorful.Color {
	col, err := engine.ParseColor(c.Color)
	if err != nil {
		return engine.DefaultColor
	}
	return col
}
