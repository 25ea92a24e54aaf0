package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tomz197/termsaver/internal/config"
)

func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	root := newRootCmd()
	if err := root.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return resolveConfig(root)
}

func TestResolveConfig(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		args  []string
		mode  string
		color string
	}{
		{"defaults", "", nil, config.DefaultMode, config.DefaultColor},
		{"preset", "", []string{"--preset", "hyperspace"}, "starfield", "#ffffff"},
		{"flag over preset", "", []string{"--preset", "hyperspace", "--mode", "matrix-rain"}, "matrix-rain", "#ffffff"},
		{"env", "bouncing-balls", nil, "bouncing-balls", config.DefaultColor},
		{"flag over env", "bouncing-balls", []string{"--mode", "starfield", "--color", "red"}, "starfield", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv(config.EnvMode, tt.env)
			}
			cfg, err := parse(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Mode != tt.mode || cfg.Color != tt.color {
				t.Errorf("expected %s/%s, got %s/%s", tt.mode, tt.color, cfg.Mode, cfg.Color)
			}
		})
	}
}

func TestResolveConfigErrors(t *testing.T) {
	if _, err := parse(t, "--fps", "0"); !errors.Is(err, config.ErrInvalidFPS) {
		t.Errorf("expected ErrInvalidFPS, got %v", err)
	}
	if _, err := parse(t, "--preset", "nope"); err == nil {
		t.Error("expected an error for an unknown preset")
	}
	if _, err := parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termsaver.yaml")
	newRootCmd()

	if err := initConfig(nil, []string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written config is invalid: %v", err)
	}

	if err := initConfig(nil, []string{path}); err == nil {
		t.Error("expected refusal to overwrite")
	}
	force = true
	defer func() { force = false }()
	if err := initConfig(nil, []string{path}); err != nil {
		t.Errorf("expected --force to overwrite: %v", err)
	}
}
