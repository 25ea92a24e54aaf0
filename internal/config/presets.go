package config

import "sort"

var Presets = map[string]*Config{
	"classic": {
		Scene: SceneEngine, Mode: "matrix-rain", Color: "#00ff00", Glow: false, AutoStart: true,
	},
	"hyperspace": {
		Scene: SceneEngine, Mode: "starfield", Color: "#ffffff", Glow: true, AutoStart: true,
	},
	"arcade": {
		Scene: SceneEngine, Mode: "bouncing-balls", Color: "#ffff00", Glow: true, AutoStart: true,
	},
	"calm": {
		Scene: SceneEngine, Mode: "floating-shapes", Color: "#00ffff", Glow: false, AutoStart: true, FPS: 30,
	},
	"drift": {
		Scene: SceneDrift,
	},
}

// GetPreset returns a copy of the named preset with unset fields taken from
// the defaults, or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scene = p.Scene
	if p.Mode != "" {
		cfg.Mode = p.Mode
	}
	if p.Color != "" {
		cfg.Color = p.Color
	}
	if p.FPS != 0 {
		cfg.FPS = p.FPS
	}
	cfg.Glow = p.Glow
	cfg.AutoStart = p.AutoStart
	return cfg
}

// ListPresets returns the preset names in alphabetical order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
