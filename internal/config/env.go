// Package config holds the screensaver settings and their sources.
package config

import (
	"os"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvMode  = "TERMSAVER_MODE"
	EnvColor = "TERMSAVER_COLOR"
	EnvFPS   = "TERMSAVER_FPS"
	EnvScene = "TERMSAVER_SCENE"
	EnvAsset = "TERMSAVER_ASSET"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by
// the key, or fallback if it is unset or not a number.
func GetEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// ApplyEnv overrides cfg fields with any TERMSAVER_* variables that are set.
func ApplyEnv(cfg *Config) {
	cfg.Mode = GetEnv(EnvMode, cfg.Mode)
	cfg.Color = GetEnv(EnvColor, cfg.Color)
	cfg.FPS = GetEnvInt(EnvFPS, cfg.FPS)
	cfg.Scene = GetEnv(EnvScene, cfg.Scene)
	cfg.Asset = GetEnv(EnvAsset, cfg.Asset)
}
