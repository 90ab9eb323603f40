package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/colorfall.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Size:    5,
			Palette: []string{"red", "green", "blue"},
		},
		Rules: RulesConfig{
			Rotation: true,
		},
		Timing: TimingConfig{
			TickRate:        60,
			RemovalTicks:    12, // ~200ms at 60fps
			FallTicksPerRow: 4,
			RotationTicks:   15,
			SettleTimeout:   5 * time.Second,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
