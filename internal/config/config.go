// Package config provides YAML-based configuration loading and difficulty
// presets for Colorfall.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/vovakirdan/colorfall/internal/board"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Size limits for the board.
const (
	MinSize = 2
	MaxSize = 16
)

// Config contains all configuration for a Colorfall session.
type Config struct {
	Board  BoardConfig  `yaml:"board"`
	Rules  RulesConfig  `yaml:"rules"`
	Timing TimingConfig `yaml:"timing"`
}

// BoardConfig defines the grid and its colors.
type BoardConfig struct {
	Size    int      `yaml:"size"`
	Palette []string `yaml:"palette"`
	Layout  string   `yaml:"layout,omitempty"` // Fixed start; empty = random
}

// RulesConfig toggles game variants.
type RulesConfig struct {
	Rotation bool `yaml:"rotation"` // Extended variant with board rotation
}

// TimingConfig defines presentation pacing and the settle fallback.
type TimingConfig struct {
	TickRate        int           `yaml:"tick_rate"`          // Presentation ticks per second
	RemovalTicks    int           `yaml:"removal_ticks"`      // Length of the removal transition
	FallTicksPerRow int           `yaml:"fall_ticks_per_row"` // Fall transition length per row fallen
	RotationTicks   int           `yaml:"rotation_ticks"`     // Length of the rotation transition
	SettleTimeout   time.Duration `yaml:"settle_timeout"`     // Forced settle after this long
}

// Preset represents a named difficulty level.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// ParsePreset converts a flag value to a Preset. Empty means no preset.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PresetEasy, PresetNormal, PresetHard:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown preset %q (want easy, normal or hard)", ErrInvalid, s)
	}
}

// ApplyPreset modifies the board according to a difficulty preset.
// A fixed layout is cleared because it would override the preset size.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Board.Size = 5
		cfg.Board.Palette = []string{"red", "green", "blue"}
	case PresetNormal:
		cfg.Board.Size = 7
		cfg.Board.Palette = []string{"red", "green", "blue"}
	case PresetHard:
		cfg.Board.Size = 7
		cfg.Board.Palette = []string{"red", "green", "blue", "yellow"}
	default:
		return
	}
	cfg.Board.Layout = ""
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// namedColors are the palette names understood by the terminal renderer.
var namedColors = map[string]bool{
	"red": true, "green": true, "blue": true, "yellow": true,
	"purple": true, "cyan": true, "orange": true, "white": true,
	"pink": true, "gray": true,
}

// ValidColorName reports whether name is a known color or a #rrggbb value.
func ValidColorName(name string) bool {
	return namedColors[strings.ToLower(name)] || hexColor.MatchString(name)
}

// Validate checks the configuration and returns an error wrapping ErrInvalid.
func (c Config) Validate() error {
	if len(c.Board.Palette) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrInvalid)
	}
	if len(c.Board.Palette) > board.MaxColors {
		return fmt.Errorf("%w: palette has %d colors, max %d", ErrInvalid, len(c.Board.Palette), board.MaxColors)
	}
	seen := make(map[string]bool, len(c.Board.Palette))
	for _, name := range c.Board.Palette {
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate palette color %q", ErrInvalid, name)
		}
		if !ValidColorName(name) {
			return fmt.Errorf("%w: unknown palette color %q", ErrInvalid, name)
		}
		seen[key] = true
	}

	if c.Board.Layout != "" {
		layout, err := board.Parse(c.Board.Layout)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if layout.MaxColor() >= len(c.Board.Palette) {
			return fmt.Errorf("%w: layout uses color %c but palette has %d colors",
				ErrInvalid, board.Color(layout.MaxColor()).Letter(), len(c.Board.Palette))
		}
		if n := layout.Dimension(); n < MinSize || n > MaxSize {
			return fmt.Errorf("%w: layout is %dx%d, want %d..%d", ErrInvalid, n, n, MinSize, MaxSize)
		}
	} else if c.Board.Size < MinSize || c.Board.Size > MaxSize {
		return fmt.Errorf("%w: board size %d, want %d..%d", ErrInvalid, c.Board.Size, MinSize, MaxSize)
	}

	if c.Timing.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalid)
	}
	if c.Timing.RemovalTicks < 0 || c.Timing.FallTicksPerRow < 0 || c.Timing.RotationTicks < 0 {
		return fmt.Errorf("%w: transition ticks must not be negative", ErrInvalid)
	}

	// Every transition must finish before the settle fallback fires.
	if c.Timing.SettleTimeout > 0 {
		frame := time.Second / time.Duration(c.Timing.TickRate)
		longest := max(c.Timing.RemovalTicks, c.Timing.RotationTicks, c.Timing.FallTicksPerRow*(c.Dimension()-1))
		if d := time.Duration(longest) * frame; d > c.Timing.SettleTimeout {
			return fmt.Errorf("%w: longest transition takes %v, longer than settle_timeout %v",
				ErrInvalid, d, c.Timing.SettleTimeout)
		}
	}
	return nil
}

// Layout returns the parsed fixed layout, or nil when the board is random.
// Call Validate first.
func (c Config) Layout() *board.Grid {
	if c.Board.Layout == "" {
		return nil
	}
	g, err := board.Parse(c.Board.Layout)
	if err != nil {
		return nil
	}
	return g
}

// Dimension returns the effective board size.
func (c Config) Dimension() int {
	if g := c.Layout(); g != nil {
		return g.Dimension()
	}
	return c.Board.Size
}
