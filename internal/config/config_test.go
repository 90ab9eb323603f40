package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}

	def := Default()
	if cfg.Board.Size != def.Board.Size {
		t.Errorf("Board.Size = %d, expected %d", cfg.Board.Size, def.Board.Size)
	}
	if len(cfg.Board.Palette) != len(def.Board.Palette) {
		t.Errorf("Palette = %v, expected %v", cfg.Board.Palette, def.Board.Palette)
	}
	if cfg.Rules.Rotation != def.Rules.Rotation {
		t.Errorf("Rotation = %v, expected %v", cfg.Rules.Rotation, def.Rules.Rotation)
	}
	if cfg.Timing.SettleTimeout != 5*time.Second {
		t.Errorf("SettleTimeout = %v, expected 5s", cfg.Timing.SettleTimeout)
	}
}

func TestParseKeepsDefaultsForMissingFields(t *testing.T) {
	cfg, err := Parse([]byte("board:\n  size: 7\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Board.Size != 7 {
		t.Errorf("Board.Size = %d, expected 7", cfg.Board.Size)
	}
	if len(cfg.Board.Palette) != 3 {
		t.Errorf("Palette length = %d, expected 3", len(cfg.Board.Palette))
	}
	if cfg.Timing.TickRate != 60 {
		t.Errorf("TickRate = %d, expected 60", cfg.Timing.TickRate)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"size too small", func(c *Config) { c.Board.Size = 1 }, false},
		{"size too large", func(c *Config) { c.Board.Size = MaxSize + 1 }, false},
		{"empty palette", func(c *Config) { c.Board.Palette = nil }, false},
		{"duplicate color", func(c *Config) { c.Board.Palette = []string{"red", "Red"} }, false},
		{"unknown color", func(c *Config) { c.Board.Palette = []string{"red", "mauve"} }, false},
		{"hex color", func(c *Config) { c.Board.Palette = []string{"#ff0000", "#00ff00"} }, true},
		{"layout", func(c *Config) { c.Board.Layout = "AAB/ACC/BBC" }, true},
		{"layout ignores size", func(c *Config) { c.Board.Layout = "AB/BA"; c.Board.Size = 0 }, true},
		{"layout color outside palette", func(c *Config) { c.Board.Layout = "AD/DA" }, false},
		{"layout not square", func(c *Config) { c.Board.Layout = "AB/A" }, false},
		{"zero tick rate", func(c *Config) { c.Timing.TickRate = 0 }, false},
		{"negative ticks", func(c *Config) { c.Timing.RemovalTicks = -1 }, false},
		{"removal longer than timeout", func(c *Config) { c.Timing.RemovalTicks = 600 }, false},
		{"fall longer than timeout", func(c *Config) { c.Board.Size = MaxSize; c.Timing.FallTicksPerRow = 30 }, false},
		{"long transition without fallback", func(c *Config) { c.Timing.RemovalTicks = 600; c.Timing.SettleTimeout = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.valid {
				if err == nil {
					t.Error("Validate() = nil, expected error")
				} else if !errors.Is(err, ErrInvalid) {
					t.Errorf("Validate() = %v, expected to wrap ErrInvalid", err)
				}
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset Preset
		size   int
		colors int
	}{
		{PresetEasy, 5, 3},
		{PresetNormal, 7, 3},
		{PresetHard, 7, 4},
	}

	for _, tc := range tests {
		cfg := Default()
		cfg.Board.Layout = "AB/BA"
		ApplyPreset(&cfg, tc.preset)
		if cfg.Board.Size != tc.size || len(cfg.Board.Palette) != tc.colors {
			t.Errorf("ApplyPreset(%s) = %dx%d with %d colors, expected %d colors at size %d",
				tc.preset, cfg.Board.Size, cfg.Board.Size, len(cfg.Board.Palette), tc.colors, tc.size)
		}
		if cfg.Board.Layout != "" {
			t.Errorf("ApplyPreset(%s) should clear the layout", tc.preset)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("ApplyPreset(%s) produced invalid config: %v", tc.preset, err)
		}
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(" Hard "); err != nil || p != PresetHard {
		t.Errorf("ParsePreset(Hard) = %q, %v", p, err)
	}
	if p, err := ParsePreset(""); err != nil || p != "" {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParsePreset(nightmare) error = %v, expected ErrInvalid", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "board:\n  layout: \"AB/BA\"\nrules:\n  rotation: false\ntiming:\n  settle_timeout: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Dimension() != 2 {
		t.Errorf("Dimension() = %d, expected 2", cfg.Dimension())
	}
	if cfg.Rules.Rotation {
		t.Error("Rotation should be disabled")
	}
	if cfg.Timing.SettleTimeout != 2*time.Second {
		t.Errorf("SettleTimeout = %v, expected 2s", cfg.Timing.SettleTimeout)
	}
	if cfg.Layout() == nil {
		t.Error("Layout() should return the fixed grid")
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board:\n  size: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, expected ErrInvalid", err)
	}
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	cfg := Default()
	cfg.Board.Layout = "AAB/ACC/BBC"
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) failed: %v", err)
	}
	if back.Board.Layout != cfg.Board.Layout || back.Timing.SettleTimeout != cfg.Timing.SettleTimeout {
		t.Errorf("round trip changed config: %+v", back)
	}
}
