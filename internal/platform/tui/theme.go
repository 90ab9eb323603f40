package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/colorfall/internal/board"
)

// namedColors maps palette names to terminal colors.
var namedColors = map[string]lipgloss.Color{
	"red":    lipgloss.Color("196"),
	"green":  lipgloss.Color("46"),
	"blue":   lipgloss.Color("33"),
	"yellow": lipgloss.Color("226"),
	"purple": lipgloss.Color("135"),
	"cyan":   lipgloss.Color("51"),
	"orange": lipgloss.Color("208"),
	"white":  lipgloss.Color("255"),
	"pink":   lipgloss.Color("205"),
	"gray":   lipgloss.Color("245"),
}

// Theme contains all visual styles for the board screen.
type Theme struct {
	// Tile styles, indexed by board.Color
	Tiles []lipgloss.Style

	EmptyCell lipgloss.Style
	Cursor    lipgloss.Style
	Fading    lipgloss.Style

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style
}

// NewTheme builds the theme for a palette of color names or #rrggbb values.
func NewTheme(palette []string) Theme {
	tiles := make([]lipgloss.Style, len(palette))
	for i, name := range palette {
		tiles[i] = lipgloss.NewStyle().Foreground(paletteColor(name))
	}

	return Theme{
		Tiles:     tiles,
		EmptyCell: lipgloss.NewStyle().Foreground(lipgloss.Color("238")), // Dark gray
		Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		Fading:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("255")).
			Padding(0, 2),
		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	}
}

// Tile returns the style for a tile color.
func (t Theme) Tile(c board.Color) lipgloss.Style {
	if int(c) < len(t.Tiles) {
		return t.Tiles[c]
	}
	return lipgloss.NewStyle()
}

func paletteColor(name string) lipgloss.Color {
	if strings.HasPrefix(name, "#") {
		return lipgloss.Color(name)
	}
	if c, ok := namedColors[strings.ToLower(name)]; ok {
		return c
	}
	return lipgloss.Color("7")
}
