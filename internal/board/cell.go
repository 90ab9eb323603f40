// Package board implements the pure simulation engine for Colorfall:
// the grid model, flood-fill region detection, gravity and rotation.
// Nothing in this package touches the terminal, the clock or the disk.
package board

import "fmt"

// Color is an index into the session palette.
type Color uint8

// MaxColors is the largest palette a grid can be filled from.
const MaxColors = 26

// Letter returns the layout letter for the color ('A' for index 0).
func (c Color) Letter() rune {
	if int(c) >= MaxColors {
		return '?'
	}
	return rune('A' + c)
}

// Cell is a single grid position. The zero value is an empty cell.
type Cell struct {
	Filled bool  // Whether the cell holds a tile
	Color  Color // Valid only when Filled is true
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// Filled returns a cell holding a tile of the given color.
func Filled(c Color) Cell {
	return Cell{Filled: true, Color: c}
}

// SameColor reports whether both cells are filled with the same color.
func (c Cell) SameColor(other Cell) bool {
	return c.Filled && other.Filled && c.Color == other.Color
}

// String returns the layout letter, or '.' for an empty cell.
func (c Cell) String() string {
	if !c.Filled {
		return "."
	}
	return string(c.Color.Letter())
}

// Pos is a row/column position. Row 0 is the visual top.
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns "(row,col)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is a rotation direction.
type Direction uint8

const (
	Left  Direction = iota // Counter-clockwise
	Right                  // Clockwise
)

// String returns "left" or "right".
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite returns the inverse rotation.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}
