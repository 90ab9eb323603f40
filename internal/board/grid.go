package board

import (
	"fmt"
	"math/rand"
	"strings"
)

// BoundsError is returned by direct Grid accessors for positions outside
// [0,N)x[0,N).
type BoundsError struct {
	Row, Col int
	N        int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("board: position (%d,%d) out of bounds for %dx%d grid", e.Row, e.Col, e.N, e.N)
}

// Grid is a square N×N board stored in row-major order: index = row*N + col.
type Grid struct {
	n     int
	cells []Cell
}

// NewGrid creates an N×N grid with every cell empty.
func NewGrid(n int) *Grid {
	if n < 0 {
		n = 0
	}
	return &Grid{
		n:     n,
		cells: make([]Cell, n*n),
	}
}

// NewRandomGrid creates an N×N grid with every cell filled from the first
// `colors` palette entries.
func NewRandomGrid(n, colors int, rng *rand.Rand) *Grid {
	g := NewGrid(n)
	g.Fill(rng, colors)
	return g
}

// Dimension returns N.
func (g *Grid) Dimension() int {
	return g.n
}

// InBounds reports whether (row, col) lies on the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.n && col >= 0 && col < g.n
}

func (g *Grid) index(row, col int) int {
	return row*g.n + col
}

// at returns the cell without a bounds check.
func (g *Grid) at(row, col int) Cell {
	return g.cells[g.index(row, col)]
}

func (g *Grid) put(row, col int, c Cell) {
	g.cells[g.index(row, col)] = c
}

// Get returns the cell at (row, col).
func (g *Grid) Get(row, col int) (Cell, error) {
	if !g.InBounds(row, col) {
		return Cell{}, &BoundsError{Row: row, Col: col, N: g.n}
	}
	return g.at(row, col), nil
}

// Set stores a cell at (row, col).
func (g *Grid) Set(row, col int, c Cell) error {
	if !g.InBounds(row, col) {
		return &BoundsError{Row: row, Col: col, N: g.n}
	}
	g.put(row, col, c)
	return nil
}

// Fill overwrites every cell with a random color from [0, colors).
func (g *Grid) Fill(rng *rand.Rand, colors int) {
	if colors < 1 {
		colors = 1
	}
	if colors > MaxColors {
		colors = MaxColors
	}
	for i := range g.cells {
		g.cells[i] = Filled(Color(rng.Intn(colors)))
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{n: g.n, cells: cells}
}

// Equal reports whether both grids have the same dimension and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.n != other.n {
		return false
	}
	for i, c := range g.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}

// FilledCount returns the number of filled cells.
func (g *Grid) FilledCount() int {
	count := 0
	for _, c := range g.cells {
		if c.Filled {
			count++
		}
	}
	return count
}

// IsCleared reports whether every cell is empty.
func (g *Grid) IsCleared() bool {
	for _, c := range g.cells {
		if c.Filled {
			return false
		}
	}
	return true
}

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]Cell {
	rows := make([][]Cell, g.n)
	for r := range g.n {
		rows[r] = make([]Cell, g.n)
		copy(rows[r], g.cells[r*g.n:(r+1)*g.n])
	}
	return rows
}

// String renders the grid as a layout string, rows separated by '/'.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.n*g.n + g.n)
	for r := range g.n {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := range g.n {
			sb.WriteString(g.at(r, c).String())
		}
	}
	return sb.String()
}

// Parse builds a grid from a layout string. Rows are separated by '/' or
// newlines; 'A'..'Z' are palette indices and '.' is an empty cell.
// The layout must be square.
func Parse(layout string) (*Grid, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(layout), "\n", "/")
	var rows []string
	for _, row := range strings.Split(normalized, "/") {
		row = strings.TrimSpace(row)
		if row != "" {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("board: empty layout")
	}

	n := len(rows)
	g := NewGrid(n)
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("board: layout row %d has %d cells, want %d", r, len(row), n)
		}
		for c := range n {
			ch := row[c]
			switch {
			case ch == '.':
				g.put(r, c, Empty())
			case ch >= 'A' && ch <= 'Z':
				g.put(r, c, Filled(Color(ch-'A')))
			default:
				return nil, fmt.Errorf("board: invalid layout character %q at (%d,%d)", ch, r, c)
			}
		}
	}
	return g, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// compiled-in layouts.
func MustParse(layout string) *Grid {
	g, err := Parse(layout)
	if err != nil {
		panic(err)
	}
	return g
}

// MaxColor returns the highest color index present, or -1 for a cleared grid.
func (g *Grid) MaxColor() int {
	maxColor := -1
	for _, c := range g.cells {
		if c.Filled && int(c.Color) > maxColor {
			maxColor = int(c.Color)
		}
	}
	return maxColor
}
