package board

import "github.com/kamstrup/intmap"

// Fall records how far one surviving cell moved during gravity.
type Fall struct {
	Col  int
	From int // Source row
	To   int // Destination row
}

// Distance returns the number of rows the cell fell.
func (f Fall) Distance() int {
	return f.To - f.From
}

// Falls holds one record per filled cell after gravity.
type Falls []Fall

// Moving returns only the records with a positive distance.
func (fs Falls) Moving() Falls {
	var moving Falls
	for _, f := range fs {
		if f.Distance() > 0 {
			moving = append(moving, f)
		}
	}
	return moving
}

// MaxDistance returns the longest fall, or 0.
func (fs Falls) MaxDistance() int {
	maxDist := 0
	for _, f := range fs {
		if d := f.Distance(); d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}

// Lookup indexes fall distances by destination for an N×N grid.
func (fs Falls) Lookup(n int) *FallLookup {
	m := intmap.New[int, int](len(fs))
	for _, f := range fs {
		m.Put(f.To*n+f.Col, f.Distance())
	}
	return &FallLookup{n: n, m: m}
}

// FallLookup answers "how far did the cell now at (row, col) fall".
type FallLookup struct {
	n int
	m *intmap.Map[int, int]
}

// Distance returns the fall distance of the cell now at (row, col), or 0.
func (l *FallLookup) Distance(row, col int) int {
	if l == nil {
		return 0
	}
	d, _ := l.m.Get(row*l.n + col)
	return d
}

// ApplyGravity compacts every column downward and returns the new grid with
// one Fall per surviving cell. The input grid is not modified.
//
// Columns are independent: each is scanned bottom to top and its filled
// cells are restacked from row N-1 upward in their original order.
func ApplyGravity(g *Grid) (*Grid, Falls) {
	out := NewGrid(g.n)
	falls := make(Falls, 0, g.FilledCount())
	for col := range g.n {
		dest := g.n - 1
		for row := g.n - 1; row >= 0; row-- {
			cell := g.at(row, col)
			if !cell.Filled {
				continue
			}
			out.put(dest, col, cell)
			falls = append(falls, Fall{Col: col, From: row, To: dest})
			dest--
		}
	}
	return out, falls
}
