package board

import "github.com/kamstrup/intmap"

// Region is a set of positions sharing one color and connected through
// 4-directional adjacency. Order is traversal order and carries no meaning.
type Region []Pos

// Len returns the number of cells in the region.
func (r Region) Len() int {
	return len(r)
}

// IsEmpty reports whether the region has no cells.
func (r Region) IsEmpty() bool {
	return len(r) == 0
}

// Index builds a lookup of region members keyed by flat grid index for an
// N×N grid.
func (r Region) Index(n int) *intmap.Map[int, struct{}] {
	idx := intmap.New[int, struct{}](len(r))
	for _, p := range r {
		idx.Put(p.Row*n+p.Col, struct{}{})
	}
	return idx
}

// Contains reports whether p is a member of the region.
func (r Region) Contains(p Pos) bool {
	for _, q := range r {
		if q == p {
			return true
		}
	}
	return false
}

// ConnectedRegion returns the maximal 4-connected same-color region that
// contains (row, col). An empty or out-of-bounds start yields an empty region.
//
// The traversal uses an explicit stack and a visited matrix, so each cell is
// examined at most once. Neighbors are pushed up, down, left, right.
func ConnectedRegion(g *Grid, row, col int) Region {
	if !g.InBounds(row, col) {
		return nil
	}
	start := g.at(row, col)
	if !start.Filled {
		return nil
	}

	visited := make([][]bool, g.n)
	for i := range visited {
		visited[i] = make([]bool, g.n)
	}

	var region Region
	stack := []Pos{{Row: row, Col: col}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !g.InBounds(p.Row, p.Col) || visited[p.Row][p.Col] {
			continue
		}
		visited[p.Row][p.Col] = true

		// Mismatched cells stay visited but are neither collected nor expanded.
		if !g.at(p.Row, p.Col).SameColor(start) {
			continue
		}

		region = append(region, p)
		stack = append(stack,
			Pos{Row: p.Row - 1, Col: p.Col},
			Pos{Row: p.Row + 1, Col: p.Col},
			Pos{Row: p.Row, Col: p.Col - 1},
			Pos{Row: p.Row, Col: p.Col + 1},
		)
	}
	return region
}

// Regions partitions every filled cell of the grid into its regions, in
// row-major order of each region's first cell.
func Regions(g *Grid) []Region {
	seen := intmap.New[int, struct{}](g.n * g.n)
	var regions []Region
	for r := range g.n {
		for c := range g.n {
			if _, ok := seen.Get(g.index(r, c)); ok || !g.at(r, c).Filled {
				continue
			}
			region := ConnectedRegion(g, r, c)
			for _, p := range region {
				seen.Put(g.index(p.Row, p.Col), struct{}{})
			}
			regions = append(regions, region)
		}
	}
	return regions
}

// Clear empties every position of the region. Positions off the grid are
// skipped.
func (g *Grid) Clear(region Region) {
	for _, p := range region {
		if g.InBounds(p.Row, p.Col) {
			g.put(p.Row, p.Col, Empty())
		}
	}
}
