package board

// Rotate returns the grid turned 90 degrees in the given direction.
// Cell values are only moved, never altered; gravity is not applied.
func Rotate(g *Grid, dir Direction) *Grid {
	n := g.n
	out := NewGrid(n)
	for i := range n {
		for j := range n {
			if dir == Right {
				out.put(i, j, g.at(n-1-j, i))
			} else {
				out.put(i, j, g.at(j, n-1-i))
			}
		}
	}
	return out
}
