// Package autoplay drives sessions headlessly: a strategy picks a region,
// and a presenter that settles every transition at once plays the board
// to completion.
package autoplay

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/colorfall/internal/board"
)

// Strategy selects which region to remove next.
type Strategy string

const (
	Largest  Strategy = "largest"  // Biggest region first
	Smallest Strategy = "smallest" // Smallest region first
	First    Strategy = "first"    // Row-major first region
	Random   Strategy = "random"   // Uniformly random region
)

// Strategies lists every known strategy.
var Strategies = []Strategy{Largest, Smallest, First, Random}

// ParseStrategy converts a string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Strategies {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("autoplay: unknown strategy %q (valid: largest, smallest, first, random)", s)
}

// Choose returns the position to click on g. ok is false when the grid has
// no filled cell. rng is only used by Random.
func (s Strategy) Choose(g *board.Grid, rng *rand.Rand) (pos board.Pos, ok bool) {
	regions := board.Regions(g)
	if len(regions) == 0 {
		return board.Pos{}, false
	}

	pick := 0
	switch s {
	case Largest:
		for i, r := range regions {
			if r.Len() > regions[pick].Len() {
				pick = i
			}
		}
	case Smallest:
		for i, r := range regions {
			if r.Len() < regions[pick].Len() {
				pick = i
			}
		}
	case Random:
		pick = rng.Intn(len(regions))
	}

	// The first cell of a region is where its flood fill started.
	return regions[pick][0], true
}
