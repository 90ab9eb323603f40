package tui

import (
	"time"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/colorfall/internal/board"
	"github.com/vovakirdan/colorfall/internal/config"
	"github.com/vovakirdan/colorfall/internal/session"
)

// removalAnim blinks the cells of a region before they disappear.
type removalAnim struct {
	batch session.Batch
	cells *intmap.Map[int, struct{}]
	left  int
}

// fallAnim slides every moving cell from its source row to its destination,
// one row per ticksPerRow frames. Each cell is acked as it lands.
type fallAnim struct {
	batch   session.Batch
	falls   board.Falls
	lookup  *board.FallLookup
	landed  []bool
	elapsed int
}

// rotationAnim holds the board still while the rotation indicator plays.
type rotationAnim struct {
	batch session.Batch
	dir   board.Direction
	left  int
}

// view is the presenter state shared by every copy of the Model. Presenter
// calls only record state; the tick loop performs the callbacks.
type view struct {
	timing config.TimingConfig
	batch  func() session.Batch // Pending batch of the session being presented

	grid     *board.Grid
	locked   bool
	removal  *removalAnim
	fall     *fallAnim
	rotation *rotationAnim
	frame    int

	completed bool
	elapsed   time.Duration
	moves     int
}

var _ session.Presenter = (*view)(nil)

func newView(timing config.TimingConfig) *view {
	return &view{timing: timing}
}

// currentBatch tags a transition with the batch it was requested for.
func (v *view) currentBatch() session.Batch {
	if v.batch == nil {
		return 0
	}
	return v.batch()
}

func (v *view) RenderGrid(snapshot *board.Grid, falls board.Falls) {
	v.grid = snapshot
	moving := falls.Moving()
	if len(moving) == 0 {
		v.fall = nil
		return
	}
	v.fall = &fallAnim{
		batch:  v.currentBatch(),
		falls:  moving,
		lookup: moving.Lookup(snapshot.Dimension()),
		landed: make([]bool, len(moving)),
	}
}

func (v *view) RequestRemovalAnimation(region board.Region) {
	v.removal = &removalAnim{
		batch: v.currentBatch(),
		cells: region.Index(v.grid.Dimension()),
		left:  v.timing.RemovalTicks,
	}
}

func (v *view) RequestRotationAnimation(dir board.Direction) {
	v.rotation = &rotationAnim{batch: v.currentBatch(), dir: dir, left: v.timing.RotationTicks}
}

func (v *view) NotifyCompleted(elapsed time.Duration, moves int) {
	v.completed = true
	v.elapsed = elapsed
	v.moves = moves
}

func (v *view) NotifyLocked(locked bool) {
	v.locked = locked
}

// clear drops every running transition and the completion overlay.
func (v *view) clear() {
	v.removal = nil
	v.fall = nil
	v.rotation = nil
	v.completed = false
}

// step advances transitions by one frame and reports finished ones to s.
// Falls are stepped before removal so a batch started by this frame's
// removal settle begins on the next frame. A transition whose batch is no
// longer pending was settled by the session's timeout and is dropped.
func (v *view) step(s *session.Session) {
	v.frame++
	v.dropStale(s.Batch())

	if a := v.fall; a != nil {
		landed := a.step(v.timing.FallTicksPerRow)
		if a.done() {
			v.fall = nil
		}
		for _, p := range landed {
			s.AckCell(a.batch, p)
		}
	}

	if a := v.removal; a != nil {
		a.left--
		if a.left <= 0 {
			v.removal = nil
			s.OnRemovalTransitionsSettled()
		}
	}

	if a := v.rotation; a != nil {
		a.left--
		if a.left <= 0 {
			v.rotation = nil
			s.OnRotationTransitionSettled()
		}
	}
}

// dropStale discards transitions requested for a batch other than current.
func (v *view) dropStale(current session.Batch) {
	if v.fall != nil && v.fall.batch != current {
		v.fall = nil
	}
	if v.removal != nil && v.removal.batch != current {
		v.removal = nil
	}
	if v.rotation != nil && v.rotation.batch != current {
		v.rotation = nil
	}
}

// animating reports whether any transition is running.
func (v *view) animating() bool {
	return v.removal != nil || v.fall != nil || v.rotation != nil
}

// removing reports whether the cell at (row, col) is part of the running
// removal transition.
func (v *view) removing(row, col int) bool {
	if v.removal == nil || v.grid == nil {
		return false
	}
	_, ok := v.removal.cells.Get(row*v.grid.Dimension() + col)
	return ok
}

// displayRow returns where the cell now at (row, col) is drawn while the
// fall transition runs.
func (v *view) displayRow(row, col int) int {
	if v.fall == nil {
		return row
	}
	d := v.fall.lookup.Distance(row, col)
	return row - d + min(v.fall.rows(v.timing.FallTicksPerRow), d)
}

func (a *fallAnim) step(ticksPerRow int) []board.Pos {
	a.elapsed++
	var landed []board.Pos
	for i, f := range a.falls {
		if a.landed[i] || a.elapsed < f.Distance()*ticksPerRow {
			continue
		}
		a.landed[i] = true
		landed = append(landed, board.P(f.To, f.Col))
	}
	return landed
}

// rows returns how many rows every cell has travelled so far.
func (a *fallAnim) rows(ticksPerRow int) int {
	if ticksPerRow <= 0 {
		return a.falls.MaxDistance()
	}
	return a.elapsed / ticksPerRow
}

func (a *fallAnim) done() bool {
	for _, l := range a.landed {
		if !l {
			return false
		}
	}
	return true
}
