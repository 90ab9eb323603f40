package session

import (
	"time"

	"github.com/vovakirdan/colorfall/internal/board"
)

// Presenter is the presentation side of a session. It draws grids, plays
// transitions and reports back through the session's settle callbacks
// (AckCell, OnRemovalTransitionsSettled, OnFallTransitionsSettled,
// OnRotationTransitionSettled).
//
// Calls are made from the goroutine driving the session. A presenter may
// settle synchronously from inside a request.
type Presenter interface {
	// RenderGrid asks for a full redraw. falls is nil for a fresh board and
	// otherwise holds one record per filled cell after gravity.
	RenderGrid(snapshot *board.Grid, falls board.Falls)

	// RequestRemovalAnimation starts the removal transition of every cell in
	// the region.
	RequestRemovalAnimation(region board.Region)

	// RequestRotationAnimation starts the whole-board rotation transition.
	RequestRotationAnimation(dir board.Direction)

	// NotifyCompleted reports a cleared board.
	NotifyCompleted(elapsed time.Duration, moves int)

	// NotifyLocked is advisory: true while a mutation cycle is in flight.
	NotifyLocked(locked bool)
}

// NopPresenter ignores every call. Useful as an embedded base.
type NopPresenter struct{}

func (NopPresenter) RenderGrid(*board.Grid, board.Falls) {}
func (NopPresenter) RequestRemovalAnimation(board.Region) {}
func (NopPresenter) RequestRotationAnimation(board.Direction) {}
func (NopPresenter) NotifyCompleted(time.Duration, int) {}
func (NopPresenter) NotifyLocked(bool) {}

var _ Presenter = NopPresenter{}
