package session_test

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/colorfall/internal/board"
	"github.com/vovakirdan/colorfall/internal/session"
)

type render struct {
	grid  string
	falls board.Falls
}

type completion struct {
	elapsed time.Duration
	moves   int
}

// recorder captures every presenter call without settling anything.
type recorder struct {
	renders   []render
	removals  []board.Region
	rotations []board.Direction
	locks     []bool
	completed []completion
}

func (r *recorder) RenderGrid(g *board.Grid, falls board.Falls) {
	r.renders = append(r.renders, render{grid: g.String(), falls: falls})
}

func (r *recorder) RequestRemovalAnimation(region board.Region) {
	r.removals = append(r.removals, region)
}

func (r *recorder) RequestRotationAnimation(dir board.Direction) {
	r.rotations = append(r.rotations, dir)
}

func (r *recorder) NotifyCompleted(elapsed time.Duration, moves int) {
	r.completed = append(r.completed, completion{elapsed: elapsed, moves: moves})
}

func (r *recorder) NotifyLocked(locked bool) {
	r.locks = append(r.locks, locked)
}

func (r *recorder) lastLock() bool {
	return r.locks[len(r.locks)-1]
}

// fakeClock is advanced by hand.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newSession(t *testing.T, layout string, rotation bool) (*session.Session, *recorder, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	s := session.New(rec, session.Options{
		Layout:   board.MustParse(layout),
		Colors:   3,
		Rotation: rotation,
		Logger:   log.New(io.Discard),
		Clock:    clock.Now,
	})
	return s, rec, clock
}

func TestNewSessionRendersBoard(t *testing.T) {
	s, rec, _ := newSession(t, "AAB/ACC/BBC", false)

	assert.Equal(t, session.StateIdle, s.State())
	assert.Equal(t, 0, s.Moves())
	require.Len(t, rec.renders, 1)
	assert.Equal(t, "AAB/ACC/BBC", rec.renders[0].grid)
	assert.Nil(t, rec.renders[0].falls)
	assert.False(t, rec.lastLock())
	assert.NotEmpty(t, s.ID())
}

func TestClickRemovesRegionExample(t *testing.T) {
	s, rec, _ := newSession(t, "AAB/ACC/BBC", false)

	require.True(t, s.ClickCell(0, 0))
	assert.Equal(t, session.StateBusy, s.State())
	assert.Equal(t, session.PhaseRemoval, s.Phase())
	assert.True(t, s.Locked())
	assert.True(t, rec.lastLock())
	assert.Equal(t, 1, s.Moves())
	require.Len(t, rec.removals, 1)
	assert.ElementsMatch(t, []board.Pos{board.P(0, 0), board.P(0, 1), board.P(1, 0)}, rec.removals[0])

	// The grid is untouched until the removal transitions settle.
	assert.Equal(t, "AAB/ACC/BBC", s.Grid().String())

	s.OnRemovalTransitionsSettled()

	assert.Equal(t, "..B/.CC/BBC", s.Grid().String())
	assert.Equal(t, session.StateIdle, s.State())
	assert.False(t, rec.lastLock())
	require.Len(t, rec.renders, 2)
	assert.Equal(t, "..B/.CC/BBC", rec.renders[1].grid)
	assert.Empty(t, rec.renders[1].falls.Moving())
	assert.Empty(t, rec.completed)
}

func TestIntentsWhileBusyAreDropped(t *testing.T) {
	s, rec, _ := newSession(t, "AAB/ACC/BBC", true)

	require.True(t, s.ClickCell(0, 0))
	before := s.Grid().String()

	assert.False(t, s.ClickCell(2, 2))
	assert.False(t, s.Rotate(board.Left))

	assert.Equal(t, before, s.Grid().String())
	assert.Len(t, rec.removals, 1)
	assert.Empty(t, rec.rotations)
	assert.Equal(t, 1, s.Moves())
	assert.Equal(t, session.PhaseRemoval, s.Phase())
}

func TestPerCellAcksJoinBeforeProgress(t *testing.T) {
	s, _, _ := newSession(t, "AAB/ACC/BBC", false)
	require.True(t, s.ClickCell(0, 0))
	batch := s.Batch()
	require.NotZero(t, batch)

	s.AckCell(batch, board.P(0, 0))
	s.AckCell(batch, board.P(0, 0)) // repeated ack counts once
	s.AckCell(batch, board.P(2, 2)) // not part of the batch
	s.AckCell(batch, board.P(1, 0))
	assert.Equal(t, session.StateBusy, s.State(), "one removal still outstanding")

	s.AckCell(batch, board.P(0, 1))
	assert.Equal(t, session.StateIdle, s.State())
	assert.Equal(t, "..B/.CC/BBC", s.Grid().String())
}

func TestSettleForWrongPhaseIsIgnored(t *testing.T) {
	s, _, _ := newSession(t, "AAB/ACC/BBC", true)
	require.True(t, s.ClickCell(0, 0))

	s.OnFallTransitionsSettled()
	s.OnRotationTransitionSettled()
	assert.Equal(t, session.PhaseRemoval, s.Phase())
	assert.Equal(t, "AAB/ACC/BBC", s.Grid().String())
}

func TestFallPhaseWaitsForMovingCells(t *testing.T) {
	s, rec, _ := newSession(t, "B./A.", false)

	require.True(t, s.ClickCell(1, 0))
	s.OnRemovalTransitionsSettled()

	assert.Equal(t, session.PhaseFall, s.Phase())
	assert.Equal(t, session.StateBusy, s.State())
	require.Len(t, rec.renders, 2)
	assert.Equal(t, "../B.", rec.renders[1].grid)
	require.Len(t, rec.renders[1].falls.Moving(), 1)
	assert.Equal(t, 1, rec.renders[1].falls.Moving()[0].Distance())

	assert.False(t, s.ClickCell(1, 0), "still busy during fall")

	s.AckCell(s.Batch(), board.P(1, 0))
	assert.Equal(t, session.StateIdle, s.State())
	assert.True(t, s.ClickCell(1, 0))
}

func TestCompletion(t *testing.T) {
	s, rec, clock := newSession(t, "A./A.", false)

	clock.Advance(3 * time.Second)
	require.True(t, s.ClickCell(0, 0))
	clock.Advance(2 * time.Second)
	s.OnRemovalTransitionsSettled()

	assert.Equal(t, session.StateCompleted, s.State())
	require.Len(t, rec.completed, 1)
	assert.Equal(t, 5*time.Second, rec.completed[0].elapsed)
	assert.Equal(t, 1, rec.completed[0].moves)
	assert.False(t, rec.lastLock())

	clock.Advance(time.Minute)
	assert.Equal(t, 5*time.Second, s.Elapsed(), "timer stops at completion")

	assert.False(t, s.ClickCell(0, 0))
	assert.False(t, s.Rotate(board.Right))

	res := s.Result()
	assert.Equal(t, s.ID(), res.SessionID)
	assert.Equal(t, 2, res.Size)
	assert.Equal(t, 1, res.Moves)
}

func TestResetStartsFreshSession(t *testing.T) {
	s, _, clock := newSession(t, "A./A.", false)
	firstID := s.ID()

	require.True(t, s.ClickCell(0, 0))
	s.OnRemovalTransitionsSettled()
	require.Equal(t, session.StateCompleted, s.State())

	clock.Advance(10 * time.Second)
	s.Reset()

	assert.Equal(t, session.StateIdle, s.State())
	assert.Equal(t, 0, s.Moves())
	assert.Equal(t, time.Duration(0), s.Elapsed())
	assert.Equal(t, "A./A.", s.Grid().String())
	assert.NotEqual(t, firstID, s.ID())
}

func TestInvalidClicksAreNoOps(t *testing.T) {
	s, rec, _ := newSession(t, "A./B.", false)

	tests := []struct {
		name     string
		row, col int
	}{
		{"empty cell", 0, 1},
		{"negative row", -1, 0},
		{"past last col", 0, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, s.ClickCell(tc.row, tc.col))
			assert.Equal(t, session.StateIdle, s.State())
			assert.Equal(t, 0, s.Moves())
			assert.Empty(t, rec.removals)
		})
	}
}

func TestRotationCycle(t *testing.T) {
	s, rec, _ := newSession(t, "AB/C.", true)

	require.True(t, s.Rotate(board.Right))
	assert.Equal(t, session.PhaseRotation, s.Phase())
	assert.Equal(t, []board.Direction{board.Right}, rec.rotations)
	assert.Equal(t, "AB/C.", s.Grid().String())

	s.OnRotationTransitionSettled()

	// Rotated to CA/.B, then C falls one row.
	assert.Equal(t, ".A/CB", s.Grid().String())
	assert.Equal(t, session.PhaseFall, s.Phase())

	s.AckCell(s.Batch(), board.P(1, 0))
	assert.Equal(t, session.StateIdle, s.State())
	assert.Equal(t, 0, s.Moves(), "rotation is not a move")
	assert.Equal(t, 1, s.Rotations())
}

func TestRotationDisabled(t *testing.T) {
	s, rec, _ := newSession(t, "AB/C.", false)

	assert.False(t, s.RotationEnabled())
	assert.False(t, s.Rotate(board.Left))
	assert.Empty(t, rec.rotations)
	assert.Equal(t, session.StateIdle, s.State())
}

func TestSettleTimeoutForcesProgress(t *testing.T) {
	s, _, clock := newSession(t, "AAB/ACC/BBC", false)
	require.True(t, s.ClickCell(0, 0))

	clock.Advance(time.Second)
	s.Tick(clock.Now())
	assert.Equal(t, session.StateBusy, s.State())

	clock.Advance(session.DefaultSettleTimeout)
	s.Tick(clock.Now())
	assert.Equal(t, session.StateIdle, s.State())
	assert.Equal(t, "..B/.CC/BBC", s.Grid().String())
}

func TestSettleTimeoutForcesEachPhase(t *testing.T) {
	tests := []struct {
		name  string
		start func(s *session.Session)
		phase session.Phase
		grid  string // after the forced settle
		state session.State
	}{
		{
			name:  "removal",
			start: func(s *session.Session) { s.ClickCell(1, 0) },
			phase: session.PhaseRemoval,
			grid:  "../B.", // B now waits on its fall
			state: session.StateBusy,
		},
		{
			name: "fall",
			start: func(s *session.Session) {
				s.ClickCell(1, 0)
				s.OnRemovalTransitionsSettled()
			},
			phase: session.PhaseFall,
			grid:  "../B.",
			state: session.StateIdle,
		},
		{
			name:  "rotation",
			start: func(s *session.Session) { s.Rotate(board.Right) },
			phase: session.PhaseRotation,
			grid:  "../AB", // rotated to AB/.. then both fell
			state: session.StateBusy,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _, clock := newSession(t, "B./A.", true)
			tc.start(s)
			require.Equal(t, tc.phase, s.Phase())
			batch := s.Batch()

			clock.Advance(session.DefaultSettleTimeout - time.Millisecond)
			s.Tick(clock.Now())
			assert.Equal(t, tc.phase, s.Phase(), "not yet timed out")

			clock.Advance(time.Millisecond)
			s.Tick(clock.Now())
			assert.Equal(t, tc.grid, s.Grid().String())
			assert.Equal(t, tc.state, s.State())
			assert.NotEqual(t, batch, s.Batch(), "forced settle ends the batch")
		})
	}
}

func TestNegativeSettleTimeoutDisablesFallback(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := session.New(nil, session.Options{
		Layout:        board.MustParse("AAB/ACC/BBC"),
		SettleTimeout: -1,
		Logger:        log.New(io.Discard),
		Clock:         clock.Now,
	})
	require.True(t, s.ClickCell(0, 0))

	clock.Advance(time.Hour)
	s.Tick(clock.Now())

	assert.Equal(t, session.StateBusy, s.State())
	assert.Equal(t, session.PhaseRemoval, s.Phase())
	assert.Equal(t, "AAB/ACC/BBC", s.Grid().String())
}

func TestAckFromForcedBatchDoesNotCountLater(t *testing.T) {
	s, rec, clock := newSession(t, "B../A../C..", false)

	// Remove C; B and A each fall one row.
	require.True(t, s.ClickCell(2, 0))
	s.OnRemovalTransitionsSettled()
	require.Equal(t, session.PhaseFall, s.Phase())
	fallBatch := s.Batch()

	// The fall transitions never report back and the timeout takes over.
	clock.Advance(session.DefaultSettleTimeout)
	s.Tick(clock.Now())
	require.Equal(t, session.StateIdle, s.State())
	require.Equal(t, ".../B../A..", s.Grid().String())

	require.True(t, s.ClickCell(2, 0))
	require.Equal(t, session.PhaseRemoval, s.Phase())

	// A late ack from the old fall names the same cell as the new removal.
	s.AckCell(fallBatch, board.P(2, 0))
	assert.Equal(t, session.StateBusy, s.State())
	assert.Equal(t, session.PhaseRemoval, s.Phase())
	assert.Equal(t, ".../B../A..", s.Grid().String())
	assert.Len(t, rec.removals, 2)

	s.AckCell(s.Batch(), board.P(2, 0))
	assert.Equal(t, session.PhaseFall, s.Phase())
	assert.Equal(t, ".../.../B..", s.Grid().String())
}

func TestResetOnClearedLayoutUnlocksOnce(t *testing.T) {
	s, rec, _ := newSession(t, "../..", false)

	assert.Equal(t, session.StateCompleted, s.State())
	assert.Equal(t, []bool{false}, rec.locks)
	require.Len(t, rec.completed, 1)
	assert.Equal(t, 0, rec.completed[0].moves)
}

func TestTickWhileIdleDoesNothing(t *testing.T) {
	s, rec, clock := newSession(t, "AB/BA", false)
	clock.Advance(time.Hour)
	s.Tick(clock.Now())
	assert.Equal(t, session.StateIdle, s.State())
	assert.Len(t, rec.renders, 1)
}

// instant settles every transition from inside the request.
type instant struct {
	s         *session.Session
	completed bool
}

func (p *instant) RenderGrid(_ *board.Grid, falls board.Falls) {
	if p.s != nil && len(falls.Moving()) > 0 {
		p.s.OnFallTransitionsSettled()
	}
}
func (p *instant) RequestRemovalAnimation(board.Region) { p.s.OnRemovalTransitionsSettled() }
func (p *instant) RequestRotationAnimation(board.Direction) { p.s.OnRotationTransitionSettled() }
func (p *instant) NotifyCompleted(time.Duration, int) { p.completed = true }
func (p *instant) NotifyLocked(bool) {}

func TestSynchronousPresenterRunsWholeCycle(t *testing.T) {
	p := &instant{}
	s := session.New(p, session.Options{
		Layout:   board.MustParse("AB/AB"),
		Rotation: true,
		Logger:   log.New(io.Discard),
	})
	p.s = s

	require.True(t, s.ClickCell(1, 0))
	assert.Equal(t, session.StateIdle, s.State())
	assert.Equal(t, ".B/.B", s.Grid().String())

	require.True(t, s.Rotate(board.Left))
	assert.Equal(t, session.StateIdle, s.State())
	assert.Equal(t, "../BB", s.Grid().String())

	require.True(t, s.ClickCell(1, 1))
	assert.Equal(t, session.StateCompleted, s.State())
	assert.True(t, p.completed)
}

func TestSameSeedSameBoard(t *testing.T) {
	opts := session.Options{Size: 5, Colors: 3, Seed: 77, Logger: log.New(io.Discard)}
	a := session.New(nil, opts)
	b := session.New(nil, opts)

	assert.True(t, a.Grid().Equal(b.Grid()))
	assert.Equal(t, a.Result().Seed, b.Result().Seed)
	assert.Equal(t, 25, a.Grid().FilledCount())
}
