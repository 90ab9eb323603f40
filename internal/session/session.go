// Package session implements the Colorfall turn state machine. A Session
// owns the grid, the move counter and the timer, and sequences
// remove -> gravity -> (rotate) -> completion around the presenter's
// asynchronous transitions.
package session

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/colorfall/internal/board"
)

// DefaultSettleTimeout bounds how long a phase may wait for its transitions.
const DefaultSettleTimeout = 5 * time.Second

// State is the externally visible session state.
type State int

const (
	StateIdle      State = iota // Accepting intents
	StateBusy                   // A mutation cycle is in flight
	StateCompleted              // Every cell is empty
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Options configures a session. They are fixed for its lifetime.
type Options struct {
	Size     int         // Grid dimension N
	Colors   int         // Number of palette entries used for random fills
	Layout   *board.Grid // Fixed starting grid; overrides Size and random fill
	Rotation bool        // Whether rotate intents are accepted

	// SettleTimeout forces a pending phase to settle. Zero uses
	// DefaultSettleTimeout; negative disables the fallback.
	SettleTimeout time.Duration

	Seed   int64            // Master seed for board generation
	Logger *log.Logger      // Defaults to log.Default()
	Clock  func() time.Time // Defaults to time.Now
}

// Result summarizes a completed session.
type Result struct {
	SessionID string
	Size      int
	Colors    int
	Seed      int64 // Board seed; zero for fixed layouts
	Moves     int
	Elapsed   time.Duration
}

// Session is a single game. It is not safe for concurrent use: every method
// must be called from the goroutine that drives the presenter.
type Session struct {
	opts      Options
	presenter Presenter
	logger    *log.Logger
	clock     func() time.Time
	master    *rand.Rand

	id         string
	seed       int64
	grid       *board.Grid
	state      State
	moves      int
	rotations  int
	startTime  time.Time
	finishedAt time.Time

	gate          barrier
	pendingRegion board.Region
	pendingDir    board.Direction
}

// New creates a session and deals the first board.
func New(p Presenter, opts Options) *Session {
	if p == nil {
		p = NopPresenter{}
	}
	if opts.Colors < 1 {
		opts.Colors = 3
	}
	if opts.Size < 1 {
		opts.Size = 5
	}
	if opts.SettleTimeout == 0 {
		opts.SettleTimeout = DefaultSettleTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Session{
		opts:      opts,
		presenter: p,
		logger:    opts.Logger,
		clock:     opts.Clock,
		master:    rand.New(rand.NewSource(opts.Seed)),
	}
	s.Reset()
	return s
}

// Reset starts a fresh session: new grid, zero moves, restarted timer.
func (s *Session) Reset() {
	s.id = uuid.NewString()
	if s.opts.Layout != nil {
		s.seed = 0
		s.grid = s.opts.Layout.Clone()
	} else {
		s.seed = s.master.Int63()
		s.grid = board.NewRandomGrid(s.opts.Size, s.opts.Colors, rand.New(rand.NewSource(s.seed)))
	}
	s.state = StateIdle
	s.moves = 0
	s.rotations = 0
	s.startTime = s.clock()
	s.finishedAt = time.Time{}
	s.gate.reset()
	s.pendingRegion = nil

	s.logger.Debug("session reset", "id", s.id, "size", s.grid.Dimension(), "seed", s.seed)

	s.presenter.RenderGrid(s.grid.Clone(), nil)

	// A fixed layout may already be empty.
	if s.grid.IsCleared() {
		s.complete()
		return
	}
	s.presenter.NotifyLocked(false)
}

// ClickCell handles a cell intent. It returns false when the intent was
// ignored: the session is busy or completed, or the cell is empty or off
// the grid.
func (s *Session) ClickCell(row, col int) bool {
	if !s.acceptIntent("click") {
		return false
	}
	cell, err := s.grid.Get(row, col)
	if err != nil {
		s.logger.Debug("intent ignored", "intent", "click", "reason", err)
		return false
	}
	if !cell.Filled {
		s.logger.Debug("intent ignored", "intent", "click", "reason", "empty cell", "row", row, "col", col)
		return false
	}

	s.moves++
	s.state = StateBusy
	region := board.ConnectedRegion(s.grid, row, col)
	s.pendingRegion = region
	s.gate.arm(PhaseRemoval, region, s.clock())

	s.logger.Debug("removing region", "row", row, "col", col, "size", region.Len(), "move", s.moves)

	s.presenter.NotifyLocked(true)
	s.presenter.RequestRemovalAnimation(append(board.Region(nil), region...))
	return true
}

// Rotate handles a rotate intent. It returns false when the intent was
// ignored: rotation is disabled, or the session is busy or completed.
func (s *Session) Rotate(dir board.Direction) bool {
	if !s.opts.Rotation {
		s.logger.Debug("intent ignored", "intent", "rotate", "reason", "rotation disabled")
		return false
	}
	if !s.acceptIntent("rotate") {
		return false
	}

	s.rotations++
	s.state = StateBusy
	s.pendingDir = dir
	s.gate.arm(PhaseRotation, []board.Pos{rotationKey}, s.clock())

	s.logger.Debug("rotating", "direction", dir)

	s.presenter.NotifyLocked(true)
	s.presenter.RequestRotationAnimation(dir)
	return true
}

func (s *Session) acceptIntent(intent string) bool {
	switch s.state {
	case StateBusy:
		s.logger.Debug("intent ignored", "intent", intent, "reason", "busy", "phase", s.gate.phase)
		return false
	case StateCompleted:
		s.logger.Debug("intent ignored", "intent", intent, "reason", "completed")
		return false
	}
	return true
}

// AckCell reports that the transition of the cell at p, dispatched for
// batch, finished. It counts toward the pending removal or fall batch; acks
// for an earlier batch or for a rotation are ignored.
func (s *Session) AckCell(batch Batch, p board.Pos) {
	phase := s.gate.phase
	if phase != PhaseRemoval && phase != PhaseFall {
		return
	}
	if batch != s.gate.batch {
		s.logger.Debug("stale ack ignored", "cell", p, "batch", batch, "current", s.gate.batch)
		return
	}
	if s.gate.ack(batch, p) {
		s.advance(phase)
	}
}

// OnRemovalTransitionsSettled reports that every removal transition finished.
func (s *Session) OnRemovalTransitionsSettled() {
	if s.gate.release(PhaseRemoval) {
		s.advance(PhaseRemoval)
	}
}

// OnFallTransitionsSettled reports that every fall transition finished.
func (s *Session) OnFallTransitionsSettled() {
	if s.gate.release(PhaseFall) {
		s.advance(PhaseFall)
	}
}

// OnRotationTransitionSettled reports that the rotation transition finished.
func (s *Session) OnRotationTransitionSettled() {
	if s.gate.release(PhaseRotation) {
		s.advance(PhaseRotation)
	}
}

// Tick forces the pending phase to settle once it has waited longer than the
// settle timeout. Presenters that may drop transitions should call it
// periodically.
func (s *Session) Tick(now time.Time) {
	if s.state != StateBusy || s.gate.phase == PhaseNone || s.opts.SettleTimeout < 0 {
		return
	}
	waited := now.Sub(s.gate.since)
	if waited < s.opts.SettleTimeout {
		return
	}

	phase := s.gate.phase
	s.logger.Warn("forcing settle", "phase", phase, "pending", s.gate.pending(), "waited", waited)
	if s.gate.release(phase) {
		s.advance(phase)
	}
}

// advance runs the continuation of a phase whose barrier just opened.
func (s *Session) advance(phase Phase) {
	s.gate.reset()
	switch phase {
	case PhaseRemoval:
		s.grid.Clear(s.pendingRegion)
		s.pendingRegion = nil
		s.settle()
	case PhaseRotation:
		s.grid = board.Rotate(s.grid, s.pendingDir)
		s.settle()
	case PhaseFall:
		s.finishCycle()
	}
}

// settle applies gravity and waits for the resulting fall transitions.
func (s *Session) settle() {
	grid, falls := board.ApplyGravity(s.grid)
	s.grid = grid

	moving := falls.Moving()
	if len(moving) == 0 {
		s.presenter.RenderGrid(s.grid.Clone(), falls)
		s.finishCycle()
		return
	}

	keys := make([]board.Pos, len(moving))
	for i, f := range moving {
		keys[i] = board.P(f.To, f.Col)
	}
	s.gate.arm(PhaseFall, keys, s.clock())
	s.presenter.RenderGrid(s.grid.Clone(), falls)
}

func (s *Session) finishCycle() {
	s.gate.reset()
	if s.grid.IsCleared() {
		s.complete()
		return
	}
	s.state = StateIdle
	s.presenter.NotifyLocked(false)
}

func (s *Session) complete() {
	s.state = StateCompleted
	s.finishedAt = s.clock()
	elapsed := s.Elapsed()

	s.logger.Info("board cleared", "id", s.id, "moves", s.moves, "elapsed", elapsed)

	s.presenter.NotifyLocked(false)
	s.presenter.NotifyCompleted(elapsed, s.moves)
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Grid returns a copy of the current grid.
func (s *Session) Grid() *board.Grid {
	return s.grid.Clone()
}

// Dimension returns N.
func (s *Session) Dimension() int {
	return s.grid.Dimension()
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Locked reports whether a mutation cycle is in flight.
func (s *Session) Locked() bool {
	return s.state == StateBusy
}

// Phase returns the transition batch the session is waiting on.
func (s *Session) Phase() Phase {
	return s.gate.phase
}

// Batch identifies the pending transition batch, or is zero when none is
// pending. Presenters tag per-cell acks with it.
func (s *Session) Batch() Batch {
	return s.gate.batch
}

// Moves returns the number of accepted cell intents.
func (s *Session) Moves() int {
	return s.moves
}

// Rotations returns the number of accepted rotate intents.
func (s *Session) Rotations() int {
	return s.rotations
}

// RotationEnabled reports whether rotate intents are accepted.
func (s *Session) RotationEnabled() bool {
	return s.opts.Rotation
}

// Elapsed returns the time since the session started, frozen at completion.
func (s *Session) Elapsed() time.Duration {
	if s.state == StateCompleted {
		return s.finishedAt.Sub(s.startTime)
	}
	return s.clock().Sub(s.startTime)
}

// Result returns the session summary. It is meaningful once completed.
func (s *Session) Result() Result {
	return Result{
		SessionID: s.id,
		Size:      s.grid.Dimension(),
		Colors:    s.opts.Colors,
		Seed:      s.seed,
		Moves:     s.moves,
		Elapsed:   s.Elapsed(),
	}
}
