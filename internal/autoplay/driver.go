package autoplay

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/colorfall/internal/board"
	"github.com/vovakirdan/colorfall/internal/session"
)

// settler is a Presenter that queues the settle callback for every requested
// transition. The driver drains the queue after each intent, so no callback
// re-enters the session from inside a presenter call.
type settler struct {
	queue     []session.Phase
	completed bool
	renders   int
}

var _ session.Presenter = (*settler)(nil)

func (p *settler) RenderGrid(_ *board.Grid, falls board.Falls) {
	p.renders++
	if len(falls.Moving()) > 0 {
		p.queue = append(p.queue, session.PhaseFall)
	}
}

func (p *settler) RequestRemovalAnimation(board.Region) {
	p.queue = append(p.queue, session.PhaseRemoval)
}

func (p *settler) RequestRotationAnimation(board.Direction) {
	p.queue = append(p.queue, session.PhaseRotation)
}

func (p *settler) NotifyCompleted(time.Duration, int) { p.completed = true }
func (p *settler) NotifyLocked(bool) {}

// drain fires queued settles until the session stops requesting transitions.
func (p *settler) drain(s *session.Session) {
	for len(p.queue) > 0 {
		phase := p.queue[0]
		p.queue = p.queue[1:]
		switch phase {
		case session.PhaseRemoval:
			s.OnRemovalTransitionsSettled()
		case session.PhaseFall:
			s.OnFallTransitionsSettled()
		case session.PhaseRotation:
			s.OnRotationTransitionSettled()
		}
	}
}

// Options configures a batch of autoplay games.
type Options struct {
	Strategy Strategy
	Games    int
	Session  session.Options

	// RotateEvery rotates the board right after every n clicks. Zero never
	// rotates. Ignored when rotation is disabled in Session.
	RotateEvery int

	Logger *log.Logger
}

// Run plays opts.Games sessions to completion and calls onResult after each
// one. A non-nil error from onResult stops the run.
func Run(ctx context.Context, opts Options, onResult func(session.Result) error) ([]session.Result, error) {
	if opts.Games < 1 {
		opts.Games = 1
	}
	if opts.Strategy == "" {
		opts.Strategy = Largest
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = opts.Logger
	}

	rng := rand.New(rand.NewSource(opts.Session.Seed))
	p := &settler{}
	s := session.New(p, opts.Session)

	results := make([]session.Result, 0, opts.Games)
	for game := range opts.Games {
		if game > 0 {
			p.completed = false
			s.Reset()
		}

		if err := play(ctx, s, p, opts, rng); err != nil {
			return results, err
		}

		res := s.Result()
		opts.Logger.Info("game finished", "game", game+1, "strategy", opts.Strategy,
			"moves", res.Moves, "size", res.Size, "seed", res.Seed)
		results = append(results, res)

		if onResult != nil {
			if err := onResult(res); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

func play(ctx context.Context, s *session.Session, p *settler, opts Options, rng *rand.Rand) error {
	n := s.Dimension()
	// Every click removes at least one cell.
	limit := n * n
	for clicks := 0; !p.completed; clicks++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if clicks >= limit {
			return fmt.Errorf("autoplay: board not cleared after %d clicks", clicks)
		}

		if opts.RotateEvery > 0 && clicks > 0 && clicks%opts.RotateEvery == 0 && s.RotationEnabled() {
			s.Rotate(board.Right)
			p.drain(s)
		}

		pos, ok := opts.Strategy.Choose(s.Grid(), rng)
		if !ok {
			return fmt.Errorf("autoplay: no region on uncleared board")
		}
		if !s.ClickCell(pos.Row, pos.Col) {
			return fmt.Errorf("autoplay: click %v rejected in state %v", pos, s.State())
		}
		p.drain(s)
	}
	return nil
}
