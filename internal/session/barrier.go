package session

import (
	"time"

	"github.com/vovakirdan/colorfall/internal/board"
)

// Phase names the transition batch a busy session is waiting on.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseRemoval
	PhaseFall
	PhaseRotation
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseRemoval:
		return "removal"
	case PhaseFall:
		return "fall"
	case PhaseRotation:
		return "rotation"
	default:
		return "unknown"
	}
}

// rotationKey stands in for the single whole-grid rotation transition.
var rotationKey = board.Pos{Row: -1, Col: -1}

// Batch identifies one armed barrier. Every arm gets a new Batch, so acks
// dispatched for an earlier batch never count toward a later one. The zero
// Batch means nothing is pending.
type Batch uint64

// barrier is a join over every transition dispatched for one phase.
// It opens only when all of them have been acknowledged, in any order.
type barrier struct {
	phase   Phase
	batch   Batch
	seq     uint64
	waiting map[board.Pos]struct{}
	since   time.Time
}

// arm starts a new batch waiting for one ack per key.
func (b *barrier) arm(phase Phase, keys []board.Pos, now time.Time) {
	b.seq++
	b.batch = Batch(b.seq)
	b.phase = phase
	b.since = now
	b.waiting = make(map[board.Pos]struct{}, len(keys))
	for _, k := range keys {
		b.waiting[k] = struct{}{}
	}
}

// ack removes one outstanding transition of the batch and reports whether
// the barrier just opened. Acks for another batch and unknown or repeated
// keys are ignored.
func (b *barrier) ack(batch Batch, key board.Pos) bool {
	if b.phase == PhaseNone || batch != b.batch {
		return false
	}
	if _, ok := b.waiting[key]; !ok {
		return false
	}
	delete(b.waiting, key)
	return len(b.waiting) == 0
}

// release drops every outstanding transition of the phase and reports
// whether the phase was pending.
func (b *barrier) release(phase Phase) bool {
	if b.phase == PhaseNone || b.phase != phase {
		return false
	}
	b.waiting = nil
	return true
}

// pending returns how many acks are still outstanding.
func (b *barrier) pending() int {
	return len(b.waiting)
}

// reset drops the current batch. The sequence keeps counting.
func (b *barrier) reset() {
	b.phase = PhaseNone
	b.batch = 0
	b.waiting = nil
	b.since = time.Time{}
}
