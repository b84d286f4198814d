package engine

import (
	"time"

	"magic-engine/chessmg"
)

// TimeHandler turns search limits into a soft deadline, checked between
// iterations, and a hard deadline, polled inside the search.
type TimeHandler struct {
	start    time.Time
	soft     time.Time
	hard     time.Time
	timed    bool
	maxNodes uint64
}

// Engine-side safety knobs
const (
	minMoveTime    = 5 * time.Millisecond // never less than this
	maxFrac        = 0.7                  // never spend >70% of remaining time
	panicThreshold = time.Second
	panicFrac      = 0.90 // use 90% of inc in panic
	hardFactor     = 3    // hard deadline as a multiple of the budget
)

// StartTime fixes the deadlines for a search of b under l.
func (th *TimeHandler) StartTime(b *chessmg.Board, l Limits) {
	th.start = time.Now()
	th.timed = false
	th.soft, th.hard = time.Time{}, time.Time{}
	th.maxNodes = l.Nodes
	if l.Infinite {
		th.maxNodes = 0
		return
	}

	if l.MoveTime > 0 {
		budget := max(l.MoveTime-l.Overhead, minMoveTime)
		th.setDeadlines(th.start.Add(budget), th.start.Add(budget))
	}

	rem, inc := l.WTime, l.WInc
	if b.SideToMove() == chessmg.Black {
		rem, inc = l.BTime, l.BInc
	}
	if rem > 0 {
		budget := moveBudget(rem, inc, l.MovesToGo, GetPiecePhase(b), l.Overhead)
		hard := min(budget*hardFactor, time.Duration(float64(rem)*maxFrac)-l.Overhead)
		th.setDeadlines(th.start.Add(budget), th.start.Add(max(hard, budget)))
	}

	if !l.Deadline.IsZero() {
		th.setDeadlines(l.Deadline, l.Deadline)
	}
}

// setDeadlines tightens the current deadlines, never loosening them.
func (th *TimeHandler) setDeadlines(soft, hard time.Time) {
	if !th.timed || soft.Before(th.soft) {
		th.soft = soft
	}
	if !th.timed || hard.Before(th.hard) {
		th.hard = hard
	}
	if th.soft.After(th.hard) {
		th.soft = th.hard
	}
	th.timed = true
}

// moveBudget spends a share of the remaining clock plus most of the increment.
func moveBudget(rem, inc time.Duration, movesToGo, phase int, overhead time.Duration) time.Duration {
	movesLeft := movesToGo
	if movesLeft <= 0 {
		if inc > 0 {
			movesLeft = estimateMovesRemaining(phase)
		} else {
			movesLeft = 40
		}
	}

	var moveTime time.Duration
	if inc > 0 && rem < panicThreshold {
		// Panic: try to bank a little time
		moveTime = time.Duration(float64(inc) * panicFrac)
	} else {
		moveTime = rem/time.Duration(movesLeft) + inc
	}

	// Apply overhead and clamps
	moveTime = min(moveTime, time.Duration(float64(rem)*maxFrac))
	moveTime = min(moveTime, rem-overhead)
	return max(moveTime, minMoveTime)
}

// SoftTimeExceeded reports whether a new iteration should not be started.
func (th *TimeHandler) SoftTimeExceeded() bool {
	return th.timed && time.Now().After(th.soft)
}

// TimeStatus reports whether the running iteration must be abandoned.
func (th *TimeHandler) TimeStatus() bool {
	return th.timed && time.Now().After(th.hard)
}

// NodesExceeded reports whether the node budget is spent.
func (th *TimeHandler) NodesExceeded(nodes uint64) bool {
	return th.maxNodes > 0 && nodes >= th.maxNodes
}

// Elapsed is the time since StartTime.
func (th *TimeHandler) Elapsed() time.Duration {
	return time.Since(th.start)
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (clamp(phase, 0, TotalPhase)*25)/TotalPhase + 20
}
