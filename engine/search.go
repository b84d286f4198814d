package engine

import (
	"sync/atomic"
	"time"

	"magic-engine/chessmg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	MateScore int32 = 32000
	DrawScore int32 = 0

	// Deepest ply the search will ever reach, extensions included.
	MaxPly = 128
	// Deepest iteration started by iterative deepening.
	MaxDepth = 64

	mateThreshold = MateScore - MaxPly

	// Nodes between deadline and node budget checks
	pollInterval = 1024
)

// Outcome classifies the root position of a search.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Limits bounds a search. Zero fields are ignored; with no bound at all the
// search runs to MaxDepth or until Stop is called.
type Limits struct {
	Depth     int
	MoveTime  time.Duration
	Deadline  time.Time
	Nodes     uint64
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	// Overhead is reserved from every clock-derived budget.
	Overhead time.Duration
}

// Result is the outcome of the deepest fully completed iteration.
type Result struct {
	Move    chessmg.Move
	Score   int32
	Depth   int
	Nodes   uint64
	PV      []chessmg.Move
	Outcome Outcome
}

// Info is reported after every completed iteration.
type Info struct {
	Depth int
	Score int32
	Nodes uint64
	Time  time.Duration
	PV    PVLine
}

// Searcher runs one search at a time and owns every table that search
// touches. Only Stop may be called while Search is running.
type Searcher struct {
	// OnIteration, when set, is called from the searching goroutine.
	OnIteration func(Info)

	tt      *TransTable
	killers KillerStruct
	history historyTable
	eval    Evaluator
	stop    atomic.Bool

	board       *chessmg.Board
	nodes       uint64
	aborted     bool
	timeHandler TimeHandler

	moveBufs  [MaxPly + 1][chessmg.MaxMoves]chessmg.Move
	scoreBufs [MaxPly + 1][chessmg.MaxMoves]int32
}

// NewSearcher returns a searcher with a hashMB transposition table. A nil
// evaluator selects PSTEvaluator.
func NewSearcher(hashMB int, eval Evaluator) *Searcher {
	if hashMB <= 0 {
		hashMB = DefaultHashMB
	}
	if eval == nil {
		eval = PSTEvaluator{}
	}
	return &Searcher{tt: NewTransTable(hashMB), eval: eval}
}

// Stop asks a running search to return as soon as possible. A Stop issued
// before Search starts ends that search after its first node.
func (s *Searcher) Stop() { s.stop.Store(true) }

// ClearStop drops a pending Stop. Call it only while no search is running.
func (s *Searcher) ClearStop() { s.stop.Store(false) }

// Clear forgets everything learned from previous searches.
func (s *Searcher) Clear() {
	s.tt.Clear()
	s.killers.ClearKillers()
	s.history.clear()
}

// SetHashSize reallocates the transposition table.
func (s *Searcher) SetHashSize(mb int) { s.tt.Resize(mb) }

// HashSize reports the transposition table size in MB.
func (s *Searcher) HashSize() int { return s.tt.SizeMB() }

// SetEvaluator swaps the static evaluator. Cached scores came from the old
// one, so the transposition table is cleared.
func (s *Searcher) SetEvaluator(e Evaluator) {
	if e == nil {
		e = PSTEvaluator{}
	}
	s.eval = e
	s.tt.Clear()
}

// Search looks for the best move in b within limits. b is not modified.
func (s *Searcher) Search(b *chessmg.Board, limits Limits) Result {
	defer s.stop.Store(false)

	s.board = b.Copy()
	s.nodes = 0
	s.aborted = false
	s.killers.ClearKillers()
	s.timeHandler.StartTime(s.board, limits)

	var result Result
	rootMoves := s.board.GenerateMoves()
	if len(rootMoves) == 0 {
		if s.board.InCheck() {
			result.Outcome = Checkmate
			result.Score = -MateScore
		} else {
			result.Outcome = Stalemate
			result.Score = DrawScore
		}
		return result
	}

	// Fallback when not even depth 1 completes
	result.Move = s.firstOrderedMove(rootMoves)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth || limits.Infinite {
		maxDepth = MaxDepth
	}

	var pvLine PVLine
	for depth := 1; depth <= maxDepth; depth++ {
		score := s.alphabeta(depth, 0, -MaxScore, MaxScore, &pvLine)
		if s.aborted {
			break
		}

		result.Depth = depth
		result.Score = score
		result.PV = pvLine.Clone().Moves
		if m := pvLine.GetPVMove(); m != chessmg.NullMove {
			result.Move = m
		}
		if s.OnIteration != nil {
			s.OnIteration(Info{
				Depth: depth,
				Score: score,
				Nodes: s.nodes,
				Time:  s.timeHandler.Elapsed(),
				PV:    pvLine.Clone(),
			})
		}

		// A mate within depth plies is the shortest one there is
		if !limits.Infinite && IsMateScore(score) && MateScore-abs32(score) <= int32(depth) {
			break
		}
		if s.timeHandler.SoftTimeExceeded() {
			break
		}
	}
	result.Nodes = s.nodes
	return result
}

func (s *Searcher) firstOrderedMove(moves []chessmg.Move) chessmg.Move {
	var ttMove chessmg.Move
	if entry, ok := s.tt.getEntry(s.board.Hash()); ok {
		ttMove = entry.Move
	}
	scores := make([]int32, len(moves))
	ordered := append([]chessmg.Move(nil), moves...)
	s.scoreMoves(s.board, ordered, scores, 0, ttMove)
	orderNextMove(0, ordered, scores)
	return ordered[0]
}

// shouldStop polls the stop flag on every node and the clock and node budget
// every pollInterval nodes.
func (s *Searcher) shouldStop() bool {
	if s.aborted {
		return true
	}
	if s.stop.Load() {
		s.aborted = true
		return true
	}
	if s.nodes%pollInterval == 0 && (s.timeHandler.TimeStatus() || s.timeHandler.NodesExceeded(s.nodes)) {
		s.aborted = true
	}
	return s.aborted
}

func (s *Searcher) alphabeta(depth int, ply int, alpha, beta int32, pvLine *PVLine) int32 {
	pvLine.Clear()
	if s.shouldStop() {
		return 0
	}
	s.nodes++

	b := s.board
	isRoot := ply == 0
	if !isRoot && b.IsRepetition() {
		return DrawScore
	}

	inCheck := b.InCheck()
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}
	if ply >= MaxPly {
		return s.eval.Evaluate(b)
	}

	hash := b.Hash()
	ttMove := chessmg.NullMove
	if entry, found := s.tt.getEntry(hash); found {
		ttMove = entry.Move
		if !isRoot {
			if usable, score := s.tt.useEntry(entry, hash, depth, alpha, beta, ply); usable {
				return score
			}
		}
	}

	moves := b.GenerateMovesInto(s.moveBufs[ply][:0])
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		return DrawScore
	}
	if !isRoot && b.IsFiftyMoveDraw() {
		return DrawScore
	}

	scores := s.scoreBufs[ply][:len(moves)]
	s.scoreMoves(b, moves, scores, ply, ttMove)

	var childPVLine PVLine
	var bestMove chessmg.Move
	var ttFlag int8 = AlphaFlag
	side := b.SideToMove()

	for i := range moves {
		orderNextMove(i, moves, scores)
		move := moves[i]

		b.MakeMove(move)
		score := -s.alphabeta(depth-1, ply+1, -beta, -alpha, &childPVLine)
		b.UnmakeMove()

		if s.aborted {
			return 0
		}

		if score >= beta {
			if !move.IsCapture() && !move.IsPromotion() {
				s.killers.InsertKiller(move, ply)
				s.history.increment(side, move, depth)
			}
			s.tt.storeEntry(hash, depth, ply, move, beta, BetaFlag)
			return beta
		}
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			bestMove = move
			pvLine.Update(move, childPVLine)
		}
	}

	s.tt.storeEntry(hash, depth, ply, bestMove, alpha, ttFlag)
	return alpha
}

func (s *Searcher) quiescence(ply int, alpha, beta int32) int32 {
	if s.shouldStop() {
		return 0
	}
	s.nodes++

	b := s.board
	standpat := s.eval.Evaluate(b)
	if ply >= MaxPly {
		return standpat
	}
	if standpat >= beta {
		return beta
	}
	alpha = max32(alpha, standpat)

	moves := b.GenerateCapturesInto(s.moveBufs[ply][:0])
	scores := s.scoreBufs[ply][:len(moves)]
	scoreCaptures(b, moves, scores)

	for i := range moves {
		orderNextMove(i, moves, scores)
		move := moves[i]
		// Skip exchanges that lose material
		if !move.IsPromotion() && see(b, move) < 0 {
			continue
		}

		b.MakeMove(move)
		score := -s.quiescence(ply+1, -beta, -alpha)
		b.UnmakeMove()

		if s.aborted {
			return 0
		}
		if score >= beta {
			return beta
		}
		alpha = max32(alpha, score)
	}
	return alpha
}
