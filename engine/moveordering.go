package engine

import "magic-engine/chessmg"

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 15, 14, 13, 12, 11, 10}, // victim Pawn
	{0, 25, 24, 23, 22, 21, 20}, // victim Knight
	{0, 35, 34, 33, 32, 31, 30}, // victim Bishop
	{0, 45, 44, 43, 42, 41, 40}, // victim Rook
	{0, 55, 54, 53, 52, 51, 50}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},       // victim King
}

/*
Move ordering offsets:
  - The transposition move comes first; it was best the last time this node was searched.
  - Promotions and captures follow so tactical shots are never missed, captures by MVV-LVA.
  - Killers beat plain history, and history is capped below killerOffset.
*/
const (
	ttMoveOffset    int32 = 30000
	promotionOffset int32 = 20000
	captureOffset   int32 = 15000
	killerOffset    int32 = 2000
)

// capturedType returns the type taken by m, treating en passant as a pawn.
func capturedType(b *chessmg.Board, m chessmg.Move) chessmg.PieceType {
	if m.Kind() == chessmg.KindEnPassant {
		return chessmg.PieceTypePawn
	}
	return b.PieceAt(m.To()).Type()
}

// scoreMoves fills scores for every move of a full-width node.
func (s *Searcher) scoreMoves(b *chessmg.Board, moves []chessmg.Move, scores []int32, ply int, ttMove chessmg.Move) {
	side := b.SideToMove()
	for i, m := range moves {
		var moveEval int32
		switch {
		case m == ttMove:
			moveEval = ttMoveOffset
		case m.IsPromotion():
			moveEval = promotionOffset + int32(SeePieceValue[m.PromotionType()])
			if m.IsCapture() {
				moveEval += mvvLva[capturedType(b, m)][chessmg.PieceTypePawn]
			}
		case m.IsCapture():
			moveEval = captureOffset + mvvLva[capturedType(b, m)][b.PieceAt(m.From()).Type()]
		case ply <= MaxPly && s.killers.KillerMoves[ply][0] == m:
			moveEval = killerOffset + 200
		case ply <= MaxPly && s.killers.KillerMoves[ply][1] == m:
			moveEval = killerOffset
		default:
			moveEval = min(s.history.score(side, m), historyMaxVal)
		}
		scores[i] = moveEval
	}
}

// scoreCaptures orders quiescence moves: promotions, then MVV-LVA.
func scoreCaptures(b *chessmg.Board, moves []chessmg.Move, scores []int32) {
	for i, m := range moves {
		if m.IsPromotion() {
			scores[i] = promotionOffset + int32(SeePieceValue[m.PromotionType()])
			continue
		}
		scores[i] = captureOffset + mvvLva[capturedType(b, m)][b.PieceAt(m.From()).Type()]
	}
}

// Ordering the moves one at a time, at index given
func orderNextMove(currIndex int, moves []chessmg.Move, scores []int32) {
	bestIndex := currIndex
	bestScore := scores[bestIndex]

	for index := bestIndex + 1; index < len(moves); index++ {
		if scores[index] > bestScore {
			bestIndex = index
			bestScore = scores[index]
		}
	}

	moves[currIndex], moves[bestIndex] = moves[bestIndex], moves[currIndex]
	scores[currIndex], scores[bestIndex] = scores[bestIndex], scores[currIndex]
}
