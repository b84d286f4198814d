package engine

import (
	"math/bits"

	"magic-engine/chessmg"
)

var SeePieceValue = [7]int{
	chessmg.PieceTypeKing:   5000,
	chessmg.PieceTypePawn:   100,
	chessmg.PieceTypeKnight: 300,
	chessmg.PieceTypeBishop: 300,
	chessmg.PieceTypeRook:   500,
	chessmg.PieceTypeQueen:  900}

// see runs the swap algorithm on the target square of move and returns the
// material balance for the side to move after the exchange settles.
// Sliders behind a capturer join in as the occupancy thins out.
func see(b *chessmg.Board, move chessmg.Move) int {
	var gain [32]int
	depth := 0
	sideToMove := b.SideToMove()

	initSquare := move.From()
	targetSquare := move.To()
	occ := b.AllOccupancy()

	attacker := b.PieceAt(initSquare).Type()
	targetPiece := b.PieceAt(targetSquare).Type()
	if move.Kind() == chessmg.KindEnPassant {
		targetPiece = chessmg.PieceTypePawn
		capSq := targetSquare - 8
		if sideToMove == chessmg.Black {
			capSq = targetSquare + 8
		}
		occ &^= uint64(1) << uint(capSq)
	}

	gain[depth] = SeePieceValue[targetPiece]
	if move.IsPromotion() {
		attacker = move.PromotionType()
		gain[depth] += SeePieceValue[attacker] - SeePieceValue[chessmg.PieceTypePawn]
	}
	attackerBB := uint64(1) << uint(initSquare)

	for attackerBB != 0 && depth < len(gain)-1 {
		depth++
		sideToMove = sideToMove.Other()
		gain[depth] = SeePieceValue[attacker] - gain[depth-1]

		// If we're in a losing position after the last trade, we break
		if max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		occ &^= attackerBB
		attadef := b.AttackersTo(targetSquare, occ) & occ & b.ColorOccupancy(sideToMove)
		attackerBB, attacker = minAttacker(b, attadef, sideToMove)
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

func minAttacker(b *chessmg.Board, attadef uint64, side chessmg.Color) (uint64, chessmg.PieceType) {
	if attadef == 0 {
		return 0, chessmg.PieceTypeNone
	}
	for pt := chessmg.PieceTypePawn; pt <= chessmg.PieceTypeKing; pt++ {
		if subset := attadef & b.PieceBitboard(chessmg.MakePiece(side, pt)); subset != 0 {
			return uint64(1) << uint(bits.TrailingZeros64(subset)), pt
		}
	}
	return 0, chessmg.PieceTypeNone
}
