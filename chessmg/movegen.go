package chessmg

import "math/bits"

// MaxMoves bounds the number of moves in any reachable position.
const MaxMoves = 256

const (
	rank1 uint64 = 0x00000000000000FF
	rank2 uint64 = 0x000000000000FF00
	rank7 uint64 = 0x00FF000000000000
	rank8 uint64 = 0xFF00000000000000
)

// filter modes for selective generation
const (
	genAll = iota
	genCaptures
	genPseudo
)

// ==========================
// Attack queries
// ==========================

// attackersTo returns the pieces of color by that attack sq for the given occupancy.
func (b *Board) attackersTo(sq Square, by Color, occ uint64) uint64 {
	bi := int(by)
	return pawnAttacks[by.Other()][sq]&b.pawns[bi] |
		knightMoves[sq]&b.knights[bi] |
		kingMoves[sq]&b.kings[bi] |
		BishopAttacks(sq, occ)&(b.bishops[bi]|b.queens[bi]) |
		RookAttacks(sq, occ)&(b.rooks[bi]|b.queens[bi])
}

// AttackersTo returns the pieces of both colors attacking sq under the given
// occupancy. Pieces outside occ are still reported; callers mask them out.
func (b *Board) AttackersTo(sq Square, occ uint64) uint64 {
	return b.attackersTo(sq, White, occ) | b.attackersTo(sq, Black, occ)
}

// IsSquareAttacked reports whether the given square is attacked by the given color.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.attackersTo(sq, by, b.AllOccupancy()) != 0
}

// Checkers returns the enemy pieces currently giving check to the side to move.
func (b *Board) Checkers() uint64 {
	ks := b.KingSquare(b.sideToMove)
	if ks == NoSquare {
		return 0
	}
	return b.attackersTo(ks, b.sideToMove.Other(), b.AllOccupancy())
}

// pinnedPieces returns the pieces of side us that are absolutely pinned to the
// king on ks. Snipers are found on empty-board rays and each candidate line is
// resolved by bit-scanning, without recursion.
func (b *Board) pinnedPieces(us Color, ks Square, occ uint64) uint64 {
	them := int(us.Other())
	snipers := RookAttacks(ks, 0)&(b.rooks[them]|b.queens[them]) |
		BishopAttacks(ks, 0)&(b.bishops[them]|b.queens[them])
	var pinned uint64
	for snipers != 0 {
		s := popLSB(&snipers)
		blockers := betweenBB[ks][s] & occ
		if blockers != 0 && blockers&(blockers-1) == 0 && blockers&b.occupancy[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// ==========================
// Generation
// ==========================

// GenerateMoves generates all legal moves for the side to move.
// It allocates a new slice; prefer GenerateMovesInto to reuse buffers in hot paths.
func (b *Board) GenerateMoves() []Move { return b.GenerateMovesInto(make([]Move, 0, 64)) }

// GenerateMovesInto appends all legal moves for the side to move into dst[:0] and returns it.
func (b *Board) GenerateMovesInto(dst []Move) []Move { return b.generate(dst[:0], genAll) }

// GenerateCaptures returns legal captures, en passant captures and all promotions.
func (b *Board) GenerateCaptures() []Move { return b.GenerateCapturesInto(make([]Move, 0, 32)) }

// GenerateCapturesInto is the buffer-reusing form of GenerateCaptures.
func (b *Board) GenerateCapturesInto(dst []Move) []Move { return b.generate(dst[:0], genCaptures) }

// GeneratePseudoMoves returns moves that obey piece movement and blocking rules
// but are not checked for king safety. Castling still requires rights and an
// empty path, but ignores attacked squares.
func (b *Board) GeneratePseudoMoves() []Move { return b.generate(make([]Move, 0, 64), genPseudo) }

// IsLegal reports whether a pseudo-legal move leaves the mover's king safe,
// using make, test, unmake. Castling transit squares are also checked.
func (b *Board) IsLegal(m Move) bool {
	us := b.sideToMove
	if m.IsCastle() {
		if b.InCheck() || b.IsSquareAttacked((m.From()+m.To())/2, us.Other()) {
			return false
		}
	}
	b.MakeMove(m)
	ks := b.KingSquare(us)
	ok := ks != NoSquare && !b.IsSquareAttacked(ks, us.Other())
	b.UnmakeMove()
	return ok
}

// generate is the core generator. Order is deterministic: pawns, knights,
// bishops, rooks, queens, king; origins and destinations in ascending order.
func (b *Board) generate(moves []Move, filter int) []Move {
	us := b.sideToMove
	them := us.Other()
	ui := int(us)
	ownOcc := b.occupancy[ui]
	oppOcc := b.occupancy[int(them)]
	occ := ownOcc | oppOcc

	ks := b.KingSquare(us)
	checkMask := ^uint64(0)
	var pinned, checkers uint64
	if filter != genPseudo && ks != NoSquare {
		checkers = b.attackersTo(ks, them, occ)
		pinned = b.pinnedPieces(us, ks, occ)
		if checkers != 0 {
			if checkers&(checkers-1) != 0 {
				// Double check: only the king may move.
				return b.genKing(moves, filter, ks, ownOcc, oppOcc, occ, true)
			}
			checkMask = betweenBB[ks][bits.TrailingZeros64(checkers)] | checkers
		}
	}

	targetMask := ^ownOcc & checkMask
	if filter == genCaptures {
		targetMask &= oppOcc
	}

	moves = b.genPawns(moves, filter, ks, occ, oppOcc, checkMask, pinned)

	// destinations restricted by an absolute pin
	pinMask := func(from int) uint64 {
		if pinned&(uint64(1)<<uint(from)) != 0 {
			return lineBB[ks][from]
		}
		return ^uint64(0)
	}
	appendTargets := func(from int, targets uint64) {
		for targets != 0 {
			to := popLSB(&targets)
			kind := KindQuiet
			if oppOcc&(uint64(1)<<uint(to)) != 0 {
				kind = KindCapture
			}
			moves = append(moves, NewMove(Square(from), Square(to), kind))
		}
	}

	for knights := b.knights[ui] &^ pinned; knights != 0; {
		from := popLSB(&knights)
		appendTargets(from, knightMoves[from]&targetMask)
	}
	for bishops := b.bishops[ui]; bishops != 0; {
		from := popLSB(&bishops)
		appendTargets(from, BishopAttacks(Square(from), occ)&targetMask&pinMask(from))
	}
	for rooks := b.rooks[ui]; rooks != 0; {
		from := popLSB(&rooks)
		appendTargets(from, RookAttacks(Square(from), occ)&targetMask&pinMask(from))
	}
	for queens := b.queens[ui]; queens != 0; {
		from := popLSB(&queens)
		appendTargets(from, QueenAttacks(Square(from), occ)&targetMask&pinMask(from))
	}

	if ks == NoSquare {
		return moves
	}
	moves = b.genKing(moves, filter, ks, ownOcc, oppOcc, occ, checkers != 0)
	return moves
}

// genPawns appends pawn pushes, captures, promotions and en passant captures.
func (b *Board) genPawns(moves []Move, filter int, ks Square, occ, oppOcc, checkMask, pinned uint64) []Move {
	us := b.sideToMove
	them := us.Other()
	push, startRank, promoRank := 8, rank2, rank8
	if us == Black {
		push, startRank, promoRank = -8, rank7, rank1
	}

	for pawns := b.pawns[int(us)]; pawns != 0; {
		from := popLSB(&pawns)
		fromBB := uint64(1) << uint(from)
		allowed := checkMask
		if pinned&fromBB != 0 {
			allowed &= lineBB[ks][from]
		}

		// Pushes
		one := from + push
		oneBB := uint64(1) << uint(one)
		if occ&oneBB == 0 {
			if oneBB&promoRank != 0 {
				if oneBB&allowed != 0 {
					moves = appendPromotions(moves, Square(from), Square(one), false)
				}
			} else if filter != genCaptures {
				if oneBB&allowed != 0 {
					moves = append(moves, NewMove(Square(from), Square(one), KindQuiet))
				}
				two := one + push
				twoBB := uint64(1) << uint(two)
				if fromBB&startRank != 0 && occ&twoBB == 0 && twoBB&allowed != 0 {
					moves = append(moves, NewMove(Square(from), Square(two), KindDoublePawnPush))
				}
			}
		}

		// Captures
		caps := pawnAttacks[us][from]
		for targets := caps & oppOcc & allowed; targets != 0; {
			to := popLSB(&targets)
			if (uint64(1)<<uint(to))&promoRank != 0 {
				moves = appendPromotions(moves, Square(from), Square(to), true)
			} else {
				moves = append(moves, NewMove(Square(from), Square(to), KindCapture))
			}
		}

		// En passant: simulate the occupancy change and test king safety directly.
		if ep := b.enPassantSquare; ep != NoSquare && caps&bb(ep) != 0 {
			capSq := ep - Square(push)
			if filter == genPseudo || ks == NoSquare {
				moves = append(moves, NewMove(Square(from), ep, KindEnPassant))
				continue
			}
			after := occ&^fromBB&^bb(capSq) | bb(ep)
			if b.attackersTo(ks, them, after)&^bb(capSq) == 0 {
				moves = append(moves, NewMove(Square(from), ep, KindEnPassant))
			}
		}
	}
	return moves
}

func appendPromotions(moves []Move, from, to Square, capture bool) []Move {
	return append(moves,
		newPromotion(from, to, PieceTypeKnight, capture),
		newPromotion(from, to, PieceTypeBishop, capture),
		newPromotion(from, to, PieceTypeRook, capture),
		newPromotion(from, to, PieceTypeQueen, capture),
	)
}

// genKing appends king steps and castling. Destinations are tested with the
// king removed from the occupancy so it cannot hide behind itself on a ray.
func (b *Board) genKing(moves []Move, filter int, ks Square, ownOcc, oppOcc, occ uint64, inCheck bool) []Move {
	us := b.sideToMove
	them := us.Other()
	targets := kingMoves[ks] &^ ownOcc
	if filter == genCaptures {
		targets &= oppOcc
	}
	occNoKing := occ &^ bb(ks)
	for targets != 0 {
		to := popLSB(&targets)
		if filter != genPseudo && b.attackersTo(Square(to), them, occNoKing) != 0 {
			continue
		}
		kind := KindQuiet
		if oppOcc&(uint64(1)<<uint(to)) != 0 {
			kind = KindCapture
		}
		moves = append(moves, NewMove(ks, Square(to), kind))
	}

	if filter == genCaptures || (inCheck && filter != genPseudo) {
		return moves
	}

	type castle struct {
		right      CastlingRights
		king, dest Square
		rook       Square
		path       uint64 // must be empty
		safe       [2]Square
		kind       MoveKind
	}
	var options [2]castle
	if us == White {
		options = [2]castle{
			{CastlingWhiteK, E1, G1, H1, bb(F1) | bb(G1), [2]Square{F1, G1}, KindKingCastle},
			{CastlingWhiteQ, E1, C1, A1, bb(B1) | bb(C1) | bb(D1), [2]Square{D1, C1}, KindQueenCastle},
		}
	} else {
		options = [2]castle{
			{CastlingBlackK, E8, G8, H8, bb(F8) | bb(G8), [2]Square{F8, G8}, KindKingCastle},
			{CastlingBlackQ, E8, C8, A8, bb(B8) | bb(C8) | bb(D8), [2]Square{D8, C8}, KindQueenCastle},
		}
	}
	for _, c := range options {
		if b.castlingRights&c.right == 0 || ks != c.king || b.pieces[c.rook] != MakePiece(us, PieceTypeRook) || occ&c.path != 0 {
			continue
		}
		if filter != genPseudo && (b.attackersTo(c.safe[0], them, occ) != 0 || b.attackersTo(c.safe[1], them, occ) != 0) {
			continue
		}
		moves = append(moves, NewMove(c.king, c.dest, c.kind))
	}
	return moves
}

// ==========================
// Perft
// ==========================

// Perft counts leaf nodes (move sequences) from the position for a given depth.
// The board is restored before returning.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][MaxMoves]Move, depth)
	return perftRec(b, depth, bufs)
}

func perftRec(b *Board, depth int, bufs [][MaxMoves]Move) uint64 {
	moves := b.GenerateMovesInto(bufs[depth-1][:0])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		b.MakeMove(m)
		nodes += perftRec(b, depth-1, bufs)
		b.UnmakeMove()
	}
	return nodes
}

// PerftDivide returns a map from each legal root move to the number of leaf nodes
// reachable from that move at the given depth. Useful for debugging.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range b.GenerateMoves() {
		b.MakeMove(m)
		result[m] = Perft(b, depth-1)
		b.UnmakeMove()
	}
	return result
}
