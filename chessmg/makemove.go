package chessmg

// castleMask[sq] holds the rights that survive a move touching sq.
var castleMask [64]CastlingRights

func init() {
	for sq := range castleMask {
		castleMask[sq] = CastlingAll
	}
	castleMask[A1] &^= CastlingWhiteQ
	castleMask[H1] &^= CastlingWhiteK
	castleMask[E1] &^= CastlingWhiteK | CastlingWhiteQ
	castleMask[A8] &^= CastlingBlackQ
	castleMask[H8] &^= CastlingBlackK
	castleMask[E8] &^= CastlingBlackK | CastlingBlackQ
}

// castleRookSquares returns the rook's origin and destination for a castling
// move whose king lands on kingTo.
func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default: // C8
		return A8, D8
	}
}

// MakeMove applies a move to the board and records what is needed to undo it.
// It trusts the caller: any structurally well-formed move is applied without a
// legality check. Use GenerateMoves or ParseMove to obtain legal moves.
func (b *Board) MakeMove(m Move) {
	st := undoState{
		move:          m,
		prevCastling:  b.castlingRights,
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
	}

	from, to := m.From(), m.To()
	us := b.sideToMove
	moved := b.pieces[from]

	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
		b.enPassantSquare = NoSquare
	}

	switch kind := m.Kind(); {
	case kind == KindEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		st.captured = b.removePiece(capSq)
		b.movePiece(from, to)
	case kind == KindKingCastle || kind == KindQueenCastle:
		b.movePiece(from, to)
		rFrom, rTo := castleRookSquares(to)
		b.movePiece(rFrom, rTo)
	default:
		st.captured = b.removePiece(to)
		if m.IsPromotion() {
			b.removePiece(from)
			b.addPiece(to, MakePiece(us, m.PromotionType()))
		} else {
			b.movePiece(from, to)
		}
		if kind == KindDoublePawnPush {
			b.enPassantSquare = (from + to) / 2
			b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
		}
	}

	if newCR := b.castlingRights & castleMask[from] & castleMask[to]; newCR != b.castlingRights {
		b.zobristKey ^= zobristCastle[b.castlingRights] ^ zobristCastle[newCR]
		b.castlingRights = newCR
	}

	if moved.Type() == PieceTypePawn || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}

	b.sideToMove = us.Other()
	b.zobristKey ^= zobristSide
	b.history = append(b.history, st)
}

// UnmakeMove undoes the most recent MakeMove, restoring every field of the
// prior position. It panics if there is nothing to undo.
func (b *Board) UnmakeMove() {
	n := len(b.history)
	if n == 0 {
		panic("UnmakeMove: empty history")
	}
	st := b.history[n-1]
	b.history = b.history[:n-1]

	m := st.move
	from, to := m.From(), m.To()
	b.sideToMove = b.sideToMove.Other()
	us := b.sideToMove

	switch kind := m.Kind(); {
	case kind == KindEnPassant:
		b.movePiece(to, from)
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.addPiece(capSq, st.captured)
	case kind == KindKingCastle || kind == KindQueenCastle:
		rFrom, rTo := castleRookSquares(to)
		b.movePiece(rTo, rFrom)
		b.movePiece(to, from)
	default:
		if m.IsPromotion() {
			b.removePiece(to)
			b.addPiece(from, MakePiece(us, PieceTypePawn))
		} else {
			b.movePiece(to, from)
		}
		b.addPiece(to, st.captured)
	}

	b.castlingRights = st.prevCastling
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	// Exact restoration; the piece updates above XORed keys in and out.
	b.zobristKey = st.prevZobrist
}
