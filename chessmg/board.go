package chessmg

import (
	"fmt"
	"math/bits"
)

// Piece encodes a colored piece. Black pieces are the white piece type | 8 so that
//   - piece & 7 gives the type in [1..6]
//   - piece & 8 != 0 indicates Black
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// MakePiece combines a side and a colorless type.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	if c == Black {
		return Piece(pt) | 8
	}
	return Piece(pt)
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// CastlingRights holds the four independent castling flags.
type CastlingRights uint8

const (
	CastlingWhiteK CastlingRights = 1 << iota
	CastlingWhiteQ
	CastlingBlackK
	CastlingBlackQ

	CastlingAll = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ
)

// Square represents a board position (0-63, a1 = 0, h8 = 63).
type Square int

const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// File returns the file index (0 = a).
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the rank index (0 = first rank).
func (sq Square) Rank() int { return int(sq) >> 3 }

func (sq Square) String() string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// ParseSquare converts algebraic coordinates ("e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: invalid square %q", ErrParse, s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}

// Bitboards exposes the per-piece bitboards for one color.
type Bitboards struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// undoState holds what UnmakeMove needs to restore the prior position.
type undoState struct {
	move          Move
	captured      Piece
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
}

// Board represents the chess board state, including piece placement and game state.
type Board struct {
	// index 0 = white, 1 = black
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	occupancy [2]uint64

	// Mailbox mirror of the bitboards
	pieces [64]Piece

	sideToMove      Color
	castlingRights  CastlingRights
	enPassantSquare Square
	halfmoveClock   int
	fullmoveNumber  int
	zobristKey      uint64

	history []undoState
}

// Copy returns an independent board, including its undo history.
func (b *Board) Copy() *Board {
	c := *b
	c.history = make([]undoState, len(b.history), len(b.history)+64)
	copy(c.history, b.history)
	return &c
}

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// CastlingRights returns the castling flags still available.
func (b *Board) CastlingRights() CastlingRights { return b.castlingRights }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// HalfmoveClock counts half-moves since the last capture or pawn move.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// Hash returns the current Zobrist hash key.
func (b *Board) Hash() uint64 { return b.zobristKey }

// Ply returns the number of moves that can currently be undone.
func (b *Board) Ply() int { return len(b.history) }

// PieceAt returns the piece on a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// Bitboards returns the per-piece bitboards for the requested side.
func (b *Board) Bitboards(c Color) Bitboards {
	idx := int(c)
	return Bitboards{
		Pawns:   b.pawns[idx],
		Knights: b.knights[idx],
		Bishops: b.bishops[idx],
		Rooks:   b.rooks[idx],
		Queens:  b.queens[idx],
		Kings:   b.kings[idx],
		All:     b.occupancy[idx],
	}
}

// PieceBitboard returns the bitboard of one colored piece.
func (b *Board) PieceBitboard(p Piece) uint64 {
	if p == NoPiece {
		return 0
	}
	return *b.pieceBB(p)
}

// KingSquare returns the king square of the given side, or NoSquare.
func (b *Board) KingSquare(c Color) Square {
	k := b.kings[int(c)]
	if k == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(k))
}

// InCheck reports whether the side to move has its king attacked.
func (b *Board) InCheck() bool {
	ks := b.KingSquare(b.sideToMove)
	if ks == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ks, b.sideToMove.Other())
}

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	var buf [MaxMoves]Move
	return len(b.GenerateMovesInto(buf[:0])) > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (b *Board) IsCheckmate() bool { return b.InCheck() && !b.HasLegalMoves() }

// IsStalemate reports whether the side to move is stalemated.
func (b *Board) IsStalemate() bool { return !b.InCheck() && !b.HasLegalMoves() }

// IsFiftyMoveDraw reports a 50-move rule draw (halfmoveClock counts half-moves).
func (b *Board) IsFiftyMoveDraw() bool { return b.halfmoveClock >= 100 }

// RepetitionCount returns how many earlier positions in the undo history match
// the current one. Only positions since the last irreversible move are scanned.
func (b *Board) RepetitionCount() int {
	n := len(b.history)
	start := n - b.halfmoveClock
	if start < 0 {
		start = 0
	}
	count := 0
	// Same side to move only: step back two plies at a time.
	for i := n - 2; i >= start; i -= 2 {
		if b.history[i].prevZobrist == b.zobristKey {
			count++
		}
	}
	return count
}

// IsRepetition reports whether the current position already occurred at least once.
func (b *Board) IsRepetition() bool { return b.RepetitionCount() > 0 }

// IsThreefoldRepetition reports a draw by threefold repetition.
func (b *Board) IsThreefoldRepetition() bool { return b.RepetitionCount() >= 2 }

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

func (b *Board) pieceBB(p Piece) *uint64 {
	ci := int(p.Color())
	switch p.Type() {
	case PieceTypePawn:
		return &b.pawns[ci]
	case PieceTypeKnight:
		return &b.knights[ci]
	case PieceTypeBishop:
		return &b.bishops[ci]
	case PieceTypeRook:
		return &b.rooks[ci]
	case PieceTypeQueen:
		return &b.queens[ci]
	default:
		return &b.kings[ci]
	}
}

// addPiece places a piece on an empty square and updates bitboards, occupancy and zobrist.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	b.pieces[int(sq)] = p
	b.occupancy[int(p.Color())] |= bb(sq)
	*b.pieceBB(p) |= bb(sq)
	b.zobristKey ^= zobristPiece[p][int(sq)]
}

// removePiece removes a piece from a square and updates bitboards, occupancy and zobrist.
func (b *Board) removePiece(sq Square) Piece {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return NoPiece
	}
	mask := ^bb(sq)
	b.pieces[int(sq)] = NoPiece
	b.occupancy[int(p.Color())] &= mask
	*b.pieceBB(p) &= mask
	b.zobristKey ^= zobristPiece[p][int(sq)]
	return p
}

// movePiece relocates the piece on from to an empty square to.
func (b *Board) movePiece(from, to Square) {
	p := b.removePiece(from)
	b.addPiece(to, p)
}

// Validate checks internal consistency between pieces[], per-piece bitboards,
// occupancy, king counts and the Zobrist key.
func (b *Board) Validate() error {
	var occ [2]uint64
	for c := 0; c < 2; c++ {
		kinds := [6]uint64{b.pawns[c], b.knights[c], b.bishops[c], b.rooks[c], b.queens[c], b.kings[c]}
		var union uint64
		for _, k := range kinds {
			if union&k != 0 {
				return fmt.Errorf("%s piece bitboards overlap", Color(c))
			}
			union |= k
		}
		if union != b.occupancy[c] {
			return fmt.Errorf("%s occupancy does not match piece bitboards", Color(c))
		}
		if n := bits.OnesCount64(b.kings[c]); n != 1 {
			return fmt.Errorf("%s has %d kings", Color(c), n)
		}
	}
	if b.occupancy[0]&b.occupancy[1] != 0 {
		return fmt.Errorf("white and black occupancy overlap")
	}
	for sq := Square(0); sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		if *b.pieceBB(p)&bb(sq) == 0 {
			return fmt.Errorf("mailbox has %c on %s but bitboard does not", charFromPiece(p), sq)
		}
		occ[int(p.Color())] |= bb(sq)
	}
	if occ != b.occupancy {
		return fmt.Errorf("mailbox does not match occupancy")
	}
	if b.zobristKey != b.ComputeZobrist() {
		return fmt.Errorf("zobrist key out of sync")
	}
	return nil
}
