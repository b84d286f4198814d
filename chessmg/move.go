package chessmg

import (
	"fmt"
	"strings"
)

// Move encodes a chess move in 16 bits:
//
//	bits  0-5  origin square
//	bits  6-11 destination square
//	bits 12-15 move kind
type Move uint16

// NullMove is the zero value; it never describes a real move (a1a1).
const NullMove Move = 0

// MoveKind is the 4-bit tag distinguishing special moves.
type MoveKind uint8

const (
	KindQuiet          MoveKind = 0
	KindDoublePawnPush MoveKind = 1
	KindKingCastle     MoveKind = 2
	KindQueenCastle    MoveKind = 3
	KindCapture        MoveKind = 4
	KindEnPassant      MoveKind = 5
	// 6 and 7 are undefined.
	KindPromoKnight        MoveKind = 8
	KindPromoBishop        MoveKind = 9
	KindPromoRook          MoveKind = 10
	KindPromoQueen         MoveKind = 11
	KindPromoCaptureKnight MoveKind = 12
	KindPromoCaptureBishop MoveKind = 13
	KindPromoCaptureRook   MoveKind = 14
	KindPromoCaptureQueen  MoveKind = 15
)

const (
	moveToShift   = 6
	moveKindShift = 12

	kindCaptureBit = 4
	kindPromoBit   = 8
)

// Valid reports whether the tag is one of the defined move kinds.
func (k MoveKind) Valid() bool { return k <= 15 && k != 6 && k != 7 }

// NewMove constructs a Move value from components.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(uint16(from&0x3F) | uint16(to&0x3F)<<moveToShift | uint16(kind&0xF)<<moveKindShift)
}

// newPromotion builds a promotion move to the given piece type.
func newPromotion(from, to Square, pt PieceType, capture bool) Move {
	kind := KindPromoKnight + MoveKind(pt-PieceTypeKnight)
	if capture {
		kind |= kindCaptureBit
	}
	return NewMove(from, to, kind)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((m >> moveToShift) & 0x3F) }

// Kind returns the move-kind tag.
func (m Move) Kind() MoveKind { return MoveKind(m >> moveKindShift) }

// IsCapture reports captures, including en passant and capture-promotions.
func (m Move) IsCapture() bool { return m.Kind()&kindCaptureBit != 0 }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.Kind()&kindPromoBit != 0 }

// IsCastle reports king- or queen-side castling.
func (m Move) IsCastle() bool { k := m.Kind(); return k == KindKingCastle || k == KindQueenCastle }

// PromotionType returns the promoted piece type, or PieceTypeNone.
func (m Move) PromotionType() PieceType {
	if !m.IsPromotion() {
		return PieceTypeNone
	}
	return PieceTypeKnight + PieceType(m.Kind()&3)
}

// Encode returns the fixed-width wire value of the move.
func (m Move) Encode() uint16 { return uint16(m) }

// DecodeMove is the inverse of Encode. It rejects undefined move-kind tags but
// does not check legality.
func DecodeMove(v uint16) (Move, error) {
	m := Move(v)
	if !m.Kind().Valid() {
		return NullMove, fmt.Errorf("%w: undefined move kind %d in %#04x", ErrFormat, m.Kind(), v)
	}
	return m, nil
}

var promoLetters = [7]byte{PieceTypeKnight: 'n', PieceTypeBishop: 'b', PieceTypeRook: 'r', PieceTypeQueen: 'q'}

// String produces the long algebraic form of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.PromotionType(); pt != PieceTypeNone {
		s += string(promoLetters[pt])
	}
	return s
}

// ParseMove resolves long algebraic text against the legal moves of the current
// position. Malformed text yields ErrParse; well-formed text naming a move that
// is not legal yields ErrIllegalMove. The board is never modified.
func (b *Board) ParseMove(text string) (Move, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("%w: invalid move %q", ErrParse, text)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: invalid move %q", ErrParse, text)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: invalid move %q", ErrParse, text)
	}
	promo := PieceTypeNone
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = PieceTypeKnight
		case 'b':
			promo = PieceTypeBishop
		case 'r':
			promo = PieceTypeRook
		case 'q':
			promo = PieceTypeQueen
		default:
			return NullMove, fmt.Errorf("%w: invalid promotion piece in %q", ErrParse, text)
		}
	}
	var buf [MaxMoves]Move
	for _, m := range b.GenerateMovesInto(buf[:0]) {
		if m.From() == from && m.To() == to && m.PromotionType() == promo {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, b.ToFEN())
}
