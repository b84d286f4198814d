package chessmg

import (
	"errors"
	"fmt"
)

var (
	// ErrParse reports malformed position or move text.
	ErrParse = errors.New("parse error")
	// ErrIllegalMove reports well-formed move text that is not legal in the current position.
	ErrIllegalMove = errors.New("illegal move")
	// ErrFormat reports an encoded move with an undefined move-kind tag.
	ErrFormat = errors.New("format error")
	// ErrAttackTableConstruction reports that no magic constant could be found for a square.
	ErrAttackTableConstruction = errors.New("attack table construction failed")
)

// AttackTableError identifies the slider and square whose magic search failed.
type AttackTableError struct {
	Piece  PieceType
	Square Square
	Tries  int
}

func (e *AttackTableError) Error() string {
	kind := "rook"
	if e.Piece == PieceTypeBishop {
		kind = "bishop"
	}
	return fmt.Sprintf("%v: no %s magic for %s after %d tries", ErrAttackTableConstruction, kind, e.Square, e.Tries)
}

func (e *AttackTableError) Unwrap() error { return ErrAttackTableConstruction }
