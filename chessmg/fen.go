package chessmg

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewBoard returns the standard initial position.
func NewBoard() *Board {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		panic(err)
	}
	return b
}

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// charFromPiece converts a Piece constant to its FEN character representation.
func charFromPiece(p Piece) rune {
	const letters = " PNBRQK"
	c := rune(letters[p.Type()])
	if p.Color() == Black {
		c += 'a' - 'A'
	}
	return c
}

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: invalid FEN: %s", ErrParse, fmt.Sprintf(format, args...))
}

// ParseFEN parses a FEN string and returns a new Board set up to that position.
// The halfmove clock and fullmove number may be omitted and default to "0 1".
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return nil, fenError("expected 6 fields, got %d", len(fields))
	}

	board := &Board{enPassantSquare: NoSquare}

	// 1. Piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		lastDigit := false
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				if lastDigit {
					return nil, fenError("consecutive digits in rank %d", rank+1)
				}
				file += int(ch - '0')
				lastDigit = true
				continue
			}
			lastDigit = false
			piece := pieceFromChar(ch)
			if piece == NoPiece {
				return nil, fenError("unrecognized piece character %q", ch)
			}
			if file >= 8 {
				return nil, fenError("too many squares in rank %d", rank+1)
			}
			if piece.Type() == PieceTypePawn && (rank == 0 || rank == 7) {
				return nil, fenError("pawn on back rank")
			}
			board.addPiece(Square(rank*8+file), piece)
			file++
		}
		if file != 8 {
			return nil, fenError("rank %d does not have 8 columns", rank+1)
		}
	}
	for c := White; c <= Black; c++ {
		if board.kings[c] == 0 || board.kings[c]&(board.kings[c]-1) != 0 {
			return nil, fenError("%s must have exactly one king", c)
		}
	}

	// 2. Side to move
	switch fields[1] {
	case "w":
		board.sideToMove = White
	case "b":
		board.sideToMove = Black
	default:
		return nil, fenError("side to move must be 'w' or 'b'")
	}

	// 3. Castling rights, canonical order KQkq
	if fields[2] != "-" {
		order := "KQkq"
		last := -1
		for _, ch := range fields[2] {
			i := strings.IndexRune(order, ch)
			if i < 0 || i <= last {
				return nil, fenError("invalid castling rights %q", fields[2])
			}
			last = i
			board.castlingRights |= CastlingRights(1) << uint(i)
		}
	}

	// 4. En passant target square
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fenError("invalid en passant square %q", fields[3])
		}
		wantRank := 5
		if board.sideToMove == Black {
			wantRank = 2
		}
		if sq.Rank() != wantRank {
			return nil, fenError("en passant square %s on wrong rank", sq)
		}
		// The pawn that just double-pushed stands beyond the target, and the
		// squares it crossed are empty.
		pushed, origin := sq-8, sq+8
		if board.sideToMove == Black {
			pushed, origin = sq+8, sq-8
		}
		them := board.sideToMove.Other()
		if board.pieces[pushed] != MakePiece(them, PieceTypePawn) ||
			board.pieces[sq] != NoPiece || board.pieces[origin] != NoPiece {
			return nil, fenError("en passant square %s without a double-pushed pawn", sq)
		}
		board.enPassantSquare = sq
	}

	// The side that just moved cannot have left its king in check.
	if board.IsSquareAttacked(board.KingSquare(board.sideToMove.Other()), board.sideToMove) {
		return nil, fenError("side not to move is in check")
	}

	// 5-6. Clocks
	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return nil, fenError("halfmove clock %q is not a non-negative number", fields[4])
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return nil, fenError("fullmove number %q is not a positive number", fields[5])
	}
	board.halfmoveClock = half
	board.fullmoveNumber = full

	board.zobristKey = board.ComputeZobrist()
	return board, nil
}

// ToFEN produces the FEN string representation of the board's current state.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteRune(charFromPiece(p))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		for i, ch := range "KQkq" {
			if b.castlingRights&(CastlingRights(1)<<uint(i)) != 0 {
				sb.WriteRune(ch)
			}
		}
	}
	sb.WriteByte(' ')

	sb.WriteString(b.enPassantSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}

// String renders the board as an 8x8 diagram followed by its FEN.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte('1' + byte(rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			if p := b.pieces[rank*8+file]; p != NoPiece {
				sb.WriteRune(charFromPiece(p))
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(b.ToFEN())
	return sb.String()
}
