package chessmg_test

import (
	"errors"
	"strings"
	"testing"

	"magic-engine/chessmg"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		chessmg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"4k3/8/8/8/8/8/8/4K2R b Kq - 12 40",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		if got := b.ToFEN(); got != fen {
			t.Fatalf("ToFEN: got %q want %q", got, fen)
		}
		if err := b.Validate(); err != nil {
			t.Fatalf("Validate %q: %v", fen, err)
		}
	}
}

func TestFENDefaultsClocks(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 w - -")
	if b.HalfmoveClock() != 0 || b.FullmoveNumber() != 1 {
		t.Fatalf("clocks: got %d %d want 0 1", b.HalfmoveClock(), b.FullmoveNumber())
	}
}

func TestFENAccessors(t *testing.T) {
	b := mustFEN(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w Kq f6 3 7")
	if b.SideToMove() != chessmg.White {
		t.Fatalf("side to move: got %s", b.SideToMove())
	}
	if b.CastlingRights() != chessmg.CastlingWhiteK|chessmg.CastlingBlackQ {
		t.Fatalf("castling rights: got %b", b.CastlingRights())
	}
	if b.EnPassantSquare() != chessmg.F6 {
		t.Fatalf("en passant: got %s", b.EnPassantSquare())
	}
	if b.HalfmoveClock() != 3 || b.FullmoveNumber() != 7 {
		t.Fatalf("clocks: got %d %d", b.HalfmoveClock(), b.FullmoveNumber())
	}
	if b.PieceAt(chessmg.E5) != chessmg.WhitePawn || b.PieceAt(chessmg.D8) != chessmg.BlackQueen {
		t.Fatalf("piece placement wrong")
	}
	if b.KingSquare(chessmg.Black) != chessmg.E8 {
		t.Fatalf("black king: got %s", b.KingSquare(chessmg.Black))
	}
}

func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"8/8/8/8/8/8/8/8 w - - 0 1",                                 // no kings
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",           // 7 ranks
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",  // 9 columns
		"rnbqkbnr/pppppppp/44/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", // consecutive digits
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",  // bad piece
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",  // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w QK - 0 1",    // castling order
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KKQ - 0 1",   // duplicate right
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1", // ep rank for white to move
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1", // negative clock
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",  // fullmove zero
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",    // 5 fields
		"Pnbqkbnr/pppppppp/8/8/8/8/1PPPPPPP/RNBQKBNR w KQkq - 0 1",  // pawn on back rank
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKKNR w KQkq - 0 1",  // two white kings
		"4k3/8/8/3P4/8/8/8/4K3 w - e6 0 1",                          // ep without a double-pushed pawn
		"4k3/8/4n3/3Pp3/8/8/8/4K3 w - e6 0 1",                       // ep target occupied
		"4k3/4b3/8/3Pp3/8/8/8/4K3 w - e6 0 1",                       // ep origin occupied
		"4k3/4R3/8/8/8/8/8/4K3 w - - 0 1",                           // side not to move in check
	}
	for _, fen := range bad {
		b, err := chessmg.ParseFEN(fen)
		if !errors.Is(err, chessmg.ErrParse) {
			t.Fatalf("ParseFEN(%q): expected ErrParse, got %v", fen, err)
		}
		if b != nil {
			t.Fatalf("ParseFEN(%q): expected nil board on error", fen)
		}
	}
}

func TestBoardStringDiagram(t *testing.T) {
	s := mustFEN(t, chessmg.FENStartPos).String()
	if !strings.HasPrefix(s, "8 r n b q k b n r\n") {
		t.Fatalf("diagram first rank wrong:\n%s", s)
	}
	if !strings.HasSuffix(s, chessmg.FENStartPos) {
		t.Fatalf("diagram should end with the FEN:\n%s", s)
	}
}

func TestFENEnPassantNeedsThePushedPawn(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3Pp3/8/8/8/4K3 w - e6 0 1")
	var ep []string
	for _, m := range b.GenerateMoves() {
		if m.Kind() == chessmg.KindEnPassant {
			ep = append(ep, m.String())
		}
	}
	if len(ep) != 1 || ep[0] != "d5e6" {
		t.Fatalf("en passant moves: got %v, want [d5e6]", ep)
	}

	if _, err := chessmg.ParseFEN("4k3/8/8/3P4/8/8/8/4K3 w - e6 0 1"); !errors.Is(err, chessmg.ErrParse) {
		t.Fatalf("en passant target with no pawn to capture: got %v", err)
	}
}
