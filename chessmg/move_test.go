package chessmg_test

import (
	"errors"
	"testing"

	"magic-engine/chessmg"
)

func TestMoveEncodeDecodeAllLegalMoves(t *testing.T) {
	fens := []string{
		chessmg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		for _, m := range b.GenerateMoves() {
			got, err := chessmg.DecodeMove(m.Encode())
			if err != nil {
				t.Fatalf("DecodeMove(%#04x): %v", m.Encode(), err)
			}
			if got != m || got.From() != m.From() || got.To() != m.To() || got.Kind() != m.Kind() {
				t.Fatalf("round trip of %s: got %s", m, got)
			}
		}
	}
}

func TestDecodeMoveRejectsUndefinedKinds(t *testing.T) {
	for _, kind := range []uint16{6, 7} {
		v := uint16(chessmg.E2) | uint16(chessmg.E4)<<6 | kind<<12
		if _, err := chessmg.DecodeMove(v); !errors.Is(err, chessmg.ErrFormat) {
			t.Fatalf("kind %d: expected ErrFormat, got %v", kind, err)
		}
	}
}

func TestMoveAccessors(t *testing.T) {
	m := chessmg.NewMove(chessmg.E7, chessmg.F8, chessmg.KindPromoCaptureKnight)
	if m.From() != chessmg.E7 || m.To() != chessmg.F8 {
		t.Fatalf("squares: got %s %s", m.From(), m.To())
	}
	if !m.IsCapture() || !m.IsPromotion() || m.IsCastle() {
		t.Fatalf("flags wrong for %s", m)
	}
	if m.PromotionType() != chessmg.PieceTypeKnight {
		t.Fatalf("promotion type: got %d", m.PromotionType())
	}
	if s := m.String(); s != "e7f8n" {
		t.Fatalf("String: got %q want %q", s, "e7f8n")
	}
	ep := chessmg.NewMove(chessmg.E5, chessmg.D6, chessmg.KindEnPassant)
	if !ep.IsCapture() || ep.IsPromotion() {
		t.Fatalf("en passant should be a non-promoting capture")
	}
	if chessmg.NullMove.String() != "0000" {
		t.Fatalf("null move text: got %q", chessmg.NullMove.String())
	}
}

func TestParseMove(t *testing.T) {
	b := mustFEN(t, "r3k2r/1P6/8/8/8/8/8/R3K2R w KQkq - 0 1")
	cases := []struct {
		text string
		kind chessmg.MoveKind
	}{
		{"e1g1", chessmg.KindKingCastle},
		{"e1c1", chessmg.KindQueenCastle},
		{"b7b8q", chessmg.KindPromoQueen},
		{"b7a8r", chessmg.KindPromoCaptureRook},
		{"B7B8N", chessmg.KindPromoKnight},
		{"a1a8", chessmg.KindCapture},
		{"a1a2", chessmg.KindQuiet},
	}
	before := b.ToFEN()
	for _, tc := range cases {
		m, err := b.ParseMove(tc.text)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tc.text, err)
		}
		if m.Kind() != tc.kind {
			t.Fatalf("ParseMove(%q) kind: got %d want %d", tc.text, m.Kind(), tc.kind)
		}
	}
	if b.ToFEN() != before {
		t.Fatalf("ParseMove modified the board")
	}
}

func TestParseMoveErrors(t *testing.T) {
	b := mustFEN(t, chessmg.FENStartPos)
	for _, text := range []string{"", "e2", "e2e9", "z2e4", "e7e8x", "e2e4e5"} {
		if _, err := b.ParseMove(text); !errors.Is(err, chessmg.ErrParse) {
			t.Fatalf("ParseMove(%q): expected ErrParse, got %v", text, err)
		}
	}
	for _, text := range []string{"e2e5", "e1g1", "a7a6", "b7b8q"} {
		if _, err := b.ParseMove(text); !errors.Is(err, chessmg.ErrIllegalMove) {
			t.Fatalf("ParseMove(%q): expected ErrIllegalMove, got %v", text, err)
		}
	}
}
