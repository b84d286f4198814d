package chessmg_test

import (
	"testing"

	"magic-engine/chessmg"
)

func TestIsSquareAttackedRookFiles(t *testing.T) {
	b := mustFEN(t, "4r2k/8/8/8/8/8/8/4K3 w - - 0 1")
	if !b.InCheck() {
		t.Fatalf("expected White in check from rook on file")
	}
	if !b.IsSquareAttacked(chessmg.E1, chessmg.Black) {
		t.Fatalf("expected e1 attacked by Black")
	}
	b = mustFEN(t, "4r2k/8/8/8/8/4P3/8/4K3 w - - 0 1")
	if b.IsSquareAttacked(chessmg.E1, chessmg.Black) {
		t.Fatalf("did not expect e1 attacked after blocker added")
	}
}

func TestIsSquareAttackedBishopDiagonals(t *testing.T) {
	b := mustFEN(t, "7k/8/8/8/1b6/8/8/4K3 w - - 0 1")
	if !b.IsSquareAttacked(chessmg.E1, chessmg.Black) || !b.InCheck() {
		t.Fatalf("expected e1 attacked by bishop along diagonal")
	}
	b = mustFEN(t, "7k/8/8/8/1b6/8/3P4/4K3 w - - 0 1")
	if b.IsSquareAttacked(chessmg.E1, chessmg.Black) {
		t.Fatalf("did not expect e1 attacked after diagonal blocker")
	}
}

func TestIsSquareAttackedPawnsKnightsKings(t *testing.T) {
	b := mustFEN(t, "k7/8/8/3p4/4P3/5n2/8/4K3 w - - 0 1")
	if !b.IsSquareAttacked(chessmg.E4, chessmg.Black) {
		t.Fatalf("expected e4 attacked by black pawn from d5")
	}
	if !b.IsSquareAttacked(chessmg.E1, chessmg.Black) {
		t.Fatalf("expected e1 attacked by knight from f3")
	}
	if !b.IsSquareAttacked(chessmg.B7, chessmg.Black) {
		t.Fatalf("expected b7 attacked by king from a8")
	}
	if !b.IsSquareAttacked(chessmg.D5, chessmg.White) {
		t.Fatalf("expected d5 attacked by white pawn from e4")
	}
	if b.IsSquareAttacked(chessmg.E5, chessmg.White) {
		t.Fatalf("pawns do not attack straight ahead")
	}
}

func TestCheckersAndPinnedMoves(t *testing.T) {
	// Bishop on e2 is pinned by the rook on e8 and may only move along the file: it cannot.
	b := mustFEN(t, "4r2k/8/8/8/8/8/4B3/4K3 w - - 0 1")
	for _, m := range b.GenerateMoves() {
		if m.From() == chessmg.E2 {
			t.Fatalf("pinned bishop moved: %s", m)
		}
	}
	// Rook on e2 pinned on the file can slide along it and capture the pinner.
	b = mustFEN(t, "4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1")
	count := 0
	for _, m := range b.GenerateMoves() {
		if m.From() == chessmg.E2 {
			if m.To().File() != 4 {
				t.Fatalf("pinned rook left the file: %s", m)
			}
			count++
		}
	}
	if count != 6 {
		t.Fatalf("pinned rook moves: got %d want 6", count)
	}
	if b.Checkers() != 0 {
		t.Fatalf("no checkers expected")
	}
}
