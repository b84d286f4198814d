package chessmg_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"magic-engine/chessmg"
)

func TestMakeUnmakeSpecialMoves(t *testing.T) {
	cases := []struct {
		name, fen, move, after string
	}{
		{"quiet", chessmg.FENStartPos, "g1f3", "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1"},
		{"double-push", chessmg.FENStartPos, "e2e4", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"capture", "r3k3/8/8/8/8/8/8/R3K3 w Qq - 0 1", "a1a8", "R3k3/8/8/8/8/8/8/4K3 b - - 0 1"},
		{"en-passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", "e5d6", "k7/8/3P4/8/8/8/8/7K b - - 0 2"},
		{"short-castle", "4k3/8/8/8/8/8/8/4K2R w K - 0 1", "e1g1", "4k3/8/8/8/8/8/8/5RK1 b - - 1 1"},
		{"long-castle", "r3k3/8/8/8/8/8/8/4K3 b q - 3 9", "e8c8", "2kr4/8/8/8/8/8/8/4K3 w - - 4 10"},
		{"promotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7a8q", "Qn5k/8/8/8/8/8/8/7K b - - 0 1"},
		{"promo-capture", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7b8r", "1R5k/8/8/8/8/8/8/7K b - - 0 1"},
		{"rook-capture-drops-right", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a8", "R3k2r/8/8/8/8/8/8/4K2R b Kk - 0 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustFEN(t, tc.fen)
			startFEN, startZ := b.ToFEN(), b.Hash()
			m, err := b.ParseMove(tc.move)
			if err != nil {
				t.Fatalf("ParseMove %s: %v", tc.move, err)
			}
			b.MakeMove(m)
			if err := b.Validate(); err != nil {
				t.Fatalf("board invalid after MakeMove: %v", err)
			}
			if got := b.ToFEN(); got != tc.after {
				t.Fatalf("after %s: got %q want %q", tc.move, got, tc.after)
			}
			if b.Hash() != b.ComputeZobrist() {
				t.Fatalf("incremental hash diverged after %s", tc.move)
			}
			b.UnmakeMove()
			if err := b.Validate(); err != nil {
				t.Fatalf("board invalid after UnmakeMove: %v", err)
			}
			if got := b.ToFEN(); got != startFEN {
				t.Fatalf("FEN mismatch after unmake: got %q want %q", got, startFEN)
			}
			if b.Hash() != startZ {
				t.Fatalf("zobrist mismatch after unmake")
			}
		})
	}
}

func TestUnmakeEmptyHistoryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty history")
		}
	}()
	mustFEN(t, chessmg.FENStartPos).UnmakeMove()
}

func TestCopyIsIndependent(t *testing.T) {
	b := mustFEN(t, chessmg.FENStartPos)
	m, _ := b.ParseMove("e2e4")
	b.MakeMove(m)
	c := b.Copy()
	m2, _ := c.ParseMove("e7e5")
	c.MakeMove(m2)
	if b.Ply() != 1 || c.Ply() != 2 {
		t.Fatalf("plies: original %d copy %d", b.Ply(), c.Ply())
	}
	c.UnmakeMove()
	c.UnmakeMove()
	if c.ToFEN() != chessmg.FENStartPos {
		t.Fatalf("copy did not carry history: %s", c.ToFEN())
	}
	if b.PieceAt(chessmg.E4) != chessmg.WhitePawn {
		t.Fatalf("original changed through copy")
	}
}

// Random games: every generated move is legal, hashes stay incremental and
// unwinding the whole game restores the start position.
func TestRandomPlayoutsRestoreState(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	starts := []string{
		chessmg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for game := 0; game < 60; game++ {
		fen := starts[game%len(starts)]
		b := mustFEN(t, fen)
		var fens []string
		for ply := 0; ply < 120; ply++ {
			moves := b.GenerateMoves()
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				us := b.SideToMove()
				b.MakeMove(m)
				if b.IsSquareAttacked(b.KingSquare(us), us.Other()) {
					t.Fatalf("move %s leaves king in check in %s", m, b.ToFEN())
				}
				b.UnmakeMove()
			}
			fens = append(fens, b.ToFEN())
			b.MakeMove(moves[rng.Intn(len(moves))])
			if b.Hash() != b.ComputeZobrist() {
				t.Fatalf("hash diverged at ply %d: %s", ply, b.ToFEN())
			}
		}
		for i := len(fens) - 1; i >= 0; i-- {
			b.UnmakeMove()
			if got := b.ToFEN(); got != fens[i] {
				t.Fatalf("unwind ply %d: got %q want %q", i, got, fens[i])
			}
		}
		if b.ToFEN() != fen {
			t.Fatalf("game %d did not unwind to the start", game)
		}
	}
}

// Legal moves equal the pseudo-legal moves that survive a make/test/unmake filter.
func TestLegalEqualsFilteredPseudo(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"8/8/8/K2pP2r/8/8/8/7k w - d6 0 1",
		"8/8/1k6/2b5/2pP4/8/5K2/8 b - d3 0 1",
		"4k3/8/8/8/8/5n2/8/r3K3 w - - 0 1",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		legal := map[chessmg.Move]bool{}
		for _, m := range b.GenerateMoves() {
			legal[m] = true
		}
		filtered := 0
		for _, m := range b.GeneratePseudoMoves() {
			if !b.IsLegal(m) {
				continue
			}
			filtered++
			if !legal[m] {
				t.Fatalf("%s: pseudo move %s is legal but not generated", fen, m)
			}
		}
		if filtered != len(legal) {
			t.Fatalf("%s: legal %d vs filtered pseudo %d", fen, len(legal), filtered)
		}
	}
}

func TestGenerateIntoMatchesAllocating(t *testing.T) {
	b := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var buf [chessmg.MaxMoves]chessmg.Move
	into := b.GenerateMovesInto(buf[:0])
	alloc := b.GenerateMoves()
	if len(into) != len(alloc) {
		t.Fatalf("GenerateMovesInto: got %d moves want %d", len(into), len(alloc))
	}
	for i := range into {
		if into[i] != alloc[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, into[i], alloc[i])
		}
	}
	caps := b.GenerateCapturesInto(buf[:0])
	for _, m := range caps {
		if !m.IsCapture() && !m.IsPromotion() {
			t.Fatalf("GenerateCaptures returned quiet move %s", m)
		}
	}
	want := 0
	for _, m := range alloc {
		if m.IsCapture() || m.IsPromotion() {
			want++
		}
	}
	if len(caps) != want {
		t.Fatalf("captures: got %d want %d", len(caps), want)
	}
}

func TestGenerationOrderIsDeterministic(t *testing.T) {
	b := mustFEN(t, chessmg.FENStartPos)
	moves := b.GenerateMoves()
	// Pawns come first, a2 before b2, single push before double push.
	if moves[0].String() != "a2a3" || moves[1].String() != "a2a4" {
		t.Fatalf("first moves: %s %s", moves[0], moves[1])
	}
	if last := moves[len(moves)-1].String(); last != "g1h3" {
		t.Fatalf("last move: got %s want g1h3", last)
	}
}
