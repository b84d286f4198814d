package engine

import (
	"testing"

	"magic-engine/chessmg"
)

func TestEvaluatorsAreSymmetricAtStart(t *testing.T) {
	b := mustBoard(t, chessmg.FENStartPos)
	for name, e := range map[string]Evaluator{"material": MaterialEvaluator{}, "pst": PSTEvaluator{}} {
		if got := e.Evaluate(b); got != 0 {
			t.Fatalf("%s: start position scored %d", name, got)
		}
	}
}

func TestEvaluationIsSideToMoveRelative(t *testing.T) {
	white := mustBoard(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := mustBoard(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	for name, e := range map[string]Evaluator{"material": MaterialEvaluator{}, "pst": PSTEvaluator{}} {
		w, bl := e.Evaluate(white), e.Evaluate(black)
		if w <= 0 || bl >= 0 || w != -bl {
			t.Fatalf("%s: white to move %d, black to move %d", name, w, bl)
		}
	}
	if got := (MaterialEvaluator{}).Evaluate(white); got != 900 {
		t.Fatalf("material: queen up scored %d", got)
	}
}

func TestMirroredPositionsScoreEqually(t *testing.T) {
	a := mustBoard(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	b := mustBoard(t, "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq - 2 3")
	e := PSTEvaluator{}
	if e.Evaluate(a) != e.Evaluate(b) {
		t.Fatalf("mirror mismatch: %d vs %d", e.Evaluate(a), e.Evaluate(b))
	}
}

func TestPiecePhase(t *testing.T) {
	if got := GetPiecePhase(mustBoard(t, chessmg.FENStartPos)); got != TotalPhase {
		t.Fatalf("start phase: got %d want %d", got, TotalPhase)
	}
	if got := GetPiecePhase(mustBoard(t, "4k3/pppp4/8/8/8/8/PPPP4/4K3 w - - 0 1")); got != 0 {
		t.Fatalf("pawn ending phase: got %d want 0", got)
	}
}

func TestEvaluatorFunc(t *testing.T) {
	var e Evaluator = EvaluatorFunc(func(*chessmg.Board) int32 { return 42 })
	if got := e.Evaluate(mustBoard(t, chessmg.FENStartPos)); got != 42 {
		t.Fatalf("EvaluatorFunc: got %d", got)
	}
}
