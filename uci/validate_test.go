package uci

import (
	"errors"
	"testing"
)

func TestValidateAcceptsCommands(t *testing.T) {
	valid := []string{
		"uci",
		"\nuci",
		"\tuci",
		"\n\t   uci\n\n\t\t\n ",
		"debug on",
		"debug off",
		"isready",
		"setoption name Hash value 64",
		"setoption name Move Overhead value 100",
		"setoption name Evaluation value material",
		"ucinewgame",
		"position startpos",
		"position startpos moves e2e4 e7e5 g1f3",
		"position fen rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"position fen 8/P7/8/8/8/8/8/k6K w - - 0 1 moves a7a8q",
		"go",
		"go infinite",
		"go depth 6",
		"go wtime 300000 btime 300000 winc 2000 binc 2000 movestogo 40",
		"go wtime -12 btime 5000",
		"go movetime 500 nodes 100000",
		"stop",
		"ponderhit",
		"quit",
		"d",
		"perft 5",
	}
	for _, in := range valid {
		if _, err := Validate(in); err != nil {
			t.Fatalf("Validate(%q): %v", in, err)
		}
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	invalid := []string{
		"ci",
		"uuci",
		"ucii",
		"uci asdf",
		"uciasdf",
		"asdf uci",
		"1uci",
		"u ci",
		"$uci",
		"debug",
		"debug o",
		"debug onn",
		"debug on off",
		"ddebug on",
		"position",
		"position startpos moves e2e9",
		"position fen 8/8/8 w - - 0 1",
		"position fen rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0",
		"go depth",
		"go depth -1",
		"go fast",
		"setoption Hash 64",
		"perft",
		"perft x",
	}
	for _, in := range invalid {
		_, err := Validate(in)
		if !errors.Is(err, ErrInvalidCommand) {
			t.Fatalf("Validate(%q): expected ErrInvalidCommand, got %v", in, err)
		}
	}
}

func TestValidateNormalisesWhitespace(t *testing.T) {
	got, err := Validate("  go   depth\t4 ")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != "go depth 4" {
		t.Fatalf("normalised command: got %q", got)
	}
}
