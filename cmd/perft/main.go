package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"magic-engine/chessmg"
)

func main() {
	fen := flag.String("fen", chessmg.FENStartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	crosscheck := flag.Bool("crosscheck", false, "Compare per-move counts against dragontoothmg")
	verify := flag.Bool("verify-tables", false, "Exhaustively verify slider attack tables and exit")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	if *verify {
		start := time.Now()
		if err := chessmg.VerifyAttackTables(); err != nil {
			fmt.Fprintf(os.Stderr, "attack tables: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("attack tables ok (%s)\n", time.Since(start))
		return
	}

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := chessmg.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	if *crosscheck {
		if mismatches := crossCheck(board, *fen, *depth); mismatches > 0 {
			fmt.Fprintf(os.Stderr, "%d root moves disagree\n", mismatches)
			os.Exit(1)
		}
		fmt.Println("crosscheck ok")
		return
	}

	// Optional divide output
	if *divide {
		div := chessmg.PerftDivide(board, *depth)
		moves := sortedMoves(div)
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	// Optional CPU profiling
	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	// Timing loop
	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += chessmg.Perft(board, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
}

func sortedMoves(div map[chessmg.Move]uint64) []chessmg.Move {
	moves := make([]chessmg.Move, 0, len(div))
	for m := range div {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
	return moves
}

// crossCheck prints every root move whose subtree count differs from the
// dragontoothmg generator and returns how many did.
func crossCheck(board *chessmg.Board, fen string, depth int) int {
	ours := chessmg.PerftDivide(board, depth)

	theirs := map[string]uint64{}
	db := dragontoothmg.ParseFen(fen)
	for _, m := range db.GenerateLegalMoves() {
		unapply := db.Apply(m)
		theirs[m.String()] = dragontoothPerft(&db, depth-1)
		unapply()
	}

	mismatches := 0
	for _, m := range sortedMoves(ours) {
		key := m.String()
		if n, ok := theirs[key]; !ok || n != ours[m] {
			fmt.Printf("%s: ours %d dragontoothmg %d\n", key, ours[m], n)
			mismatches++
		}
		delete(theirs, key)
	}
	for key, n := range theirs {
		fmt.Printf("%s: missing here, dragontoothmg %d\n", key, n)
		mismatches++
	}
	return mismatches
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		unapply()
	}
	return nodes
}
