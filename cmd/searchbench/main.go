package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"magic-engine/chessmg"
	"magic-engine/engine"
)

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 8, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", chessmg.FENStartPos, "FEN to search")
	hashFlag := flag.Int("hash", engine.DefaultHashMB, "transposition table size in MB")
	evalFlag := flag.String("eval", "pst", "evaluator: pst or material")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	var eval engine.Evaluator
	switch *evalFlag {
	case "pst":
		eval = engine.PSTEvaluator{}
	case "material":
		eval = engine.MaterialEvaluator{}
	default:
		log.Fatalf("unknown evaluator %q", *evalFlag)
	}

	board, err := chessmg.ParseFEN(*fenFlag)
	if err != nil {
		log.Fatalf("parse FEN: %v", err)
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", *fenFlag, *depthFlag, *repeatFlag)

	searcher := engine.NewSearcher(*hashFlag, eval)
	searcher.OnIteration = func(info engine.Info) {
		fmt.Printf("  depth %d score %s nodes %d time %v pv %s\n",
			info.Depth, engine.FormatScore(info.Score), info.Nodes, info.Time, info.PV)
	}

	startAll := time.Now()
	var totalNodes uint64
	for i := 0; i < *repeatFlag; i++ {
		// Every run starts from empty tables, like a new game
		searcher.Clear()

		iterStart := time.Now()
		res := searcher.Search(board, engine.Limits{Depth: *depthFlag})
		iterElapsed := time.Since(iterStart)
		totalNodes += res.Nodes

		fmt.Printf("iteration %d: bestmove %v  nodes=%d  time=%v\n", i+1, res.Move, res.Nodes, iterElapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v  nps: %.0f\n", totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
