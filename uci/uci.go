// Package uci drives a Searcher through the Universal Chess Interface.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"magic-engine/chessmg"
	"magic-engine/engine"
)

const (
	EngineName   = "magic-engine"
	EngineAuthor = "the magic-engine authors"
)

// Engine holds the protocol state: committed position, options and the
// running search, if any. Commands are executed one at a time; only the
// search worker runs concurrently.
type Engine struct {
	out      *syncWriter
	log      *log.Logger
	debug    atomic.Bool
	opts     Options
	board    *chessmg.Board
	searcher *engine.Searcher
	worker   *worker
}

// worker is one search running in the background.
type worker struct {
	done     chan struct{}
	release  chan struct{} // closed by stop; infinite searches wait for it
	once     sync.Once
	infinite bool
}

func (w *worker) signal() { w.once.Do(func() { close(w.release) }) }

// syncWriter serialises writes from the command loop and the search worker.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// New returns an engine writing protocol output to out.
func New(out io.Writer) *Engine {
	sw := &syncWriter{w: out}
	opts := DefaultOptions()
	e := &Engine{
		out:      sw,
		log:      log.New(sw, "info string ", 0),
		opts:     opts,
		board:    chessmg.NewBoard(),
		searcher: engine.NewSearcher(opts.Hash, evaluatorFor(opts.Evaluation)),
	}
	e.searcher.OnIteration = e.printInfo
	return e
}

func (e *Engine) println(a ...any) {
	fmt.Fprintln(e.out, a...)
}

func (e *Engine) debugf(format string, args ...any) {
	if e.debug.Load() {
		e.log.Printf(format, args...)
	}
}

// Run reads commands from in until quit or end of input. A reader goroutine
// feeds the command loop so that stop is seen while a search is running.
func (e *Engine) Run(in io.Reader) error {
	lines := make(chan string)
	quit := make(chan struct{})
	scanErr := make(chan error, 1)
	defer close(quit)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-quit:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for line := range lines {
		err := e.Execute(line)
		switch {
		case errors.Is(err, errQuit):
			e.join()
			return nil
		case errors.Is(err, ErrInvalidCommand):
			e.debugf("%v", err)
		case err != nil:
			e.log.Println(err)
		}
	}

	// End of input: let a bounded search finish and print its move.
	e.finish()
	return <-scanErr
}

// Execute validates and runs a single command line. Blank lines are ignored.
func (e *Engine) Execute(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	cmd, err := Validate(line)
	if err != nil {
		return err
	}
	tokens := strings.Fields(cmd)
	args := tokens[1:]

	switch tokens[0] {
	case "uci":
		e.println("id name", EngineName)
		e.println("id author", EngineAuthor)
		for _, l := range optionLines(DefaultOptions()) {
			e.println(l)
		}
		e.println("uciok")
	case "debug":
		e.debug.Store(args[0] == "on")
	case "isready":
		e.println("readyok")
	case "setoption":
		return e.setOption(cmd)
	case "ucinewgame":
		e.join()
		e.board = chessmg.NewBoard()
		e.searcher.Clear()
	case "position":
		b, err := parsePosition(args)
		if err != nil {
			return err
		}
		e.board = b
		e.debugf("position %s", b.ToFEN())
	case "go":
		e.startSearch(parseGo(args, e.opts))
	case "stop":
		e.join()
	case "ponderhit":
		// pondering is not supported
	case "quit":
		return errQuit
	case "d":
		e.println(e.board.String())
	case "perft":
		e.join()
		e.perft(perftDepth(args[0]))
	}
	return nil
}

func (e *Engine) setOption(cmd string) error {
	rest := strings.TrimPrefix(cmd, "setoption name ")
	name, value, _ := strings.Cut(rest, " value ")
	opts := e.opts
	if err := opts.set(name, value); err != nil {
		return err
	}
	e.join()
	if opts.Hash != e.opts.Hash {
		e.searcher.SetHashSize(opts.Hash)
	}
	if opts.Evaluation != e.opts.Evaluation {
		e.searcher.SetEvaluator(evaluatorFor(opts.Evaluation))
	}
	e.opts = opts
	e.debugf("option %s set to %s", name, value)
	return nil
}

// parsePosition builds the position on a scratch board so that a bad FEN or
// move leaves the committed position untouched.
func parsePosition(args []string) (*chessmg.Board, error) {
	var b *chessmg.Board
	rest := args[1:]
	if args[0] == "startpos" {
		b = chessmg.NewBoard()
	} else {
		var err error
		b, err = chessmg.ParseFEN(strings.Join(args[1:7], " "))
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		rest = args[7:]
	}
	if len(rest) > 0 {
		rest = rest[1:] // "moves"
	}
	for _, text := range rest {
		m, err := b.ParseMove(strings.ToLower(text))
		if err != nil {
			return nil, fmt.Errorf("position: move %s: %w", text, err)
		}
		b.MakeMove(m)
	}
	return b, nil
}

func parseGo(args []string, opts Options) engine.Limits {
	limits := engine.Limits{Overhead: opts.MoveOverhead}
	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			limits.Infinite = true
			continue
		}
		n, _ := strconv.ParseInt(args[i+1], 10, 64)
		ms := time.Duration(max(n, 0)) * time.Millisecond
		switch args[i] {
		case "wtime":
			limits.WTime = ms
		case "btime":
			limits.BTime = ms
		case "winc":
			limits.WInc = ms
		case "binc":
			limits.BInc = ms
		case "movestogo":
			limits.MovesToGo = int(n)
		case "depth":
			limits.Depth = int(n)
		case "nodes":
			limits.Nodes = uint64(n)
		case "movetime":
			limits.MoveTime = ms
		}
		i++
	}
	return limits
}

func (e *Engine) startSearch(limits engine.Limits) {
	e.join()
	e.searcher.ClearStop()
	w := &worker{
		done:     make(chan struct{}),
		release:  make(chan struct{}),
		infinite: limits.Infinite,
	}
	e.worker = w
	b := e.board.Copy()
	e.debugf("go %+v", limits)

	go func() {
		defer close(w.done)
		res := e.searcher.Search(b, limits)
		if limits.Infinite {
			<-w.release
		}
		if res.Move == chessmg.NullMove {
			e.log.Println(res.Outcome)
			e.println("bestmove 0000")
			return
		}
		e.debugf("searched %d nodes to depth %d", res.Nodes, res.Depth)
		e.println("bestmove", res.Move)
	}()
}

// join stops the running search, if any, and waits for its bestmove.
func (e *Engine) join() {
	w := e.worker
	if w == nil {
		return
	}
	w.signal()
	e.searcher.Stop()
	<-w.done
	e.worker = nil
}

// finish waits for a bounded search to end on its own.
func (e *Engine) finish() {
	w := e.worker
	if w == nil {
		return
	}
	if w.infinite {
		e.join()
		return
	}
	<-w.done
	e.worker = nil
}

func (e *Engine) printInfo(info engine.Info) {
	ms := info.Time.Milliseconds()
	nps := info.Nodes * 1000 / uint64(max(ms, 1))
	e.println(fmt.Sprintf("info depth %d score %s nodes %d time %d nps %d pv %s",
		info.Depth, engine.FormatScore(info.Score), info.Nodes, ms, nps, info.PV))
}

// perftDepth caps the requested depth at engine.MaxDepth; larger counts
// would never finish anyway.
func perftDepth(arg string) int {
	depth, err := strconv.Atoi(arg)
	if err != nil || depth > engine.MaxDepth {
		return engine.MaxDepth
	}
	return depth
}

func (e *Engine) perft(depth int) {
	start := time.Now()
	divide := chessmg.PerftDivide(e.board, depth)
	moves := make([]chessmg.Move, 0, len(divide))
	var total uint64
	for m, n := range divide {
		moves = append(moves, m)
		total += n
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
	for _, m := range moves {
		e.println(fmt.Sprintf("%s: %d", m, divide[m]))
	}
	if depth == 0 {
		total = 1
	}
	e.println()
	e.println("Nodes searched:", total)
	e.debugf("perft %d took %v", depth, time.Since(start))
}
