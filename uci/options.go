package uci

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"magic-engine/engine"
)

// Options holds the settings a GUI can change with setoption.
type Options struct {
	Hash         int           // transposition table size in MB
	MoveOverhead time.Duration // reserved from every clock-based budget
	Evaluation   string        // "pst" or "material"
}

const (
	defaultMoveOverhead = 30 * time.Millisecond
	maxMoveOverhead     = 5000

	evalPST      = "pst"
	evalMaterial = "material"
)

// DefaultOptions returns the settings used before any setoption.
func DefaultOptions() Options {
	return Options{
		Hash:         engine.DefaultHashMB,
		MoveOverhead: defaultMoveOverhead,
		Evaluation:   evalPST,
	}
}

// optionLines describes the options in reply to "uci".
func optionLines(o Options) []string {
	return []string{
		fmt.Sprintf("option name Hash type spin default %d min 1 max %d", o.Hash, engine.MaxHashMB),
		fmt.Sprintf("option name Move Overhead type spin default %d min 0 max %d", o.MoveOverhead.Milliseconds(), maxMoveOverhead),
		fmt.Sprintf("option name Evaluation type combo default %s var %s var %s", o.Evaluation, evalPST, evalMaterial),
	}
}

func evaluatorFor(name string) engine.Evaluator {
	if name == evalMaterial {
		return engine.MaterialEvaluator{}
	}
	return engine.PSTEvaluator{}
}

// set applies one setoption pair. Option names are case-insensitive.
func (o *Options) set(name, value string) error {
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 || mb > engine.MaxHashMB {
			return fmt.Errorf("option Hash: invalid value %q", value)
		}
		o.Hash = mb
	case "move overhead":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 || ms > maxMoveOverhead {
			return fmt.Errorf("option Move Overhead: invalid value %q", value)
		}
		o.MoveOverhead = time.Duration(ms) * time.Millisecond
	case "evaluation":
		v := strings.ToLower(value)
		if v != evalPST && v != evalMaterial {
			return fmt.Errorf("option Evaluation: invalid value %q", value)
		}
		o.Evaluation = v
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	return nil
}
