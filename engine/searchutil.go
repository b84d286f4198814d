package engine

import (
	"fmt"
	"strings"

	"magic-engine/chessmg"
)

// Ensure we stay below the killer offset
const historyMaxVal = killerOffset - 1

// PVLine holds the principal variation found below a node.
type PVLine struct {
	Moves []chessmg.Move
}

// Clear empties the line, keeping its storage.
func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update replaces the line with move followed by the child line.
func (pv *PVLine) Update(move chessmg.Move, child PVLine) {
	pv.Clear()
	pv.Moves = append(pv.Moves, move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns a copy that does not share storage with pv.
func (pv PVLine) Clone() PVLine {
	return PVLine{Moves: append([]chessmg.Move(nil), pv.Moves...)}
}

// GetPVMove returns the first move of the line, or NullMove.
func (pv PVLine) GetPVMove() chessmg.Move {
	if len(pv.Moves) == 0 {
		return chessmg.NullMove
	}
	return pv.Moves[0]
}

func (pv PVLine) String() string {
	parts := make([]string, len(pv.Moves))
	for i, m := range pv.Moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

/*
HISTORY
If a quiet move caused a beta cutoff we bump its from/to score by depth squared,
so later siblings with the same shape are tried earlier. Once any score reaches
historyMaxVal the whole side's table is halved.
*/
type historyTable [2][64][64]int32

func (h *historyTable) score(side chessmg.Color, move chessmg.Move) int32 {
	return h[side][move.From()][move.To()]
}

func (h *historyTable) increment(side chessmg.Color, move chessmg.Move, depth int) {
	v := &h[side][move.From()][move.To()]
	*v += int32(depth * depth)
	if *v >= historyMaxVal {
		h.age(side)
	}
}

// Age the values in the history table by halving them.
func (h *historyTable) age(side chessmg.Color) {
	for sq1 := 0; sq1 < 64; sq1++ {
		for sq2 := 0; sq2 < 64; sq2++ {
			h[side][sq1][sq2] /= 2
		}
	}
}

func (h *historyTable) clear() {
	*h = historyTable{}
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int32) bool {
	return abs32(score) > mateThreshold
}

// FormatScore renders a score as UCI "cp N" or "mate N", where N counts full
// moves and is negative when the side to move is being mated.
func FormatScore(score int32) string {
	if score > mateThreshold {
		pliesToMate := MateScore - score
		return fmt.Sprintf("mate %d", (pliesToMate+1)/2)
	} else if score < -mateThreshold {
		pliesToMate := MateScore + score
		return fmt.Sprintf("mate %d", -(pliesToMate+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
