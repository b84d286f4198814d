package engine

import "magic-engine/chessmg"

// KillerStruct keeps two quiet moves per ply that caused a beta cutoff.
type KillerStruct struct {
	KillerMoves [MaxPly + 1][2]chessmg.Move
}

func (k *KillerStruct) InsertKiller(move chessmg.Move, ply int) {
	if ply > MaxPly {
		return
	}
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// Clear the killer moves table.
func (k *KillerStruct) ClearKillers() {
	for ply := range k.KillerMoves {
		k.KillerMoves[ply][0] = chessmg.NullMove
		k.KillerMoves[ply][1] = chessmg.NullMove
	}
}
