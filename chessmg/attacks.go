package chessmg

// Precomputed attack masks for knights and kings from each square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// Pawn attack masks: pawnAttacks[color][sq] gives bitboard of squares that a pawn of 'color' attacks from 'sq'.
var pawnAttacks [2][64]uint64

// betweenBB[a][b] holds the squares strictly between a and b when they share a
// rank, file or diagonal, otherwise 0.
var betweenBB [64][64]uint64

// lineBB[a][b] holds the full line through a and b (edge to edge) when aligned.
var lineBB [64][64]uint64

type direction struct{ df, dr int }

var rookDirections = [4]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
var bishopDirections = [4]direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

// initLeaperTables precomputes move attack bitboards for knights, kings, and pawn captures.
func initLeaperTables() {
	knightOffsets := [8]direction{
		{1, 2}, {-1, 2}, {1, -2}, {-1, -2},
		{2, 1}, {-2, 1}, {2, -1}, {-2, -1},
	}
	kingOffsets := [8]direction{
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8
		for _, off := range knightOffsets {
			knightMoves[sq] |= offsetBB(file+off.df, rank+off.dr)
		}
		for _, off := range kingOffsets {
			kingMoves[sq] |= offsetBB(file+off.df, rank+off.dr)
		}
		pawnAttacks[White][sq] = offsetBB(file-1, rank+1) | offsetBB(file+1, rank+1)
		pawnAttacks[Black][sq] = offsetBB(file-1, rank-1) | offsetBB(file+1, rank-1)
	}
}

// offsetBB returns the bit for (file, rank) or 0 when it falls off the board.
func offsetBB(file, rank int) uint64 {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0
	}
	return uint64(1) << uint(rank*8+file)
}

// slidingAttacks ray-traces attacks from sq along dirs, stopping at (and
// including) the first occupied square on each ray.
func slidingAttacks(sq int, occ uint64, dirs [4]direction) uint64 {
	var attacks uint64
	file, rank := sq%8, sq/8
	for _, d := range dirs {
		for f, r := file+d.df, rank+d.dr; f >= 0 && f < 8 && r >= 0 && r < 8; f, r = f+d.df, r+d.dr {
			bit := uint64(1) << uint(r*8+f)
			attacks |= bit
			if occ&bit != 0 {
				break
			}
		}
	}
	return attacks
}

// relevantMask returns the blocker squares that can influence a slider on sq:
// every ray square except the last one before the edge.
func relevantMask(sq int, dirs [4]direction) uint64 {
	var mask uint64
	file, rank := sq%8, sq/8
	for _, d := range dirs {
		for f, r := file+d.df, rank+d.dr; ; f, r = f+d.df, r+d.dr {
			nf, nr := f+d.df, r+d.dr
			if f < 0 || f > 7 || r < 0 || r > 7 || nf < 0 || nf > 7 || nr < 0 || nr > 7 {
				break
			}
			mask |= uint64(1) << uint(r*8+f)
		}
	}
	return mask
}

// initLineTables fills betweenBB and lineBB from ray tracing on an empty board.
func initLineTables() {
	for a := 0; a < 64; a++ {
		for _, dirs := range [2][4]direction{rookDirections, bishopDirections} {
			empty := slidingAttacks(a, 0, dirs)
			for b := 0; b < 64; b++ {
				bBit := uint64(1) << uint(b)
				if empty&bBit == 0 {
					continue
				}
				betweenBB[a][b] = slidingAttacks(a, bBit, dirs) & slidingAttacks(b, uint64(1)<<uint(a), dirs)
				lineBB[a][b] = (empty & slidingAttacks(b, 0, dirs)) | uint64(1)<<uint(a) | bBit
			}
		}
	}
}
