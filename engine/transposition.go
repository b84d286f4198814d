package engine

import (
	"unsafe"

	"magic-engine/chessmg"
)

const (
	// Flags
	AlphaFlag = iota
	BetaFlag
	ExactFlag

	// In MB
	DefaultHashMB = 16
	MaxHashMB     = 4096
	clusterSize   = 4
)

// TransTable caches search results keyed by Zobrist hash. Entries live in
// clusters of four; a probe only scans the cluster the hash maps to.
type TransTable struct {
	entries      []TTEntry
	clusterCount uint64
	sizeMB       int
}

type TTEntry struct {
	Hash  uint64
	Move  chessmg.Move
	Score int16
	Depth int8
	Flag  int8
}

// NewTransTable allocates a table of roughly sizeMB megabytes.
func NewTransTable(sizeMB int) *TransTable {
	tt := &TransTable{}
	tt.Resize(sizeMB)
	return tt
}

// Resize reallocates the table, dropping every stored entry.
func (TT *TransTable) Resize(sizeMB int) {
	sizeMB = clamp(sizeMB, 1, MaxHashMB)
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	totalBytes := uint64(sizeMB) * 1024 * 1024
	clusterCount := totalBytes / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	TT.sizeMB = sizeMB
	TT.clusterCount = clusterCount
	TT.entries = make([]TTEntry, clusterCount*clusterSize)
}

// SizeMB reports the configured size.
func (TT *TransTable) SizeMB() int { return TT.sizeMB }

// Clear wipes every entry without reallocating.
func (TT *TransTable) Clear() {
	clear(TT.entries)
}

// Mate scores are stored relative to the node and converted back to
// root-relative on probe.
func scoreToTT(score int32, ply int) int16 {
	if score > mateThreshold {
		score += int32(ply)
	} else if score < -mateThreshold {
		score -= int32(ply)
	}
	return int16(score)
}

func scoreFromTT(score int16, ply int) int32 {
	s := int32(score)
	if s > mateThreshold {
		s -= int32(ply)
	} else if s < -mateThreshold {
		s += int32(ply)
	}
	return s
}

func (TT *TransTable) useEntry(ttEntry *TTEntry, hash uint64, depth int, alpha, beta int32, ply int) (usable bool, score int32) {
	if ttEntry == nil || ttEntry.Hash != hash || int(ttEntry.Depth) < depth {
		return false, 0
	}
	norm := scoreFromTT(ttEntry.Score, ply)
	switch ttEntry.Flag {
	case ExactFlag:
		return true, norm
	case AlphaFlag:
		if norm <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if norm >= beta {
			return true, beta
		}
	}
	return false, 0
}

func (TT *TransTable) getEntry(hash uint64) (entry *TTEntry, found bool) {
	if TT.clusterCount == 0 {
		return nil, false
	}

	start := int((hash % TT.clusterCount) * clusterSize)
	for i := 0; i < clusterSize; i++ {
		next := &TT.entries[start+i]
		if next.Hash == hash {
			return next, true
		}
	}
	return nil, false
}

func (TT *TransTable) storeEntry(hash uint64, depth int, ply int, move chessmg.Move, score int32, flag int8) {
	if TT.clusterCount == 0 {
		return
	}

	base := int((hash % TT.clusterCount) * clusterSize)
	targetIdx := -1

	// Prefer updating existing entry
	for i := 0; i < clusterSize; i++ {
		if TT.entries[base+i].Hash == hash {
			targetIdx = base + i
			break
		}
	}

	// Next look for an empty slot
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			if TT.entries[base+i].Hash == 0 {
				targetIdx = base + i
				break
			}
		}
	}

	// Otherwise replace the shallowest entry in the cluster
	if targetIdx == -1 {
		targetIdx = base
		minDepth := TT.entries[base].Depth
		for i := 1; i < clusterSize; i++ {
			if TT.entries[base+i].Depth < minDepth {
				minDepth = TT.entries[base+i].Depth
				targetIdx = base + i
			}
		}
	}

	entry := &TT.entries[targetIdx]
	// Keep the old best move when this search found none
	if move == chessmg.NullMove && entry.Hash == hash {
		move = entry.Move
	}
	entry.Hash = hash
	entry.Depth = int8(clamp(depth, 0, 127))
	entry.Move = move
	entry.Flag = flag
	entry.Score = scoreToTT(score, ply)
}
