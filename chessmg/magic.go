package chessmg

import (
	"fmt"
	"math/bits"
	"sync"

	"golang.org/x/exp/rand"
)

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   uint64 // relevant occupancy mask (excludes edges)
	Magic  uint64 // multiplier
	Shift  uint8  // 64 - popcount(Mask)
	Offset uint32 // index of the square's first slot in the shared table
}

// index maps an occupancy to the square's slot in the shared attack table.
func (m *Magic) index(occ uint64) uint32 {
	return m.Offset + uint32(((occ&m.Mask)*m.Magic)>>m.Shift)
}

const (
	rookTableSize   = 102400
	bishopTableSize = 5248

	// magicSeed keeps construction reproducible between runs.
	magicSeed     = 0x5EED_CAFE_F00D
	magicMaxTries = 100_000_000
)

var (
	rookMagics   [64]Magic
	bishopMagics [64]Magic

	rookTable   [rookTableSize]uint64
	bishopTable [bishopTableSize]uint64

	tablesOnce sync.Once
	tablesErr  error
)

func init() {
	initZobrist()
	if err := InitAttackTables(); err != nil {
		panic(err)
	}
}

// InitAttackTables builds every attack table exactly once. Later calls return
// the result of the first construction. The tables are read-only afterwards and
// safe for concurrent use without locking.
func InitAttackTables() error {
	tablesOnce.Do(func() {
		initLeaperTables()
		initLineTables()
		rng := rand.New(rand.NewSource(magicSeed))
		if tablesErr = buildSliderTables(PieceTypeRook, rookDirections, rookMagics[:], rookTable[:], rng, magicMaxTries); tablesErr != nil {
			return
		}
		tablesErr = buildSliderTables(PieceTypeBishop, bishopDirections, bishopMagics[:], bishopTable[:], rng, magicMaxTries)
	})
	return tablesErr
}

// buildSliderTables searches a magic for every square and fills the shared table.
func buildSliderTables(pt PieceType, dirs [4]direction, magics []Magic, table []uint64, rng *rand.Rand, maxTries int) error {
	var offset uint32
	for sq := 0; sq < 64; sq++ {
		mask := relevantMask(sq, dirs)
		n := bits.OnesCount64(mask)
		size := 1 << n
		if int(offset)+size > len(table) {
			return fmt.Errorf("%w: %d-entry table too small at %s", ErrAttackTableConstruction, len(table), Square(sq))
		}

		// Enumerate every subset of the mask (carry-rippler) with its ground truth.
		occs := make([]uint64, 0, size)
		atts := make([]uint64, 0, size)
		for sub := uint64(0); ; {
			occs = append(occs, sub)
			atts = append(atts, slidingAttacks(sq, sub, dirs))
			sub = (sub - mask) & mask
			if sub == 0 {
				break
			}
		}

		m := Magic{Mask: mask, Shift: uint8(64 - n), Offset: offset}
		magic, err := findMagic(&m, occs, atts, table[offset:int(offset)+size], rng, maxTries)
		if err != nil {
			return &AttackTableError{Piece: pt, Square: Square(sq), Tries: maxTries}
		}
		m.Magic = magic
		magics[sq] = m
		offset += uint32(size)
	}
	return nil
}

// findMagic draws sparse random candidates until one maps every occupancy
// subset to a slot that is either unused or already holds the same attack set.
// On success the slots of dst hold the attack sets.
func findMagic(m *Magic, occs, atts []uint64, dst []uint64, rng *rand.Rand, maxTries int) (uint64, error) {
	epoch := make([]int, len(dst))
	for try := 1; try <= maxTries; try++ {
		candidate := rng.Uint64() & rng.Uint64() & rng.Uint64()
		if bits.OnesCount64((m.Mask*candidate)&0xFF00000000000000) < 6 {
			continue
		}
		ok := true
		for i, occ := range occs {
			idx := (occ * candidate) >> m.Shift
			if epoch[idx] < try {
				epoch[idx] = try
				dst[idx] = atts[i]
			} else if dst[idx] != atts[i] {
				ok = false
				break
			}
		}
		if ok {
			return candidate, nil
		}
	}
	return 0, ErrAttackTableConstruction
}

// RookAttacks returns rook attacks from sq for the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	m := &rookMagics[sq]
	return rookTable[m.index(occ)]
}

// BishopAttacks returns bishop attacks from sq for the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	m := &bishopMagics[sq]
	return bishopTable[m.index(occ)]
}

// QueenAttacks combines rook and bishop attacks.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set of sq.
func KnightAttacks(sq Square) uint64 { return knightMoves[sq] }

// KingAttacks returns the king attack set of sq.
func KingAttacks(sq Square) uint64 { return kingMoves[sq] }

// PawnAttacks returns the capture squares of a pawn of color c on sq.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// VerifyAttackTables compares every slider table lookup against ray-traced
// ground truth for every occupancy subset of every relevant mask.
func VerifyAttackTables() error {
	if err := InitAttackTables(); err != nil {
		return err
	}
	check := func(name string, dirs [4]direction, lookup func(Square, uint64) uint64, magics *[64]Magic) error {
		for sq := 0; sq < 64; sq++ {
			mask := magics[sq].Mask
			if mask != relevantMask(sq, dirs) {
				return fmt.Errorf("%s mask mismatch on %s", name, Square(sq))
			}
			for sub := uint64(0); ; {
				if got, want := lookup(Square(sq), sub), slidingAttacks(sq, sub, dirs); got != want {
					return fmt.Errorf("%s attacks on %s with occupancy %#016x: got %#016x want %#016x", name, Square(sq), sub, got, want)
				}
				sub = (sub - mask) & mask
				if sub == 0 {
					break
				}
			}
		}
		return nil
	}
	if err := check("rook", rookDirections, RookAttacks, &rookMagics); err != nil {
		return err
	}
	return check("bishop", bishopDirections, BishopAttacks, &bishopMagics)
}
