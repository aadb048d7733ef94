package ding

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v5/ring"
	"golang.org/x/crypto/sha3"
)

// HintPoly computes one hint per level-0 coefficient of x. Coefficients are
// read as residues modulo q and balanced before the hint is taken.
func (params Parameters) HintPoly(x ring.Poly) []uint8 {
	coeffs := x.Coeffs[0]
	hints := make([]uint8, len(coeffs))

	for i, c := range coeffs {
		hints[i] = params.Hint(params.balanceCoeff(c))
	}

	return hints
}

// ExtractPoly extracts one bit per level-0 coefficient of x using the hint
// at the same index.
func (params Parameters) ExtractPoly(x ring.Poly, hints []uint8) ([]uint8, error) {
	coeffs := x.Coeffs[0]
	if len(hints) != len(coeffs) {
		return nil, fmt.Errorf("%w: %d hints for %d coefficients", ErrHintLength, len(hints), len(coeffs))
	}

	bits := make([]uint8, len(coeffs))
	for i, c := range coeffs {
		bits[i] = params.Extract(params.balanceCoeff(c), hints[i])
	}

	return bits, nil
}

func (params Parameters) balanceCoeff(c uint64) int64 {
	return Balance(int64(c%uint64(params.q)), params.q)
}

// PackBits packs bits little-endian: bit i goes to byte i/8 at position i%8.
// Only the low bit of every entry is used.
func PackBits(bits []uint8) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		out[i>>3] |= (b & 1) << (i & 7)
	}
	return out
}

// SharedKey hashes the reconciled bits into a 32 byte key.
func SharedKey(bits []uint8) [32]byte {
	return sha3.Sum256(PackBits(bits))
}
