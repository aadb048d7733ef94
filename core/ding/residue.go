package ding

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// BalancedResidues returns a table of length q whose entry i is the
// representative of i in (-q/2, q/2]. For q = 31:
//
//	[0, 15]  -> [0, 15]
//	[16, 30] -> [-15, -1]
//
// q must be an odd prime. The residues 1..q-1 are split into two halves of
// (q-1)/2 values, the first half is kept as is and the second half is
// shifted down by q. A q that cannot be split that way panics.
func BalancedResidues[T constraints.Signed](q T) []T {
	if q < 3 || q%2 == 0 {
		panic(fmt.Sprintf("ding: cannot balance residues for modulus %d", int64(q)))
	}

	residues := make([]T, 0, int(q-1))
	for x := T(1); x < q; x++ {
		residues = append(residues, x)
	}

	half := int((q - 1) / 2)
	table := make([]T, int(q))

	for _, x := range residues[:half] {
		table[x] = x % q
	}

	for _, x := range residues[half:] {
		table[x] = x%q - q
	}

	return table
}

// Balance returns the representative of x modulo q in (-q/2, q/2]. It agrees
// with BalancedResidues(q)[x] for 0 <= x < q and accepts any x.
func Balance[T constraints.Signed](x, q T) T {
	r := x % q
	if r < 0 {
		r += q
	}

	if r > (q-1)/2 {
		r -= q
	}

	return r
}
