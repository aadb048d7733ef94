package ding

import "golang.org/x/exp/constraints"

// Hint returns 0 when x lies strictly inside the central band
// (-(q-1)/4, (q-1)/4) and 1 when it lies in one of the two outer quartiles.
// It is defined for every x; q is expected to be an odd prime larger than 4.
func Hint[T constraints.Signed](x, q T) uint8 {
	upper := (q - 1) / 4
	lower := -upper

	if x > lower && x < upper {
		return 0
	}

	return 1
}
