package ding

import "golang.org/x/exp/constraints"

// Extract returns the bit carried by x once the rounding offset selected by
// hint has been applied. The offset is hint*(q-1)/2, multiplied before the
// truncating division.
//
// The final reduction modulo 2 is floored, so the result is always 0 or 1,
// including for negative x. The intermediate signal%q is never negative.
func Extract[T constraints.Signed](x T, hint uint8, q T) uint8 {
	signal := T(hint) * (q - 1) / 2

	v := (x + signal%q) % 2
	if v < 0 {
		v += 2
	}

	return uint8(v)
}
