package ding

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/lattigo/v5/ring"
)

var (
	ErrModulusTooSmall = errors.New("ding: modulus must be greater than 4")
	ErrModulusEven     = errors.New("ding: modulus must be odd")
	ErrModulusNotPrime = errors.New("ding: modulus must be prime")
	ErrHintLength      = errors.New("ding: hint vector length does not match the polynomial degree")
)

// Parameters is a validated modulus context. The zero value is not usable,
// build it with NewParameters.
type Parameters struct {
	q int64 // reconciliation modulus, odd prime
}

// NewParameters checks that q is an odd prime large enough for the quartile
// split and returns the corresponding context.
func NewParameters(q uint64) (params Parameters, err error) {
	switch {
	case q <= 4:
		return params, fmt.Errorf("%w: q = %d", ErrModulusTooSmall, q)
	case q&1 == 0:
		return params, fmt.Errorf("%w: q = %d", ErrModulusEven, q)
	case q > 1<<62:
		return params, fmt.Errorf("ding: modulus %d does not fit the signed representation", q)
	case !ring.IsPrime(q):
		return params, fmt.Errorf("%w: q = %d", ErrModulusNotPrime, q)
	}

	return Parameters{q: int64(q)}, nil
}

func (params Parameters) Q() int64 {
	return params.q
}

// UpperBound is (q-1)/4, the edge of the central band used by Hint.
func (params Parameters) UpperBound() int64 {
	return (params.q - 1) / 4
}

// HalfQ is (q-1)/2, the largest balanced representative.
func (params Parameters) HalfQ() int64 {
	return (params.q - 1) / 2
}

func (params Parameters) Hint(x int64) uint8 {
	return Hint(x, params.q)
}

func (params Parameters) Extract(x int64, hint uint8) uint8 {
	return Extract(x, hint, params.q)
}

func (params Parameters) Balance(x int64) int64 {
	return Balance(x, params.q)
}

// BalancedResidues builds a fresh table for the context modulus. Callers
// reconciling many values should build it once and keep it.
func (params Parameters) BalancedResidues() []int64 {
	return BalancedResidues(params.q)
}
