package analysis

import (
	"math/rand"
)

type ErrGen struct {
	stdev float64
	src   *rand.Rand
}

// NewErrorGenerator returns a rounded Gaussian error source. A nil src falls
// back to the global math/rand source.
func NewErrorGenerator(stdev float64, src *rand.Rand) *ErrGen {
	return &ErrGen{stdev: stdev, src: src}
}

func (erg *ErrGen) GenErr() int64 {
	var g float64
	if erg.src != nil {
		g = erg.src.NormFloat64()
	} else {
		g = rand.NormFloat64()
	}
	e := int64(g * erg.stdev)
	return e
}

// GenEvenErr returns 2e, the shape of the error between two honest parties.
func (erg *ErrGen) GenEvenErr() int64 {
	return 2 * erg.GenErr()
}
