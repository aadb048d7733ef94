// Package analysis measures how often Ding reconciliation disagrees when the
// two parties' values differ by a sampled even error.
package analysis

import (
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"
	"github.com/tuneinsight/lattigo/v5/ring"
	"github.com/tuneinsight/lattigo/v5/utils/sampling"
	"github.com/zeebo/blake3"

	"github.com/KAIST-CryptLab/dingrec/core/ding"
)

// Report summarises a run of reconciliation trials.
type Report struct {
	Trials       int
	Coefficients int       // reconciled values per trial
	Failures     []float64 // disagreeing values, per trial
	Mean         float64
	Stdev        float64
	FailureRate  float64 // total failures over Trials*Coefficients
}

func (r Report) String() string {
	return fmt.Sprintf("trials=%d coeffs=%d mean=%.4f stdev=%.4f rate=%.6f", r.Trials, r.Coefficients, r.Mean, r.Stdev, r.FailureRate)
}

// ErrorBound is q/4 - 2. Pairs with an even difference strictly below it are
// expected to agree away from the ±q/2 wrap.
func ErrorBound(q int64) int64 {
	return q/4 - 2
}

// ScalarAgreement reconciles x and y twice, once with the hint of x and once
// with the hint of y.
func ScalarAgreement(params ding.Parameters, x, y int64) (withX, withY bool) {
	hx := params.Hint(x)
	hy := params.Hint(y)

	withX = params.Extract(x, hx) == params.Extract(y, hx)
	withY = params.Extract(x, hy) == params.Extract(y, hy)
	return
}

// NewPRNG returns a keyed PRNG derived from seed, or a fresh random one when
// seed is empty.
func NewPRNG(seed string) (sampling.PRNG, error) {
	var prng *sampling.KeyedPRNG
	var err error

	if seed == "" {
		prng, err = sampling.NewPRNG()
	} else {
		key := blake3.Sum256([]byte(seed))
		prng, err = sampling.NewKeyedPRNG(key[:])
	}

	if err != nil {
		return nil, err
	}
	return prng, nil
}

// Analyzer samples x uniformly over Z_q[X]/(X^N+1) and y = x + 2e with e
// drawn from a discrete Gaussian, then reconciles every coefficient with the
// hints of x. It is not safe for concurrent use.
type Analyzer struct {
	params   ding.Parameters
	ringQ    *ring.Ring
	uniform  *ring.UniformSampler
	gaussian *ring.GaussianSampler
	sigma    float64
}

// NewAnalyzer requires q = 1 mod 2^(logN+1) so that the ring can be built.
func NewAnalyzer(params ding.Parameters, logN int, sigma float64, prng sampling.PRNG) (*Analyzer, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("analysis: invalid standard deviation %v", sigma)
	}

	q := uint64(params.Q())
	if logN < 4 || (q-1)%(2<<logN) != 0 {
		return nil, fmt.Errorf("analysis: q = %d is not 1 mod 2N for logN = %d", q, logN)
	}

	ringQ, err := ring.NewRing(1<<logN, []uint64{q})
	if err != nil {
		return nil, fmt.Errorf("analysis: failed to build ring for q = %d: %w", params.Q(), err)
	}

	return &Analyzer{
		params:   params,
		ringQ:    ringQ,
		uniform:  ring.NewUniformSampler(prng, ringQ),
		gaussian: ring.NewGaussianSampler(prng, ringQ, ring.DiscreteGaussian{Sigma: sigma, Bound: 6 * sigma}, false),
		sigma:    sigma,
	}, nil
}

func (a *Analyzer) N() int {
	return a.ringQ.N()
}

// Trial runs one reconciliation of N coefficients and returns how many of
// them disagree.
func (a *Analyzer) Trial() (failures int, err error) {
	ringQ := a.ringQ

	x := ringQ.NewPoly()
	e := ringQ.NewPoly()
	y := ringQ.NewPoly()

	a.uniform.Read(x)
	a.gaussian.Read(e)

	// y = x + 2e
	ringQ.Add(x, e, y)
	ringQ.Add(y, e, y)

	hints := a.params.HintPoly(x)

	var bx, by []uint8
	if bx, err = a.params.ExtractPoly(x, hints); err != nil {
		return
	}
	if by, err = a.params.ExtractPoly(y, hints); err != nil {
		return
	}

	for i := range bx {
		if bx[i] != by[i] {
			failures++
		}
	}

	return
}

// Run performs trials reconciliations and summarises the failures.
func (a *Analyzer) Run(trials int) (r Report, err error) {
	if trials <= 0 {
		return r, fmt.Errorf("analysis: invalid number of trials %d", trials)
	}

	data := make([]float64, trials)
	for i := range data {
		var f int
		if f, err = a.Trial(); err != nil {
			return
		}
		data[i] = float64(f)
	}

	return summarise(data, a.N())
}

// RunScalar reconciles trials independent scalar pairs (x, x + 2e) with x
// uniform over the balanced range, using the rounded Gaussian of ErrGen.
func RunScalar(params ding.Parameters, erg *ErrGen, src *rand.Rand, trials int) (r Report, err error) {
	if trials <= 0 {
		return r, fmt.Errorf("analysis: invalid number of trials %d", trials)
	}

	q := params.Q()
	data := make([]float64, trials)
	for i := range data {
		x := params.Balance(src.Int63n(q))
		y := params.Balance(x + erg.GenEvenErr())

		if withX, _ := ScalarAgreement(params, x, y); !withX {
			data[i] = 1
		}
	}

	return summarise(data, 1)
}

func summarise(data []float64, coeffs int) (r Report, err error) {
	r.Trials = len(data)
	r.Coefficients = coeffs
	r.Failures = data

	if r.Mean, err = stats.Mean(data); err != nil {
		return
	}
	if r.Stdev, err = stats.StandardDeviation(data); err != nil {
		return
	}

	var total float64
	if total, err = stats.Sum(data); err != nil {
		return
	}
	r.FailureRate = total / float64(r.Trials*r.Coefficients)

	return
}
